package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"imagecollector/internal/app"
	"imagecollector/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfiguration()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	application, err := app.Build(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}
	defer application.Close(context.Background())

	reporter := cli.NewReporter(os.Stdout)
	reporter.Banner()

	urls, err := cli.Prompt(os.Stdin, os.Stdout)
	if err != nil {
		application.Logger.Error(ctx, "Failed to read URLs", err, nil)
		fmt.Fprintf(os.Stdout, "✗ Something went wrong: %v\n", err)
		return 0
	}

	summary := application.Collector.Run(ctx, urls, reporter)
	reporter.Summary(summary)

	return 0
}
