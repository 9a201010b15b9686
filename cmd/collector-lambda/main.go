package main

import (
	"context"
	"log"

	"imagecollector/internal/app"
	"imagecollector/internal/handler/lambda"
)

func main() {
	ctx := context.Background()

	cfg, err := app.LoadConfiguration()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer application.Close(ctx)

	adapter := lambda.NewAdapter(
		application.Collector,
		&cfg.Lambda,
		application.Observability().Logger("handler.lambda"),
	)

	if err := adapter.Start(); err != nil {
		log.Fatalf("Lambda runtime stopped: %v", err)
	}
}
