/*
Package observability provides structured logging and metrics collection
for the image collector.

# Architecture

	Provider (manages instances, owns the Prometheus registry)
	    ├── Logger (JSON lines, stderr by default)
	    └── Metrics (Prometheus collectors per component)

Each component (storage.filesystem, service.download, usecase.collector, ...)
asks the provider for its own logger and metrics. Loggers carry a
"component" field; metric names are prefixed with the service name and the
component, e.g. image_collector_usecase_collector_processed_total.

Context values set with logger.WithRunID and logger.WithURL are added to
every entry logged with that context.

# Package Structure

	observability/
	├── types/      # Logger, Metrics and Provider contracts
	├── logger/     # JSON logger
	├── metrics/    # Prometheus implementation
	├── mocks/      # testify mocks
	└── provider.go # DefaultProvider

# Usage

	provider := observability.NewProvider(&observability.Config{
		ServiceName: "image-collector",
		Environment: "local",
		LogLevel:    "warn",
	})
	log, metrics := provider.Components("usecase.collector")

	log.Info(ctx, "Image saved", observability.Fields{"filename": name})
	metrics.RecordSuccess("collect")

	// At exit, for node_exporter's textfile collector
	provider.WriteTextfile("/var/lib/node_exporter/image_collector.prom")
*/
package observability
