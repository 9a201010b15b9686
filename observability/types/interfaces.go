// Package types holds the logging and metrics contracts shared by every
// component of the collector, so that the core depends on interfaces and the
// concrete JSON logger and Prometheus collectors stay swappable in tests.
package types

import (
	"context"
	"io"
)

// Logger defines the contract for structured logging.
// Implementations write one JSON object per entry. All methods take a context
// so that run and URL identifiers can be attached without threading fields.
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, fields Fields)

	// Error logs an error message with the associated error.
	//
	// Parameters:
	//   - ctx: Context carrying run_id / url values
	//   - msg: The log message describing the error context
	//   - err: The error object to be logged
	//   - fields: Additional structured fields for context
	Error(ctx context.Context, msg string, err error, fields Fields)

	// Warn logs a warning message.
	// Use for rejected or skipped URLs that do not stop the run.
	Warn(ctx context.Context, msg string, fields Fields)

	// Debug logs a debug message.
	// These messages are filtered out unless LOG_LEVEL=debug.
	Debug(ctx context.Context, msg string, fields Fields)

	// WithFields returns a new Logger instance with additional persistent fields.
	// The returned logger includes these fields in all subsequent log entries.
	WithFields(fields Fields) Logger
}

// Metrics defines the contract for metrics collection.
// Implementations provide Prometheus-compatible metrics. Names follow
// Prometheus conventions and are prefixed by service and component.
type Metrics interface {
	// RecordSuccess increments the success counter for a specific operation type.
	RecordSuccess(operationType string)

	// RecordError increments the error counter for a specific operation and error type.
	//
	// Parameters:
	//   - operationType: The type of operation that failed (e.g., "download", "commit")
	//   - errorType: The category of error (e.g., "connection", "not_image", "too_large")
	RecordError(operationType string, errorType string)

	// RecordSkipped increments the skipped counter for an operation that
	// finished without error but produced nothing, such as a duplicate image.
	RecordSkipped(operationType string, reason string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(operation string, duration float64)

	// RecordFileSize records the size of stored files in bytes.
	//
	// Parameters:
	//   - fileType: The file extension without the dot (e.g., "png", "jpg")
	//   - bytes: The size of the file in bytes
	RecordFileSize(fileType string, bytes int64)

	// StartOperation increments the in-progress gauge for an operation.
	// Must be paired with EndOperation to maintain accurate counts.
	StartOperation(operation string)

	// EndOperation decrements the in-progress gauge for an operation.
	// Should be called in a defer statement to ensure it runs even on errors.
	EndOperation(operation string)
}

// Fields represents structured logging fields as key-value pairs.
// Values can be any type that is JSON-serializable.
//
// Example:
//
//	fields := Fields{
//		"url":      "https://example.com/cat.png",
//		"filename": "cat.png",
//		"bytes":    2048,
//	}
type Fields map[string]interface{}

// Config holds observability configuration for the provider.
type Config struct {
	// ServiceName identifies the service in logs and prefixes metric names.
	ServiceName string

	// Environment specifies the deployment environment ("local", "production", ...).
	Environment string

	// LogLevel sets the minimum log level to output.
	// Valid values: "debug", "info", "warn", "error".
	LogLevel string

	// LogOutput specifies where logs should be written.
	// If nil, defaults to os.Stderr so stdout stays free for the CLI report.
	LogOutput io.Writer

	// AdditionalFields are fields included in every log entry.
	AdditionalFields Fields
}

// Provider manages the lifecycle of observability components.
// Each component gets its own Logger and Metrics instances.
type Provider interface {
	// Logger returns a Logger instance for the specified component.
	// Multiple calls with the same component name return the same logger instance.
	Logger(component string) Logger

	// Metrics returns a Metrics instance for the specified component.
	// Multiple calls with the same component name return the same metrics instance.
	Metrics(component string) Metrics

	// Close shuts down the provider and releases all resources.
	Close() error
}
