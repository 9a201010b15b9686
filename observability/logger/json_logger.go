// Package logger provides the structured JSON logger used by the collector.
// Every entry is a single JSON object on its own line with a consistent set of
// standard fields, which keeps the output greppable and ingestible by Loki or
// any other line-oriented log shipper.
package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"imagecollector/observability/types"
)

// LogLevel represents the severity level of a log message.
// Higher values indicate more severe messages.
type LogLevel int

// Log level constants ordered by severity (lowest to highest).
const (
	// DebugLevel is for detailed debugging information
	DebugLevel LogLevel = iota
	// InfoLevel is for general informational messages
	InfoLevel
	// WarnLevel is for warning messages that don't prevent operation
	WarnLevel
	// ErrorLevel is for error messages indicating failures
	ErrorLevel
)

// contextKey is the type of the context keys the logger reads values from.
type contextKey string

// Context keys extracted into every entry when present.
const (
	RunIDKey contextKey = "run_id"
	URLKey   contextKey = "url"
)

// ParseLevel converts a string representation to a LogLevel.
// Unrecognized levels default to InfoLevel.
//
// Valid levels:
//   - "debug": DebugLevel
//   - "info": InfoLevel
//   - "warn" or "warning": WarnLevel
//   - "error": ErrorLevel
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// String returns the string representation of a LogLevel.
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "unknown"
	}
}

// JSONLogger implements the Logger interface with one JSON object per line.
// Each entry includes timestamp, level, service, env, hostname and message,
// followed by context values, persistent fields and call-specific fields.
type JSONLogger struct {
	// mu serialises writes so concurrent entries never interleave
	mu *sync.Mutex
	// output is where log entries are written
	output io.Writer
	// serviceName identifies the service in log entries
	serviceName string
	// environment specifies the deployment environment
	environment string
	// hostname is the detected system hostname
	hostname string
	// minLevel filters out messages below this severity
	minLevel LogLevel
	// persistentFields are included in every log entry from this logger
	persistentFields types.Fields
}

// New creates a new JSONLogger instance with the specified configuration.
// If output is nil, it defaults to os.Stderr.
//
// Parameters:
//   - serviceName: Name of the service for identification in logs
//   - environment: Deployment environment
//   - logLevel: Minimum level to output ("debug", "info", "warn", "error")
//   - output: Destination for log entries
//   - additionalFields: Fields included in every entry
func New(serviceName, environment, logLevel string, output io.Writer, additionalFields types.Fields) *JSONLogger {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	if output == nil {
		output = os.Stderr
	}

	fields := make(types.Fields, len(additionalFields))
	for k, v := range additionalFields {
		fields[k] = v
	}

	return &JSONLogger{
		mu:               &sync.Mutex{},
		output:           output,
		serviceName:      serviceName,
		environment:      environment,
		hostname:         hostname,
		minLevel:         ParseLevel(logLevel),
		persistentFields: fields,
	}
}

// Info logs an informational message at INFO level.
func (l *JSONLogger) Info(ctx context.Context, msg string, fields types.Fields) {
	if l.minLevel > InfoLevel {
		return
	}
	l.log(ctx, InfoLevel, msg, nil, fields)
}

// Error logs an error message at ERROR level.
// The error is included with both its message and its dynamic type.
func (l *JSONLogger) Error(ctx context.Context, msg string, err error, fields types.Fields) {
	if l.minLevel > ErrorLevel {
		return
	}
	l.log(ctx, ErrorLevel, msg, err, fields)
}

// Warn logs a warning message at WARN level.
func (l *JSONLogger) Warn(ctx context.Context, msg string, fields types.Fields) {
	if l.minLevel > WarnLevel {
		return
	}
	l.log(ctx, WarnLevel, msg, nil, fields)
}

// Debug logs a debug message at DEBUG level.
func (l *JSONLogger) Debug(ctx context.Context, msg string, fields types.Fields) {
	if l.minLevel > DebugLevel {
		return
	}
	l.log(ctx, DebugLevel, msg, nil, fields)
}

// WithFields returns a new JSONLogger with additional persistent fields.
// The new logger shares the parent's output and write lock.
//
// Example:
//
//	urlLogger := logger.WithFields(types.Fields{"url": rawURL})
//	urlLogger.Info(ctx, "Download started", nil)
func (l *JSONLogger) WithFields(fields types.Fields) types.Logger {
	newFields := make(types.Fields, len(l.persistentFields)+len(fields))
	for k, v := range l.persistentFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &JSONLogger{
		mu:               l.mu,
		output:           l.output,
		serviceName:      l.serviceName,
		environment:      l.environment,
		hostname:         l.hostname,
		minLevel:         l.minLevel,
		persistentFields: newFields,
	}
}

// log formats and writes a single entry.
func (l *JSONLogger) log(ctx context.Context, level LogLevel, msg string, err error, fields types.Fields) {
	entry := make(types.Fields, 8+len(l.persistentFields)+len(fields))

	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["service"] = l.serviceName
	entry["env"] = l.environment
	entry["hostname"] = l.hostname
	entry["message"] = msg

	if ctx != nil {
		if runID, ok := ctx.Value(RunIDKey).(string); ok {
			entry["run_id"] = runID
		}
		if url, ok := ctx.Value(URLKey).(string); ok {
			entry["url"] = url
		}
	}

	if err != nil {
		entry["error"] = err.Error()
		entry["error_type"] = fmt.Sprintf("%T", err)
	}

	for k, v := range l.persistentFields {
		entry[k] = v
	}
	for k, v := range fields {
		entry[k] = v
	}

	jsonBytes, mErr := json.Marshal(entry)
	if mErr != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write(append(jsonBytes, '\n'))
}

// WithRunID returns a context carrying the run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithURL returns a context carrying the URL being processed.
func WithURL(ctx context.Context, url string) context.Context {
	return context.WithValue(ctx, URLKey, url)
}
