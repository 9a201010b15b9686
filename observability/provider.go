// Package observability provides a centralized provider for the logging and
// metrics components used throughout the collector.
package observability

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"imagecollector/observability/logger"
	"imagecollector/observability/metrics"
	"imagecollector/observability/types"
)

// Logger is a type alias for the Logger interface from the types package.
type Logger = types.Logger

// Metrics is a type alias for the Metrics interface from the types package.
type Metrics = types.Metrics

// Fields is a type alias for structured logging fields.
type Fields = types.Fields

// Config is a type alias for the observability configuration.
type Config = types.Config

// Provider is a type alias for the Provider interface from the types package.
type Provider = types.Provider

// DefaultProvider implements the Provider interface.
// It lazily creates one Logger and one Metrics instance per component and
// owns the Prometheus registry every component registers on.
type DefaultProvider struct {
	config   *Config
	registry *prometheus.Registry
	loggers  map[string]Logger
	metrics  map[string]Metrics
	mu       sync.RWMutex
}

// NewProvider creates a new observability provider with the given configuration.
// If LogOutput is not specified in the config, it defaults to os.Stderr.
//
// Example:
//
//	provider := NewProvider(&Config{
//		ServiceName: "image-collector",
//		Environment: "local",
//		LogLevel:    "warn",
//	})
//	log := provider.Logger("usecase.collector")
func NewProvider(config *Config) *DefaultProvider {
	if config.LogOutput == nil {
		config.LogOutput = os.Stderr
	}

	return &DefaultProvider{
		config:   config,
		registry: prometheus.NewRegistry(),
		loggers:  make(map[string]Logger),
		metrics:  make(map[string]Metrics),
	}
}

// Logger returns the Logger for the specified component.
// The logger carries the provider's AdditionalFields plus a "component" field.
func (p *DefaultProvider) Logger(component string) Logger {
	p.mu.RLock()
	if l, exists := p.loggers[component]; exists {
		p.mu.RUnlock()
		return l
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check
	if l, exists := p.loggers[component]; exists {
		return l
	}

	fields := make(Fields)
	for k, v := range p.config.AdditionalFields {
		fields[k] = v
	}
	fields["component"] = component

	l := logger.New(
		p.config.ServiceName,
		p.config.Environment,
		p.config.LogLevel,
		p.config.LogOutput,
		fields,
	)

	p.loggers[component] = l
	return l
}

// Metrics returns the Metrics instance for the specified component.
// Metric names are prefixed with the service name and the component.
func (p *DefaultProvider) Metrics(component string) Metrics {
	p.mu.RLock()
	if m, exists := p.metrics[component]; exists {
		p.mu.RUnlock()
		return m
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if m, exists := p.metrics[component]; exists {
		return m
	}

	m := metrics.New(p.config.ServiceName, component, p.registry)
	p.metrics[component] = m

	return m
}

// Components returns the logger and metrics for a component in one call.
func (p *DefaultProvider) Components(component string) (Logger, Metrics) {
	return p.Logger(component), p.Metrics(component)
}

// Registry exposes the Prometheus registry holding every component's collectors.
func (p *DefaultProvider) Registry() *prometheus.Registry {
	return p.registry
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text exposition format, for node_exporter's textfile collector.
func (p *DefaultProvider) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Close closes the LogOutput if it implements io.Closer, except for
// os.Stdout and os.Stderr.
func (p *DefaultProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if closer, ok := p.config.LogOutput.(io.Closer); ok {
		if closer != os.Stdout && closer != os.Stderr {
			return closer.Close()
		}
	}

	return nil
}

// OpenLogOutput resolves a LOG_OUTPUT setting to a writer.
// "stdout" and "stderr" select the standard streams; anything else is
// treated as a file path opened for appending.
func OpenLogOutput(target string) (io.Writer, error) {
	switch target {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	default:
		f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log output %s: %w", target, err)
		}
		return f, nil
	}
}
