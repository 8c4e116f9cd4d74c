package config

import (
	"github.com/tanushreec24/Webpage-Analyzer/shared/config"
)

// Config holds all configuration for the analyzer CLI
type Config struct {
	Service  config.ServiceConfig
	Analyzer config.AnalyzerConfig
	Output   config.OutputConfig
	Metrics  config.MetricsConfig
	Tracing  config.TracingConfig
	NATS     config.NATSConfig

	// PublishEvents streams progress events to NATS while analyzing
	PublishEvents bool
}

// Load loads the configuration for the analyzer CLI. Metrics, tracing and
// event publishing are off unless enabled through the environment.
func Load() *Config {
	tracing := config.NewTracingConfig("analyzer")
	tracing.Enabled = config.GetBoolEnv("TRACING_ENABLED", false)

	return &Config{
		Service:       config.NewServiceConfig("analyzer"),
		Analyzer:      config.NewAnalyzerConfig(),
		Output:        config.NewOutputConfig(),
		Metrics:       config.NewMetricsConfig(""),
		Tracing:       tracing,
		NATS:          config.NewNATSConfig(),
		PublishEvents: config.GetBoolEnv("ANALYZER_PUBLISH_EVENTS", false),
	}
}
