package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "analyzer", cfg.Service.Name)
	assert.Equal(t, 5, cfg.Analyzer.MaxWorkers)
	assert.Equal(t, 30*time.Second, cfg.Analyzer.FetchTimeout)
	assert.Equal(t, 10*time.Second, cfg.Analyzer.ProbeTimeout)
	assert.False(t, cfg.Analyzer.SharedFetch)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Empty(t, cfg.Metrics.Port, "Metrics server is off by default")
	assert.False(t, cfg.Tracing.Enabled, "Tracing is off by default")
	assert.False(t, cfg.PublishEvents)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("ANALYZER_PUBLISH_EVENTS", "true")
	t.Setenv("METRICS_PORT", "9091")
	t.Setenv("ANALYZER_SHARED_FETCH", "1")

	cfg := Load()

	assert.True(t, cfg.Tracing.Enabled)
	assert.True(t, cfg.PublishEvents)
	assert.Equal(t, "9091", cfg.Metrics.Port)
	assert.True(t, cfg.Analyzer.SharedFetch)
}
