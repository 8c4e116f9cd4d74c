package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAnalyzerConfig_Defaults(t *testing.T) {
	cfg := NewAnalyzerConfig()

	assert.Equal(t, 5, cfg.MaxWorkers)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, int64(DefaultMaxBodyBytes), cfg.MaxBodyBytes)
	assert.False(t, cfg.SharedFetch)
}

func TestNewAnalyzerConfig_FromEnv(t *testing.T) {
	t.Setenv("ANALYZER_MAX_WORKERS", "12")
	t.Setenv("ANALYZER_PROBE_TIMEOUT", "2s")
	t.Setenv("ANALYZER_SHARED_FETCH", "true")
	t.Setenv("ANALYZER_MAX_BODY_BYTES", "1024")

	cfg := NewAnalyzerConfig()

	assert.Equal(t, 12, cfg.MaxWorkers)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout)
	assert.True(t, cfg.SharedFetch)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
}

func TestEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	testCases := []struct {
		description string
		key         string
		value       string
		check       func(t *testing.T, key string)
	}{
		{
			description: "non-numeric int falls back",
			key:         "TEST_INT",
			value:       "five",
			check: func(t *testing.T, key string) {
				assert.Equal(t, 7, GetIntEnv(key, 7))
			},
		},
		{
			description: "malformed duration falls back",
			key:         "TEST_DURATION",
			value:       "ten seconds",
			check: func(t *testing.T, key string) {
				assert.Equal(t, time.Minute, GetDurationEnv(key, time.Minute))
			},
		},
		{
			description: "malformed bool falls back",
			key:         "TEST_BOOL",
			value:       "maybe",
			check: func(t *testing.T, key string) {
				assert.True(t, GetBoolEnv(key, true))
			},
		},
		{
			description: "unset string uses default",
			key:         "TEST_STRING",
			value:       "",
			check: func(t *testing.T, key string) {
				assert.Equal(t, "fallback", GetEnv(key, "fallback"))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			tc.check(t, tc.key)
		})
	}
}
