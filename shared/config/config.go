package config

import (
	"os"
	"strconv"
	"time"
)

// Common configuration types used across all services

// ServiceConfig holds basic service information
type ServiceConfig struct {
	Name    string
	Version string
	Port    string
}

// MetricsConfig holds metrics server configuration.
// An empty port disables the metrics server.
type MetricsConfig struct {
	Port string
}

// NATSConfig holds NATS connection configuration
type NATSConfig struct {
	URL string
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	ServiceName    string
	Enabled        bool
	ZipkinEndpoint string
	StdoutMetrics  bool
	StdoutLogs     bool
}

// DynamoDBConfig holds DynamoDB connection configuration
type DynamoDBConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// HTTPServerConfig holds HTTP server configuration
type HTTPServerConfig struct {
	Addr         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// WebSocketConfig holds WebSocket configuration
type WebSocketConfig struct {
	MaxConnections int
	ReadTimeout    int // seconds
	WriteTimeout   int // seconds
}

// AnalyzerConfig holds the tunables of the page analyzer
type AnalyzerConfig struct {
	MaxWorkers   int
	FetchTimeout time.Duration
	ProbeTimeout time.Duration
	UserAgent    string
	MaxBodyBytes int64
	SharedFetch  bool
}

// OutputConfig holds where report artifacts and log files are written
type OutputConfig struct {
	Dir        string
	XLSX       bool
	LogFileDir string
}

const (
	DefaultMaxWorkers   = 5
	DefaultFetchTimeout = 30 * time.Second
	DefaultProbeTimeout = 10 * time.Second
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultMaxBodyBytes = 10 << 20
)

// Common environment variable parsing functions

// GetEnv gets an environment variable with a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetIntEnv gets an integer environment variable with a default value
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetInt64Env gets a 64-bit integer environment variable with a default value
func GetInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetDurationEnv gets a duration environment variable with a default value
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// GetBoolEnv gets a boolean environment variable with a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// Common configuration builders

// NewServiceConfig creates a ServiceConfig with common defaults
func NewServiceConfig(serviceName string) ServiceConfig {
	return ServiceConfig{
		Name:    GetEnv("SERVICE_NAME", serviceName),
		Version: GetEnv("SERVICE_VERSION", "1.0.0"),
		Port:    GetEnv("PORT", "8080"),
	}
}

// NewMetricsConfig creates a MetricsConfig with common defaults
func NewMetricsConfig(defaultPort string) MetricsConfig {
	return MetricsConfig{
		Port: GetEnv("METRICS_PORT", defaultPort),
	}
}

// NewNATSConfig creates a NATSConfig with common defaults
func NewNATSConfig() NATSConfig {
	return NATSConfig{
		URL: GetEnv("NATS_URL", "nats://localhost:4222"),
	}
}

// NewTracingConfig creates a TracingConfig with common defaults
func NewTracingConfig(serviceName string) TracingConfig {
	return TracingConfig{
		ServiceName:    GetEnv("TRACING_SERVICE_NAME", serviceName),
		Enabled:        GetBoolEnv("TRACING_ENABLED", true),
		ZipkinEndpoint: GetEnv("ZIPKIN_ENDPOINT", "http://localhost:9411/api/v2/spans"),
		StdoutMetrics:  GetBoolEnv("OTEL_STDOUT_METRICS", false),
		StdoutLogs:     GetBoolEnv("OTEL_STDOUT_LOGS", false),
	}
}

// NewDynamoDBConfig creates a DynamoDBConfig with common defaults
func NewDynamoDBConfig() DynamoDBConfig {
	return DynamoDBConfig{
		Region:          GetEnv("AWS_REGION", "us-east-1"),
		Endpoint:        GetEnv("DYNAMODB_ENDPOINT", "http://localhost:8000"),
		AccessKeyID:     GetEnv("AWS_ACCESS_KEY_ID", "local"),
		SecretAccessKey: GetEnv("AWS_SECRET_ACCESS_KEY", "local"),
	}
}

// NewHTTPServerConfig creates an HTTPServerConfig with common defaults
func NewHTTPServerConfig(defaultAddr, defaultPort string) HTTPServerConfig {
	return HTTPServerConfig{
		Addr:         GetEnv("HTTP_ADDR", defaultAddr),
		Port:         GetEnv("HTTP_PORT", defaultPort),
		ReadTimeout:  GetDurationEnv("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: GetDurationEnv("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:  GetDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
	}
}

// NewWebSocketConfig creates a WebSocketConfig with common defaults
func NewWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		MaxConnections: GetIntEnv("WS_MAX_CONNECTIONS", 1000),
		ReadTimeout:    GetIntEnv("WS_READ_TIMEOUT", 60),
		WriteTimeout:   GetIntEnv("WS_WRITE_TIMEOUT", 10),
	}
}

// NewAnalyzerConfig creates an AnalyzerConfig with common defaults
func NewAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MaxWorkers:   GetIntEnv("ANALYZER_MAX_WORKERS", DefaultMaxWorkers),
		FetchTimeout: GetDurationEnv("ANALYZER_FETCH_TIMEOUT", DefaultFetchTimeout),
		ProbeTimeout: GetDurationEnv("ANALYZER_PROBE_TIMEOUT", DefaultProbeTimeout),
		UserAgent:    GetEnv("ANALYZER_USER_AGENT", DefaultUserAgent),
		MaxBodyBytes: GetInt64Env("ANALYZER_MAX_BODY_BYTES", DefaultMaxBodyBytes),
		SharedFetch:  GetBoolEnv("ANALYZER_SHARED_FETCH", false),
	}
}

// NewOutputConfig creates an OutputConfig with common defaults
func NewOutputConfig() OutputConfig {
	return OutputConfig{
		Dir:        GetEnv("OUTPUT_DIR", "."),
		XLSX:       GetBoolEnv("OUTPUT_XLSX", false),
		LogFileDir: GetEnv("LOG_FILE_DIR", "."),
	}
}
