// Package config provides configuration loading for the string analyzer
// server.
//
// Values are resolved in three layers, later layers winning: DefaultConfig,
// an optional YAML file, then environment variables. Command-line flags are
// applied on top by the caller. Load validates the result.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvListen        = "STRANALYZER_LISTEN"
	EnvLogLevel      = "STRANALYZER_LOG_LEVEL"
	EnvLogFormat     = "STRANALYZER_LOG_FORMAT"
	EnvMetrics       = "STRANALYZER_METRICS"
	EnvTraceExporter = "OTEL_TRACES_EXPORTER"
	EnvOTLPEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

var validate = validator.New()

// Config is the complete server configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	// Listen is the host:port the server binds to
	Listen string `yaml:"listen" validate:"required,hostname_port"`
	// ReadHeaderTimeout bounds how long a client may take to send headers
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" validate:"gt=0"`
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// TelemetryConfig configures tracing and metrics
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" validate:"required"`
	// TraceExporter selects where spans go: none, stdout or otlp
	TraceExporter string `yaml:"trace_exporter" validate:"oneof=none stdout otlp"`
	// OTLPEndpoint is the collector's gRPC host:port, required for otlp
	OTLPEndpoint   string `yaml:"otlp_endpoint" validate:"required_if=TraceExporter otlp"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:            "0.0.0.0:8000",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "stranalyzer",
			TraceExporter:  "none",
			OTLPEndpoint:   "localhost:4317",
			OTLPInsecure:   true,
			MetricsEnabled: true,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables that are set and
// non-empty. An unparseable STRANALYZER_METRICS is ignored.
func (c *Config) ApplyEnv() {
	c.Server.Listen = getenv(EnvListen, c.Server.Listen)
	c.Log.Level = getenv(EnvLogLevel, c.Log.Level)
	c.Log.Format = getenv(EnvLogFormat, c.Log.Format)
	c.Telemetry.TraceExporter = getenv(EnvTraceExporter, c.Telemetry.TraceExporter)
	c.Telemetry.OTLPEndpoint = getenv(EnvOTLPEndpoint, c.Telemetry.OTLPEndpoint)
	if v := os.Getenv(EnvMetrics); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Telemetry.MetricsEnabled = b
		}
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped when path is empty), then the environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
