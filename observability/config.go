package observability

import (
	"time"

	"github.com/mechlab/mechkit/errors"
)

// Config configures the OpenTelemetry exporters.
type Config struct {
	// Enabled turns telemetry export on. When false, Init* functions are
	// expected to be skipped and the global no-op providers remain in place.
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// ServiceName is the name of the service.
	ServiceName string `mapstructure:"service_name" json:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `mapstructure:"service_version" json:"service_version"`
	// Environment is the deployment environment (development, staging, production).
	Environment string `mapstructure:"environment" json:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	// Insecure allows insecure connections (for development).
	Insecure bool `mapstructure:"insecure" json:"insecure"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate" json:"sample_rate"`
	// Interval is the metric export interval.
	Interval time.Duration `mapstructure:"interval" json:"interval"`
}

// DefaultConfig returns sensible defaults for development.
func DefaultConfig(serviceName string) Config {
	cfg := Config{ServiceName: serviceName}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceVersion == "" {
		c.ServiceVersion = "1.0.0"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
		c.Insecure = true
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ServiceName == "" {
		return errors.InvalidConfig("service_name is required when telemetry is enabled", nil)
	}
	if c.Endpoint == "" {
		return errors.InvalidConfig("endpoint is required when telemetry is enabled", nil)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return errors.InvalidConfig("sample_rate must be between 0.0 and 1.0", nil)
	}
	if c.Interval < 0 {
		return errors.InvalidConfig("interval must not be negative", nil)
	}
	return nil
}
