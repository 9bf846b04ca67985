package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/mechlab/mechkit/errors"
	"github.com/mechlab/mechkit/logger"
	"github.com/mechlab/mechkit/observability"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// BaseConfig contains essential fields that every application needs.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.InvalidConfig("base configuration", err)
	}
	return nil
}

// Config is the top-level application configuration.
type Config struct {
	Base      BaseConfig           `yaml:"base" mapstructure:"base"`
	Logging   logger.Config        `yaml:"logging" mapstructure:"logging"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills in zero-valued fields across all sections and
// propagates base identity into the telemetry section.
func (c *Config) ApplyDefaults() {
	c.Base.ApplyDefaults()
	c.Logging.ApplyDefaults()
	if c.Base.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Base.Name
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = c.Base.Version
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Base.Environment
	}
	c.Telemetry.ApplyDefaults()
}

// Validate validates all sections.
func (c *Config) Validate() error {
	if err := c.Base.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.InvalidConfig("logging configuration", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return nil
}

// Load loads, defaults, and validates the full application configuration.
func Load(name string, opts ...LoaderOption) (*Config, error) {
	cfg := &Config{Base: BaseConfig{Name: name}}
	if err := LoadConfig(name, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Base.Name == "" {
		cfg.Base.Name = name
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
