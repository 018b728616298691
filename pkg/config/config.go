package config

import (
	"errors"
	"fmt"
)

// Config is the root of the indexer configuration file. It can be written as YAML,
// JSON or TOML; the `schema` command prints its JSON schema.
type Config struct {
	Chain ChainConfig    `yaml:"chain" json:"chain" toml:"chain" jsonschema:"required"`
	DB    DatabaseConfig `yaml:"db" json:"db" toml:"db" jsonschema:"required"`

	// Maintenance is off unless the section is present
	Maintenance *MaintenanceConfig `yaml:"maintenance,omitempty" json:"maintenance,omitempty" toml:"maintenance,omitempty"`

	// Reconciliation replays events parked because their deal was not indexed yet.
	// It runs with defaults when the section is omitted.
	Reconciliation *ReconciliationConfig `yaml:"reconciliation,omitempty" json:"reconciliation,omitempty" toml:"reconciliation,omitempty"` //nolint:lll

	Logging *LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty" toml:"logging,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty" toml:"metrics,omitempty"`
	API     *APIConfig     `yaml:"api,omitempty" json:"api,omitempty" toml:"api,omitempty"`
}

// ApplyDefaults fills every unset optional field. Logging and reconciliation are
// always materialized because components are built from them unconditionally.
func (c *Config) ApplyDefaults() {
	c.Chain.ApplyDefaults()
	c.DB.ApplyDefaults()

	if c.Reconciliation == nil {
		c.Reconciliation = &ReconciliationConfig{Enabled: true}
	}
	c.Reconciliation.ApplyDefaults()

	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}
	c.Logging.ApplyDefaults()

	if c.Maintenance != nil {
		c.Maintenance.ApplyDefaults()
	}
	if c.Metrics != nil {
		c.Metrics.ApplyDefaults()
	}
	if c.API != nil {
		c.API.ApplyDefaults()
	}
}

// Validate reports every invalid section at once.
func (c *Config) Validate() error {
	errs := []error{
		c.Chain.Validate(),
		c.DB.Validate(),
	}

	if c.Maintenance != nil {
		errs = append(errs, c.Maintenance.Validate())
	}
	if c.Reconciliation != nil {
		errs = append(errs, c.Reconciliation.Validate())
	}
	if c.Logging != nil {
		errs = append(errs, c.Logging.Validate())
	}
	if c.Metrics != nil {
		if err := c.Metrics.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("metrics: %w", err))
		}
	}
	if c.API != nil {
		errs = append(errs, c.API.Validate())
	}

	return errors.Join(errs...)
}
