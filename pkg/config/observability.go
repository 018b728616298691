package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/goran-ethernal/DealIndexor/internal/common"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
)

// LoggingConfig sets a default level and optional per-component overrides. Component
// names are coordinator, subscription, handlers, store, reconciler, maintenance, api and rpc.
type LoggingConfig struct {
	DefaultLevel    string            `yaml:"default_level" json:"default_level" toml:"default_level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info"` //nolint:lll
	Development     bool              `yaml:"development" json:"development" toml:"development"`
	ComponentLevels map[string]string `yaml:"component_levels,omitempty" json:"component_levels,omitempty" toml:"component_levels,omitempty"` //nolint:lll
}

func (l *LoggingConfig) ApplyDefaults() {
	if l.DefaultLevel == "" {
		l.DefaultLevel = "info"
	}
	if l.ComponentLevels == nil {
		l.ComponentLevels = make(map[string]string)
	}
}

func (l *LoggingConfig) Validate() error {
	var errs []error

	if _, ok := logger.ValidLogLevels[l.GetDefaultLevel()]; l.DefaultLevel != "" && !ok {
		errs = append(errs, fmt.Errorf("logging.default_level %q: must be one of debug, info, warn, error", l.DefaultLevel))
	}

	for _, component := range slices.Sorted(maps.Keys(l.ComponentLevels)) {
		if _, ok := common.AllComponents[common.ToLowerWithTrim(component)]; !ok {
			errs = append(errs, fmt.Errorf("logging.component_levels: unknown component %q", component))
			continue
		}
		if _, ok := logger.ValidLogLevels[l.GetComponentLevel(component)]; !ok {
			errs = append(errs, fmt.Errorf("logging.component_levels[%s]: must be one of debug, info, warn, error", component))
		}
	}

	return errors.Join(errs...)
}

// GetComponentLevel returns the override for component, or the default level.
func (l *LoggingConfig) GetComponentLevel(component string) string {
	if level, ok := l.ComponentLevels[component]; ok {
		return common.ToLowerWithTrim(level)
	}
	return l.GetDefaultLevel()
}

func (l *LoggingConfig) GetDefaultLevel() string {
	return common.ToLowerWithTrim(l.DefaultLevel)
}

func (l *LoggingConfig) IsDevelopment() bool {
	return l.Development
}

// MetricsConfig exposes Prometheus metrics and the /health check on a separate listener.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled" toml:"enabled"`
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address" jsonschema:"default=:9090"`
	Path          string `yaml:"path" json:"path" toml:"path" jsonschema:"default=/metrics"`
}

func (m *MetricsConfig) ApplyDefaults() {
	if m.ListenAddress == "" {
		m.ListenAddress = ":9090"
	}
	if m.Path == "" {
		m.Path = "/metrics"
	}
}

func (m *MetricsConfig) Validate() error {
	if !m.Enabled {
		return nil
	}

	switch {
	case m.ListenAddress == "":
		return errors.New("listen_address is required when metrics are enabled")
	case !strings.HasPrefix(m.Path, "/"):
		return fmt.Errorf("path must start with '/', got %q", m.Path)
	case m.Path == "/health":
		return errors.New("path /health is reserved for the health check")
	}
	return nil
}

// APIConfig configures the read-only HTTP API over the projection.
type APIConfig struct {
	Enabled       bool            `yaml:"enabled" json:"enabled" toml:"enabled"`
	ListenAddress string          `yaml:"listen_address" json:"listen_address" toml:"listen_address" jsonschema:"default=:8080"`
	ReadTimeout   common.Duration `yaml:"read_timeout" json:"read_timeout" toml:"read_timeout"`
	WriteTimeout  common.Duration `yaml:"write_timeout" json:"write_timeout" toml:"write_timeout"`
	IdleTimeout   common.Duration `yaml:"idle_timeout" json:"idle_timeout" toml:"idle_timeout"`
	CORS          CORSConfig      `yaml:"cors" json:"cors" toml:"cors"`
}

// CORSConfig lists the origins allowed to call the API from a browser. "*" allows any.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" json:"enabled" toml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" toml:"allowed_origins"`
}

func (a *APIConfig) ApplyDefaults() {
	if a.ListenAddress == "" {
		a.ListenAddress = ":8080"
	}

	for _, d := range []struct {
		field *common.Duration
		value time.Duration
	}{
		{&a.ReadTimeout, 15 * time.Second},  //nolint:mnd
		{&a.WriteTimeout, 15 * time.Second}, //nolint:mnd
		{&a.IdleTimeout, time.Minute},
	} {
		if d.field.Duration == 0 {
			*d.field = common.NewDuration(d.value)
		}
	}

	if a.CORS.Enabled && len(a.CORS.AllowedOrigins) == 0 {
		a.CORS.AllowedOrigins = []string{"*"}
	}
}

func (a *APIConfig) Validate() error {
	if a.Enabled && a.ListenAddress == "" {
		return errors.New("api.listen_address is required when the API is enabled")
	}
	return nil
}
