package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	pkgconfig "github.com/goran-ethernal/DealIndexor/pkg/config"
	"gopkg.in/yaml.v3"
)

type unmarshalFunc func(data []byte, v any) error

var formats = map[string]unmarshalFunc{
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".json": json.Unmarshal,
	".toml": toml.Unmarshal,
}

// LoadFromFile reads a YAML, JSON or TOML config file, chosen by extension.
// ${VAR} references are expanded from the environment before parsing, so RPC
// credentials can stay out of the file.
func LoadFromFile(path string) (*pkgconfig.Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := formats[ext]; !ok {
		return nil, fmt.Errorf("unsupported config file format: %q (supported: %s)", ext, supportedFormats())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Load(data, ext)
}

// Load parses data in the format named by ext (".yaml", ".json", ...), applies
// defaults and validates the result.
func Load(data []byte, ext string) (*pkgconfig.Config, error) {
	unmarshal, ok := formats[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported config file format: %q (supported: %s)", ext, supportedFormats())
	}

	var cfg pkgconfig.Config
	if err := unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s config: %w", strings.TrimPrefix(ext, "."), err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func supportedFormats() string {
	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return strings.Join(exts, ", ")
}
