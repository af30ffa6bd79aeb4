package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from the usual "30s" / "2m"
// YAML spelling, or from a bare integer of nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := node.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}
	return fmt.Errorf("invalid duration value")
}

// Config holds file-based defaults for CLI commands. Flags always win over
// config values; config values win over built-in defaults.
type Config struct {
	Catalog     string   `yaml:"catalog"`      // node catalog path
	ServerURL   string   `yaml:"server_url"`   // recorded on reports, not dialed
	Timeout     Duration `yaml:"timeout"`      // recorded on reports, not enforced
	IncludeMeta bool     `yaml:"include_meta"` // carry node titles into _meta
	Model       string   `yaml:"model"`        // graph model implementation (indexed|scan)
	DB          string   `yaml:"db"`           // run record database path
}

// DefaultConfigPath is consulted when --config is not given. A missing file
// at this path is not an error.
const DefaultConfigPath = "flowconv.yaml"

// LoadConfig reads a YAML config file. When path is empty the default path
// is tried and absence is tolerated; an explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Model != "" && cfg.Model != "indexed" && cfg.Model != "scan" {
		return nil, fmt.Errorf("config %s: invalid model %q (must be indexed or scan)", path, cfg.Model)
	}
	return cfg, nil
}
