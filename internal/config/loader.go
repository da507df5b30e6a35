package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and will be replaced by defaults in the cmd
// layer.
type Config struct {
	Addr             string   `json:"addr" yaml:"addr" toml:"addr"`
	BackendsFile     string   `json:"backends_file" yaml:"backends_file" toml:"backends_file"`
	MemoryBudgetMB   int      `json:"memory_budget_mb" yaml:"memory_budget_mb" toml:"memory_budget_mb"`
	HighWatermarkPct int      `json:"high_watermark_pct" yaml:"high_watermark_pct" toml:"high_watermark_pct"`
	LowWatermarkPct  int      `json:"low_watermark_pct" yaml:"low_watermark_pct" toml:"low_watermark_pct"`
	DefaultContext   string   `json:"default_context" yaml:"default_context" toml:"default_context"`
	ServeTimeoutMs   int      `json:"serve_timeout_ms" yaml:"serve_timeout_ms" toml:"serve_timeout_ms"`
	ActivityDB       string   `json:"activity_db" yaml:"activity_db" toml:"activity_db"`
	WatchBackends    bool     `json:"watch_backends" yaml:"watch_backends" toml:"watch_backends"`
	CORSEnabled      bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins      []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
