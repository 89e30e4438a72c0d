package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration in three layers: built-in defaults, an optional
// YAML file, then environment overrides. The result is validated before use.
//
// A missing file is not an error: deployments that configure everything
// through the environment simply omit it.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Info("No config file, using defaults and environment", "path", path)
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
			slog.Info("Loaded config file", "path", path)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CHARTBOT_NAME"); v != "" {
		cfg.BotName = v
	}
	if v := os.Getenv("CHARTBOT_ENABLED"); v != "" {
		cfg.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("LLM_ENDPOINT"); v != "" {
		cfg.LLM.Endpoint = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if d, ok := envDuration("LLM_GENERATE_TIMEOUT"); ok {
		cfg.LLM.GenerateTimeout = d
	}
	if d, ok := envDuration("LLM_PROBE_TIMEOUT"); ok {
		cfg.LLM.ProbeTimeout = d
	}
	if v := os.Getenv("CHARTBOT_MAX_HISTORY"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			cfg.History.MaxTurns = n
		} else {
			slog.Warn("Ignoring invalid CHARTBOT_MAX_HISTORY", "value", v)
		}
	}
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("Ignoring invalid duration", "key", key, "value", v, "error", err)
		return 0, false
	}
	return d, true
}
