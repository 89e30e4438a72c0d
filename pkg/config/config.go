// Package config loads and validates the bot configuration.
// The Config value is constructed once at process start and passed down to
// every component that needs it; there is no global lookup.
package config

import (
	"fmt"
	"time"
)

// Config is the complete bot configuration.
type Config struct {
	// BotName is used in greeting/help responses.
	BotName string `yaml:"bot_name"`

	// Enabled gates the chat endpoint. A disabled bot still serves status.
	Enabled bool `yaml:"enabled"`

	LLM     LLMConfig     `yaml:"llm"`
	Cache   CacheConfig   `yaml:"cache"`
	History HistoryConfig `yaml:"history"`
}

// LLMConfig configures the generate endpoint and its timeouts.
type LLMConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`

	// GenerateTimeout bounds a generation call; on expiry the pipeline
	// falls back to rule-based templates.
	GenerateTimeout time.Duration `yaml:"generate_timeout"`

	// ProbeTimeout bounds the liveness probe used to skip a known-down LLM.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

// CacheConfig holds per-query-type data cache TTLs.
type CacheConfig struct {
	ProfileTTL    time.Duration `yaml:"profile_ttl"`
	AttendanceTTL time.Duration `yaml:"attendance_ttl"`
	LeaveTTL      time.Duration `yaml:"leave_ttl"`
	PayrollTTL    time.Duration `yaml:"payroll_ttl"`
	TeamTTL       time.Duration `yaml:"team_ttl"`
	CompanyTTL    time.Duration `yaml:"company_ttl"`
	DefaultTTL    time.Duration `yaml:"default_ttl"`
}

// HistoryConfig bounds the rolling conversation history.
type HistoryConfig struct {
	MaxTurns int `yaml:"max_turns"`
}

// MaxHistoryTurns is the hard upper bound for conversation history length.
const MaxHistoryTurns = 20

func defaults() Config {
	return Config{
		BotName: "Chart Bot",
		Enabled: true,
		LLM: LLMConfig{
			Endpoint:        "http://localhost:11434/api/generate",
			Model:           "mistral",
			GenerateTimeout: 30 * time.Second,
			ProbeTimeout:    5 * time.Second,
		},
		Cache: CacheConfig{
			ProfileTTL:    time.Hour,
			AttendanceTTL: 5 * time.Minute,
			LeaveTTL:      10 * time.Minute,
			PayrollTTL:    30 * time.Minute,
			TeamTTL:       10 * time.Minute,
			CompanyTTL:    5 * time.Minute,
			DefaultTTL:    5 * time.Minute,
		},
		History: HistoryConfig{MaxTurns: 10},
	}
}

// validate normalizes and checks the configuration.
func (c *Config) validate() error {
	if c.BotName == "" {
		return fmt.Errorf("bot_name must not be empty")
	}
	if c.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint must not be empty")
	}
	if c.LLM.GenerateTimeout <= 0 {
		return fmt.Errorf("llm.generate_timeout must be positive")
	}
	if c.LLM.ProbeTimeout <= 0 {
		return fmt.Errorf("llm.probe_timeout must be positive")
	}
	if c.History.MaxTurns < 1 {
		return fmt.Errorf("history.max_turns must be at least 1")
	}
	if c.History.MaxTurns > MaxHistoryTurns {
		c.History.MaxTurns = MaxHistoryTurns
	}
	for name, ttl := range map[string]time.Duration{
		"profile_ttl":    c.Cache.ProfileTTL,
		"attendance_ttl": c.Cache.AttendanceTTL,
		"leave_ttl":      c.Cache.LeaveTTL,
		"payroll_ttl":    c.Cache.PayrollTTL,
		"team_ttl":       c.Cache.TeamTTL,
		"company_ttl":    c.Cache.CompanyTTL,
		"default_ttl":    c.Cache.DefaultTTL,
	} {
		if ttl <= 0 {
			return fmt.Errorf("cache.%s must be positive", name)
		}
	}
	return nil
}
