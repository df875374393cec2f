// Package config provides configuration management for the RuleKeeper
// service.
package config

import (
	"fmt"
)

// Config holds configuration for the rule provider service.
type Config struct {
	RulesFile   string // path to the persisted rule document
	DatabaseURL string // journal database URL; empty disables journaling
	WatchRules  bool   // reload the rules file on external edits
	LogLevel    string
	LogFormat   string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		RulesFile:   "./data/rules.json",
		DatabaseURL: "",
		WatchRules:  true,
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.RulesFile == "" {
		return fmt.Errorf("rules_file must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text; got %q", c.LogFormat)
	}
	return nil
}
