package config

import (
	"fmt"
	"time"
)

func oneOf(value string, options ...string) bool {
	for _, opt := range options {
		if value == opt {
			return true
		}
	}
	return false
}

// Validate checks a loaded configuration for invalid values.
func Validate(cfg *Config) error {
	if !oneOf(cfg.Log.Level, "debug", "info", "warn", "error") {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error (got %q)", cfg.Log.Level)
	}
	if !oneOf(cfg.Log.Format, "auto", "text", "json") {
		return fmt.Errorf("log.format must be one of: auto, text, json (got %q)", cfg.Log.Format)
	}

	timeout, err := time.ParseDuration(cfg.Engine.TaskTimeout)
	if err != nil {
		return fmt.Errorf("engine.task_timeout: invalid duration %q", cfg.Engine.TaskTimeout)
	}
	if timeout <= 0 {
		return fmt.Errorf("engine.task_timeout must be positive")
	}
	if cfg.Engine.MaxIterations < 1 {
		return fmt.Errorf("engine.max_iterations must be >= 1")
	}
	if cfg.Engine.Concurrency < 1 {
		return fmt.Errorf("engine.concurrency must be >= 1")
	}

	if cfg.Guard.MaxTotalCalls < 1 {
		return fmt.Errorf("guard.max_total_calls must be >= 1")
	}
	if cfg.Guard.MaxIdenticalCalls < 1 {
		return fmt.Errorf("guard.max_identical_calls must be >= 1")
	}
	if cfg.Guard.RepeatWindow < 1 {
		return fmt.Errorf("guard.repeat_window must be >= 1")
	}

	if cfg.Planner.Enabled && cfg.Planner.APIKey == "" {
		return fmt.Errorf("planner.api_key is required when planner.enabled is true")
	}
	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		return fmt.Errorf("journal.path is required when journal.enabled is true")
	}
	return nil
}
