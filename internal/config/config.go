// Package config loads foreman configuration from flags, environment, and
// config files.
package config

// Config is the root configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Guard   GuardConfig   `mapstructure:"guard"`
	Planner PlannerConfig `mapstructure:"planner"`
	Journal JournalConfig `mapstructure:"journal"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig configures run loop behavior.
type EngineConfig struct {
	TaskTimeout   string `mapstructure:"task_timeout"`
	MaxIterations int    `mapstructure:"max_iterations"`
	Concurrency   int    `mapstructure:"concurrency"`
	FailFast      bool   `mapstructure:"fail_fast"`
}

// GuardConfig configures the runaway guard.
type GuardConfig struct {
	MaxTotalCalls     int `mapstructure:"max_total_calls"`
	MaxIdenticalCalls int `mapstructure:"max_identical_calls"`
	RepeatWindow      int `mapstructure:"repeat_window"`
}

// PlannerConfig configures the dynamic plan source.
type PlannerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// JournalConfig configures the SQLite event journal.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
