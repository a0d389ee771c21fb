package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "FOREMAN",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "FOREMAN",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (FOREMAN_*)
// 3. Project config (.foreman.yaml in current directory)
// 4. User config (~/.config/foreman/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".foreman")
		l.v.SetConfigType("yaml")

		// Project config takes precedence over user config.
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "foreman"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")

	l.v.SetDefault("engine.task_timeout", "2m")
	l.v.SetDefault("engine.max_iterations", 50)
	l.v.SetDefault("engine.concurrency", 1)
	l.v.SetDefault("engine.fail_fast", false)

	l.v.SetDefault("guard.max_total_calls", 20)
	l.v.SetDefault("guard.max_identical_calls", 2)
	l.v.SetDefault("guard.repeat_window", 3)

	l.v.SetDefault("planner.enabled", false)
	l.v.SetDefault("planner.model", "gpt-4o")
	l.v.SetDefault("planner.base_url", "")
	l.v.SetDefault("planner.api_key", "")

	l.v.SetDefault("journal.enabled", false)
	l.v.SetDefault("journal.path", ".foreman/journal.db")
}

// ParsedTaskTimeout parses the engine timeout duration.
func (c *EngineConfig) ParsedTaskTimeout() (time.Duration, error) {
	return time.ParseDuration(c.TaskTimeout)
}
