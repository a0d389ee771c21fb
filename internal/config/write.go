package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

const defaultConfigYAML = `# foreman configuration
log:
  level: info
  format: auto

engine:
  task_timeout: 2m
  max_iterations: 50
  concurrency: 1
  fail_fast: false

guard:
  max_total_calls: 20
  max_identical_calls: 2
  repeat_window: 3

planner:
  enabled: false
  model: gpt-4o
  # api_key: set via FOREMAN_PLANNER_API_KEY instead of committing it here

journal:
  enabled: false
  path: .foreman/journal.db
`

// WriteDefault writes the commented default configuration to path atomically.
// It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := renameio.WriteFile(path, []byte(defaultConfigYAML), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
