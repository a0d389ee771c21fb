package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

// File is the on-disk plan document. Both the wrapped form ({"tasks": [...]})
// and a bare task list are accepted.
type File struct {
	Name  string   `json:"name,omitempty" yaml:"name,omitempty"`
	Tasks []Record `json:"tasks" yaml:"tasks"`
}

// Load reads a plan file, dispatching on extension: .json via encoding/json,
// .yaml/.yml via yaml.v3. Decode failures come back as PARSE_FAILED.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.ErrValidation(core.CodeParseFailed,
			fmt.Sprintf("reading plan file: %v", err)).WithCause(err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return decodeJSONPlan(data)
	case ".yaml", ".yml":
		return decodeYAMLPlan(data)
	default:
		return nil, core.ErrValidation(core.CodeParseFailed,
			fmt.Sprintf("unsupported plan file extension %q", ext))
	}
}

func decodeJSONPlan(data []byte) ([]Record, error) {
	var file File
	if err := json.Unmarshal(data, &file); err == nil && len(file.Tasks) > 0 {
		return file.Tasks, nil
	}
	var list []Record
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, core.ErrValidation(core.CodeParseFailed,
			fmt.Sprintf("decoding JSON plan: %v", err)).WithCause(err)
	}
	return list, nil
}

func decodeYAMLPlan(data []byte) ([]Record, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err == nil && len(file.Tasks) > 0 {
		return file.Tasks, nil
	}
	var list []Record
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, core.ErrValidation(core.CodeParseFailed,
			fmt.Sprintf("decoding YAML plan: %v", err)).WithCause(err)
	}
	return list, nil
}

// Save encodes records as a wrapped JSON plan document.
func Save(name string, records []Record) ([]byte, error) {
	out, err := json.MarshalIndent(File{Name: name, Tasks: records}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding plan: %w", err)
	}
	return append(out, '\n'), nil
}
