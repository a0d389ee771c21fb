// Package plan turns raw task records into a validated task graph.
//
// Records arrive from three places: built-in project templates, plan files
// authored by hand, and dynamically generated plans scraped from LLM output.
// All three converge on Ingest, which either produces a complete graph or
// rejects the plan atomically.
package plan

import (
	"encoding/json"
	"fmt"
)

// Record is one raw task entry in a plan, prior to validation.
type Record struct {
	ID           string         `yaml:"id"`
	Capability   string         `yaml:"capability"`
	Description  string         `yaml:"description"`
	Dependencies []string       `yaml:"dependencies"`
	Phase        string         `yaml:"phase"`
	Requirements map[string]any `yaml:"requirements"`
	Resources    []string       `yaml:"resources"`
}

// MarshalJSON emits the canonical field names.
func (r Record) MarshalJSON() ([]byte, error) {
	type canonical struct {
		ID           string         `json:"id"`
		Capability   string         `json:"capability"`
		Description  string         `json:"description"`
		Dependencies []string       `json:"dependencies"`
		Phase        string         `json:"phase"`
		Requirements map[string]any `json:"requirements,omitempty"`
		Resources    []string       `json:"resources,omitempty"`
	}
	return json.Marshal(canonical(r))
}

// UnmarshalJSON accepts both the canonical field names and the aliases seen
// in generated plans (task_id, agent, materials), and tolerates requirements
// given as a plain string instead of a map.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if err := pickString(raw, &r.ID, "id", "task_id"); err != nil {
		return err
	}
	if err := pickString(raw, &r.Capability, "capability", "agent"); err != nil {
		return err
	}
	if err := pickString(raw, &r.Description, "description"); err != nil {
		return err
	}
	if err := pickString(raw, &r.Phase, "phase"); err != nil {
		return err
	}
	if err := pickStrings(raw, &r.Dependencies, "dependencies"); err != nil {
		return err
	}
	if err := pickStrings(raw, &r.Resources, "resources", "materials"); err != nil {
		return err
	}

	if msg, ok := firstPresent(raw, "requirements"); ok {
		var m map[string]any
		if err := json.Unmarshal(msg, &m); err == nil {
			r.Requirements = m
		} else {
			var s string
			if err := json.Unmarshal(msg, &s); err != nil {
				return fmt.Errorf("requirements must be an object or string")
			}
			if s != "" {
				r.Requirements = map[string]any{"notes": s}
			}
		}
	}
	return nil
}

func firstPresent(raw map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		if msg, ok := raw[key]; ok && string(msg) != "null" {
			return msg, true
		}
	}
	return nil, false
}

func pickString(raw map[string]json.RawMessage, dst *string, keys ...string) error {
	msg, ok := firstPresent(raw, keys...)
	if !ok {
		return nil
	}
	if err := json.Unmarshal(msg, dst); err != nil {
		return fmt.Errorf("field %s must be a string", keys[0])
	}
	return nil
}

func pickStrings(raw map[string]json.RawMessage, dst *[]string, keys ...string) error {
	msg, ok := firstPresent(raw, keys...)
	if !ok {
		return nil
	}
	if err := json.Unmarshal(msg, dst); err != nil {
		return fmt.Errorf("field %s must be a string list", keys[0])
	}
	return nil
}
