package plan

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Extract pulls a task record list out of an untrusted payload, typically
// the raw text an LLM planner produced. It accepts a bare JSON array, an
// object with a "tasks" array, the same inside a ``` fence, or the first
// balanced JSON value embedded in surrounding prose.
//
// The only failure modes are validation errors (PARSE_FAILED, NO_TASK_LIST);
// malformed payloads never escape as raw decode errors or panics.
func Extract(payload string) ([]Record, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil, core.ErrValidation(core.CodeNoTaskList, "planner output is empty")
	}

	candidates := []string{trimmed}
	for _, match := range fencedBlockRe.FindAllStringSubmatch(trimmed, -1) {
		candidates = append(candidates, strings.TrimSpace(match[1]))
	}
	if embedded, ok := firstJSONValue(trimmed); ok {
		candidates = append(candidates, embedded)
	}

	sawJSON := false
	for _, candidate := range candidates {
		records, ok, isJSON := decodeRecords(candidate)
		sawJSON = sawJSON || isJSON
		if ok {
			return records, nil
		}
	}

	if sawJSON {
		return nil, core.ErrValidation(core.CodeNoTaskList,
			"planner output contains JSON but no usable task list")
	}
	return nil, core.ErrValidation(core.CodeParseFailed,
		"planner output contains no parseable JSON plan")
}

// decodeRecords tries to read a candidate string as a task list. The second
// return reports success; the third reports whether the candidate was valid
// JSON at all (used to pick the right rejection code).
func decodeRecords(candidate string) ([]Record, bool, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil, false, false
	}

	var wrapper struct {
		Tasks []Record `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(candidate), &wrapper); err == nil {
		if len(wrapper.Tasks) > 0 {
			return wrapper.Tasks, true, true
		}
		var list []Record
		if err := json.Unmarshal([]byte(candidate), &list); err == nil && len(list) > 0 {
			return list, true, true
		}
		return nil, false, true
	}

	var list []Record
	if err := json.Unmarshal([]byte(candidate), &list); err == nil {
		return list, len(list) > 0, true
	}
	return nil, false, false
}

// firstJSONValue scans for the first balanced JSON object or array in s,
// skipping over string literals and escapes.
func firstJSONValue(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
