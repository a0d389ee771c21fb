package plan

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

// Ingest validates raw records and builds a task graph. Validation is
// all-or-nothing: any rejection returns before a graph exists, so a bad plan
// never leaves partial state behind.
//
// Rejection codes: DUPLICATE_ID, MISSING_REQUIRED_FIELD, DESCRIPTION_TOO_LONG,
// UNKNOWN_DEPENDENCY, CYCLE_DETECTED.
func Ingest(records []Record) (*core.TaskGraph, error) {
	if len(records) == 0 {
		return nil, core.ErrValidation(core.CodeNoTaskList, "plan contains no tasks")
	}

	ids := make(map[string]bool, len(records))
	for i, rec := range records {
		if err := checkRequired(i, rec); err != nil {
			return nil, err
		}
		if ids[rec.ID] {
			return nil, core.ErrValidation(core.CodeDuplicateID,
				fmt.Sprintf("duplicate task id %q", rec.ID)).
				WithDetail("task_id", rec.ID)
		}
		ids[rec.ID] = true
	}

	for _, rec := range records {
		for _, dep := range rec.Dependencies {
			if !ids[dep] {
				return nil, core.ErrValidation(core.CodeUnknownDependency,
					fmt.Sprintf("task %q depends on unknown task %q", rec.ID, dep)).
					WithDetail("task_id", rec.ID).
					WithDetail("dependency", dep)
			}
		}
	}

	if cycle := findCycle(records); cycle != nil {
		return nil, core.ErrValidation(core.CodeCycleDetected,
			fmt.Sprintf("dependency cycle: %v", cycle)).
			WithDetail("cycle", cycle)
	}

	graph := core.NewTaskGraph()
	for _, rec := range records {
		task := core.NewTask(core.TaskID(rec.ID), core.NormalizeCapability(rec.Capability), rec.Description).
			WithPhase(core.Phase(rec.Phase)).
			WithRequirements(rec.Requirements).
			WithResources(rec.Resources...)
		deps := make([]core.TaskID, 0, len(rec.Dependencies))
		for _, dep := range rec.Dependencies {
			deps = append(deps, core.TaskID(dep))
		}
		task.Dependencies = deps
		if err := graph.AddTask(task); err != nil {
			return nil, err
		}
	}
	return graph, nil
}

func checkRequired(index int, rec Record) error {
	missing := ""
	switch {
	case rec.ID == "":
		missing = "id"
	case rec.Capability == "":
		missing = "capability"
	case rec.Description == "":
		missing = "description"
	}
	if missing != "" {
		return core.ErrValidation(core.CodeMissingRequiredField,
			fmt.Sprintf("record %d is missing required field %q", index, missing)).
			WithDetail("index", index).
			WithDetail("field", missing)
	}
	if len(rec.Description) > core.MaxDescriptionLength {
		return core.ErrValidation(core.CodeDescriptionTooLong,
			fmt.Sprintf("task %q description exceeds %d characters", rec.ID, core.MaxDescriptionLength)).
			WithDetail("task_id", rec.ID)
	}
	return nil
}

// findCycle runs a depth-first traversal over the dependency relation; any
// back-edge to a node still on the traversal stack is a cycle. Returns the
// ids on the offending path, or nil.
func findCycle(records []Record) []string {
	deps := make(map[string][]string, len(records))
	order := make([]string, 0, len(records))
	for _, rec := range records {
		deps[rec.ID] = rec.Dependencies
		order = append(order, rec.ID)
	}

	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(records))
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = onStack
		stack = append(stack, id)
		for _, dep := range deps[id] {
			switch state[dep] {
			case onStack:
				// Trim the stack down to where the cycle starts.
				for i, sid := range stack {
					if sid == dep {
						cycle = append(append([]string{}, stack[i:]...), dep)
						return true
					}
				}
			case unvisited:
				if dfs(dep) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return false
	}

	for _, id := range order {
		if state[id] == unvisited && dfs(id) {
			return cycle
		}
	}
	return nil
}

// UnknownPhases returns the distinct unrecognized phase tags in a record set,
// so callers can warn plan authors before execution.
func UnknownPhases(records []Record) []string {
	seen := make(map[string]bool)
	var unknown []string
	for _, rec := range records {
		if rec.Phase == "" || core.KnownPhase(core.Phase(rec.Phase)) {
			continue
		}
		if !seen[rec.Phase] {
			seen[rec.Phase] = true
			unknown = append(unknown, rec.Phase)
		}
	}
	return unknown
}
