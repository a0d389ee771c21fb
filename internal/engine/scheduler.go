// Package engine drives a project run: it promotes tasks as their
// dependencies resolve, dispatches them phase by phase to workers, and
// detects runs that can no longer make progress.
package engine

import (
	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

// PromoteReady promotes every pending task whose dependencies are all
// satisfied. It returns only the newly promoted tasks, so repeated calls
// without intervening completions return nothing.
func PromoteReady(graph *core.TaskGraph) []*core.Task {
	satisfied := graph.SatisfiedSet()

	var promoted []*core.Task
	for _, task := range graph.Tasks() {
		if !task.IsReady(satisfied) {
			continue
		}
		if err := graph.Ready(task.ID); err != nil {
			continue
		}
		promoted = append(promoted, task)
	}
	return promoted
}

// PhaseGroup is the set of ready tasks dispatched together.
type PhaseGroup struct {
	// Phase is the group's phase tag, or "misc" for tasks whose phase is not
	// in the standard order.
	Phase core.Phase
	Tasks []*core.Task
}

// PhaseMisc tags the group of ready tasks with unrecognized phases. They
// dispatch only after every recognized phase has drained.
const PhaseMisc = core.Phase("misc")

// NextPhaseGroup groups ready tasks by phase and returns the earliest
// non-empty group in the standard phase order. Tasks with unrecognized
// phases form a trailing miscellaneous group. Returns nil when no task is
// ready.
func NextPhaseGroup(graph *core.TaskGraph) *PhaseGroup {
	byPhase := make(map[core.Phase][]*core.Task)
	var misc []*core.Task
	for _, task := range graph.Tasks() {
		if task.Status != core.TaskStatusReady {
			continue
		}
		if core.KnownPhase(task.Phase) {
			byPhase[task.Phase] = append(byPhase[task.Phase], task)
		} else {
			misc = append(misc, task)
		}
	}

	for _, phase := range core.AllPhases() {
		if tasks := byPhase[phase]; len(tasks) > 0 {
			return &PhaseGroup{Phase: phase, Tasks: tasks}
		}
	}
	if len(misc) > 0 {
		return &PhaseGroup{Phase: PhaseMisc, Tasks: misc}
	}
	return nil
}
