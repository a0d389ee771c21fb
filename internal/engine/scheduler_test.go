package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

func TestPromoteReady_OnlySatisfiedTasks(t *testing.T) {
	graph := core.NewTaskGraph()
	require.NoError(t, graph.AddTask(core.NewTask("t1", core.CapabilityArchitect, "design")))
	require.NoError(t, graph.AddTask(core.NewTask("t2", core.CapabilityMason, "pour").
		WithDependencies("t1")))

	promoted := PromoteReady(graph)
	require.Len(t, promoted, 1)
	assert.Equal(t, core.TaskID("t1"), promoted[0].ID)

	// Nothing new without intervening completions.
	assert.Empty(t, PromoteReady(graph))

	require.NoError(t, graph.Begin("t1"))
	require.NoError(t, graph.Complete("t1", nil))

	promoted = PromoteReady(graph)
	require.Len(t, promoted, 1)
	assert.Equal(t, core.TaskID("t2"), promoted[0].ID)
}

func TestPromoteReady_SkippedDependencySatisfies(t *testing.T) {
	graph := core.NewTaskGraph()
	require.NoError(t, graph.AddTask(core.NewTask("t1", core.CapabilityMason, "pour")))
	require.NoError(t, graph.AddTask(core.NewTask("t2", core.CapabilityCarpenter, "frame").
		WithDependencies("t1")))

	require.NoError(t, graph.Skip("t1"))

	promoted := PromoteReady(graph)
	require.Len(t, promoted, 1)
	assert.Equal(t, core.TaskID("t2"), promoted[0].ID)
}

// Readiness must match a naive full rescan on arbitrary dependency graphs.
func TestPromoteReady_MatchesNaiveReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		n := 5 + rng.Intn(15)
		graph := core.NewTaskGraph()
		deps := make(map[core.TaskID][]core.TaskID)

		for i := 0; i < n; i++ {
			id := core.TaskID(fmt.Sprintf("t%d", i))
			task := core.NewTask(id, core.CapabilityCarpenter, "work")
			// Edges only point backwards, so the graph stays acyclic.
			var taskDeps []core.TaskID
			for j := 0; j < i; j++ {
				if rng.Intn(4) == 0 {
					taskDeps = append(taskDeps, core.TaskID(fmt.Sprintf("t%d", j)))
				}
			}
			task.Dependencies = taskDeps
			deps[id] = taskDeps
			require.NoError(t, graph.AddTask(task))
		}

		// Complete a random subset through the normal transitions.
		done := make(map[core.TaskID]bool)
		for i := 0; i < n; i++ {
			if rng.Intn(2) == 0 {
				id := core.TaskID(fmt.Sprintf("t%d", i))
				require.NoError(t, graph.Ready(id))
				require.NoError(t, graph.Begin(id))
				require.NoError(t, graph.Complete(id, nil))
				done[id] = true
			}
		}

		promoted := PromoteReady(graph)

		// Naive reference: every non-done task whose deps are all done.
		want := make(map[core.TaskID]bool)
		for id, taskDeps := range deps {
			if done[id] {
				continue
			}
			ready := true
			for _, dep := range taskDeps {
				if !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				want[id] = true
			}
		}

		got := make(map[core.TaskID]bool)
		for _, task := range promoted {
			got[task.ID] = true
		}
		assert.Equal(t, want, got, "trial %d", trial)
	}
}

func TestNextPhaseGroup_EarliestPhaseFirst(t *testing.T) {
	graph := core.NewTaskGraph()
	require.NoError(t, graph.AddTask(core.NewTask("t1", core.CapabilityPainter, "paint").
		WithPhase(core.PhaseFinishing)))
	require.NoError(t, graph.AddTask(core.NewTask("t2", core.CapabilityMason, "pour").
		WithPhase(core.PhaseFoundation)))
	require.NoError(t, graph.AddTask(core.NewTask("t3", core.CapabilityMason, "footings").
		WithPhase(core.PhaseFoundation)))

	PromoteReady(graph)
	group := NextPhaseGroup(graph)
	require.NotNil(t, group)
	assert.Equal(t, core.PhaseFoundation, group.Phase)
	assert.Len(t, group.Tasks, 2)
}

func TestNextPhaseGroup_SinglePhasePerCall(t *testing.T) {
	graph := core.NewTaskGraph()
	require.NoError(t, graph.AddTask(core.NewTask("t1", core.CapabilityMason, "pour").
		WithPhase(core.PhaseFoundation)))
	require.NoError(t, graph.AddTask(core.NewTask("t2", core.CapabilityCarpenter, "frame").
		WithPhase(core.PhaseFraming)))

	PromoteReady(graph)
	group := NextPhaseGroup(graph)
	require.NotNil(t, group)
	assert.Equal(t, core.PhaseFoundation, group.Phase)
	require.Len(t, group.Tasks, 1)
	assert.Equal(t, core.TaskID("t1"), group.Tasks[0].ID)
}

func TestNextPhaseGroup_UnrecognizedPhasesRunLast(t *testing.T) {
	graph := core.NewTaskGraph()
	require.NoError(t, graph.AddTask(core.NewTask("t1", core.CapabilityCarpenter, "demo").
		WithPhase(core.Phase("demolition"))))
	require.NoError(t, graph.AddTask(core.NewTask("t2", core.CapabilityMason, "pour").
		WithPhase(core.PhaseFoundation)))

	PromoteReady(graph)
	group := NextPhaseGroup(graph)
	require.NotNil(t, group)
	assert.Equal(t, core.PhaseFoundation, group.Phase)

	require.NoError(t, graph.Begin("t2"))
	require.NoError(t, graph.Complete("t2", nil))

	group = NextPhaseGroup(graph)
	require.NotNil(t, group)
	assert.Equal(t, PhaseMisc, group.Phase)
	require.Len(t, group.Tasks, 1)
	assert.Equal(t, core.TaskID("t1"), group.Tasks[0].ID)
}

func TestNextPhaseGroup_NoReadyTasks(t *testing.T) {
	graph := core.NewTaskGraph()
	require.NoError(t, graph.AddTask(core.NewTask("t1", core.CapabilityMason, "pour").
		WithDependencies("missing-forever")))

	assert.Nil(t, NextPhaseGroup(graph))
}
