package core

import "testing"

func buildChainGraph(t *testing.T) *TaskGraph {
	t.Helper()
	g := NewTaskGraph()
	tasks := []*Task{
		NewTask("t1", CapabilityArchitect, "design").WithPhase(PhasePlanning),
		NewTask("t2", CapabilityMason, "foundation").WithPhase(PhaseFoundation).WithDependencies("t1"),
		NewTask("t3", CapabilityCarpenter, "frame").WithPhase(PhaseFraming).WithDependencies("t2"),
	}
	for _, task := range tasks {
		if err := g.AddTask(task); err != nil {
			t.Fatalf("unexpected error adding task: %v", err)
		}
	}
	return g
}

func TestTaskGraph_DuplicateID(t *testing.T) {
	g := NewTaskGraph()
	if err := g.AddTask(NewTask("t1", CapabilityMason, "pour slab")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := g.AddTask(NewTask("t1", CapabilityMason, "pour slab again"))
	if err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if !IsCategory(err, ErrCatValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTaskGraph_SetsTrackStatus(t *testing.T) {
	g := buildChainGraph(t)

	if err := g.Ready("t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Begin("t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Complete("t1", &TaskResult{Summary: "blueprints"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completed := g.CompletedSet()
	if !completed["t1"] || len(completed) != 1 {
		t.Fatalf("expected completed set {t1}, got %v", completed)
	}

	if err := g.Ready("t2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Begin("t2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Fail("t2", &TaskFailure{Reason: FailureWorkerError, Message: "boom"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := g.Counts()
	if counts.Completed != 1 || counts.Failed != 1 || counts.Pending != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestTaskGraph_RetryMembership(t *testing.T) {
	g := buildChainGraph(t)
	if err := g.Ready("t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Begin("t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Fail("t1", &TaskFailure{Reason: FailureTimeout, Message: "deadline"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := g.Retry("t1"); err != nil {
		t.Fatalf("unexpected error retrying: %v", err)
	}
	if g.Counts().Failed != 0 {
		t.Fatalf("expected failed set empty after retry")
	}

	// Completing the retried task must record it exactly once.
	if err := g.Begin("t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Complete("t1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	completed := g.CompletedSet()
	if !completed["t1"] || len(completed) != 1 {
		t.Fatalf("expected completed set {t1}, got %v", completed)
	}

	if err := g.Retry("t1"); err == nil {
		t.Fatalf("expected error retrying a completed task")
	}
	if err := g.Retry("missing"); !IsCategory(err, ErrCatNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestTaskGraph_SkipSatisfiesDependents(t *testing.T) {
	g := buildChainGraph(t)
	if err := g.Skip("t1"); err != nil {
		t.Fatalf("unexpected error skipping: %v", err)
	}

	satisfied := g.SatisfiedSet()
	if !satisfied["t1"] {
		t.Fatalf("expected skipped task to satisfy dependents")
	}
	if g.CompletedSet()["t1"] {
		t.Fatalf("skipped task must not appear in completed set")
	}
}

func TestTaskGraph_Blocked(t *testing.T) {
	g := NewTaskGraph()
	if err := g.AddTask(NewTask("t2", CapabilityPainter, "paint").WithDependencies("t1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blocked := g.Blocked()
	if len(blocked) != 1 || blocked[0].ID != "t2" {
		t.Fatalf("expected t2 blocked, got %v", blocked)
	}
	if len(blocked[0].MissingDeps) != 1 || blocked[0].MissingDeps[0] != "t1" {
		t.Fatalf("expected missing dep t1, got %v", blocked[0].MissingDeps)
	}
}
