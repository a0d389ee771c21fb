package core

import "testing"

func TestTask_StateTransitions(t *testing.T) {
	task := NewTask("t1", CapabilityCarpenter, "frame walls").WithPhase(PhaseFraming)

	if err := task.MarkCompleted(nil); err == nil {
		t.Fatalf("expected error completing from pending")
	}
	if err := task.MarkInProgress(); err == nil {
		t.Fatalf("expected error starting from pending")
	}

	if err := task.MarkReady(); err != nil {
		t.Fatalf("unexpected error marking ready: %v", err)
	}
	if err := task.MarkReady(); err == nil {
		t.Fatalf("expected error marking ready twice")
	}

	if err := task.MarkInProgress(); err != nil {
		t.Fatalf("unexpected error starting task: %v", err)
	}
	if task.StartedAt == nil {
		t.Fatalf("expected StartedAt to be set")
	}

	if err := task.MarkCompleted(&TaskResult{Summary: "done"}); err != nil {
		t.Fatalf("unexpected error completing task: %v", err)
	}
	if task.Status != TaskStatusCompleted {
		t.Fatalf("expected status completed, got %s", task.Status)
	}
	if task.CompletedAt == nil {
		t.Fatalf("expected CompletedAt to be set")
	}
	if task.Result == nil || task.Result.Summary != "done" {
		t.Fatalf("expected result to be stored")
	}
}

func TestTask_FailFromReady(t *testing.T) {
	// Capability-not-found failures happen before dispatch, from ready.
	task := NewTask("t1", Capability("welder"), "weld")
	if err := task.MarkReady(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	failure := &TaskFailure{Reason: FailureCapabilityNotFound, Message: "no worker"}
	if err := task.MarkFailed(failure); err != nil {
		t.Fatalf("unexpected error failing from ready: %v", err)
	}
	if task.Failure.Reason != FailureCapabilityNotFound {
		t.Fatalf("expected capability_not_found, got %s", task.Failure.Reason)
	}
}

func TestTask_IsReady(t *testing.T) {
	task := NewTask("t1", CapabilityPainter, "paint").
		WithDependencies("t0", "t2")

	satisfied := map[TaskID]bool{"t0": true}
	if task.IsReady(satisfied) {
		t.Fatalf("expected task not ready with missing dependency")
	}

	satisfied["t2"] = true
	if !task.IsReady(satisfied) {
		t.Fatalf("expected task ready when all dependencies satisfied")
	}

	task.Status = TaskStatusReady
	if task.IsReady(satisfied) {
		t.Fatalf("expected task not ready when not pending")
	}
}

func TestTask_ResetForRetry(t *testing.T) {
	task := NewTask("t1", CapabilityRoofer, "shingle roof")
	if err := task.MarkReady(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := task.MarkInProgress(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := task.MarkFailed(&TaskFailure{Reason: FailureTimeout, Message: "deadline"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := task.ResetForRetry(); err != nil {
		t.Fatalf("unexpected error retrying: %v", err)
	}
	if task.Status != TaskStatusReady {
		t.Fatalf("expected ready after retry, got %s", task.Status)
	}
	if task.Retries != 1 {
		t.Fatalf("expected retry counter 1, got %d", task.Retries)
	}
	if task.Failure != nil {
		t.Fatalf("expected failure cleared on retry")
	}

	// Retry is only valid from failed.
	if err := task.ResetForRetry(); err == nil {
		t.Fatalf("expected error retrying a non-failed task")
	}
}

func TestTask_SkipTransitions(t *testing.T) {
	task := NewTask("t1", CapabilityHVAC, "install ducts")
	if err := task.MarkSkipped(); err != nil {
		t.Fatalf("unexpected error skipping pending task: %v", err)
	}

	done := NewTask("t2", CapabilityHVAC, "install ducts")
	done.Status = TaskStatusCompleted
	if err := done.MarkSkipped(); err == nil {
		t.Fatalf("expected error skipping completed task")
	}
}
