package core

import "testing"

func TestProject_Lifecycle(t *testing.T) {
	p := NewProject("p1", "storage shed")
	if p.Status != ProjectStatusIdle {
		t.Fatalf("expected idle, got %s", p.Status)
	}

	if err := p.BeginRun(NewTaskGraph()); err == nil {
		t.Fatalf("expected error starting run from idle")
	}
	if err := p.BeginPlanning(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.BeginPlanning(); err == nil {
		t.Fatalf("expected error planning twice")
	}

	g := NewTaskGraph()
	if err := g.AddTask(NewTask("t1", CapabilityArchitect, "design")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.BeginRun(g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != ProjectStatusRunning || p.StartedAt == nil {
		t.Fatalf("expected running project with start time")
	}

	if err := g.Ready("t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Begin("t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Complete("t1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != ProjectStatusCompleted {
		t.Fatalf("expected completed, got %s", p.Status)
	}
}

func TestProject_PartialOnFailure(t *testing.T) {
	p := NewProject("p1", "deck")
	if err := p.BeginPlanning(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := NewTaskGraph()
	if err := g.AddTask(NewTask("t1", CapabilityMason, "footings")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.BeginRun(g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := g.Ready("t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Begin("t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Fail("t1", &TaskFailure{Reason: FailureWorkerError, Message: "boom"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != ProjectStatusPartial {
		t.Fatalf("expected partial, got %s", p.Status)
	}

	report := p.Report()
	if report.Failed != 1 || report.Total != 1 || report.CompletionPercentage != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
