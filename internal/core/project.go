package core

import (
	"fmt"
	"time"
)

// ProjectID uniquely identifies a project run.
type ProjectID string

// ProjectStatus represents the overall state of a project run.
type ProjectStatus string

const (
	ProjectStatusIdle      ProjectStatus = "idle"
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusRunning   ProjectStatus = "running"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusPartial   ProjectStatus = "partial"
)

// Project wraps one task graph with a phase cursor and overall status.
// A project is discarded wholesale when a new run starts; there is no
// cross-project carryover.
type Project struct {
	ID           ProjectID
	Description  string
	Graph        *TaskGraph
	CurrentPhase Phase
	Status       ProjectStatus
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

// NewProject creates an idle project with an empty graph.
func NewProject(id ProjectID, description string) *Project {
	return &Project{
		ID:          id,
		Description: description,
		Graph:       NewTaskGraph(),
		Status:      ProjectStatusIdle,
		CreatedAt:   time.Now(),
	}
}

// BeginPlanning transitions the project from idle to planning.
func (p *Project) BeginPlanning() error {
	if p.Status != ProjectStatusIdle {
		return ErrState(CodeInvalidState, fmt.Sprintf("cannot begin planning in %s state", p.Status))
	}
	p.Status = ProjectStatusPlanning
	return nil
}

// BeginRun transitions the project from planning to running after validation
// succeeded and installs the validated graph.
func (p *Project) BeginRun(graph *TaskGraph) error {
	if p.Status != ProjectStatusPlanning {
		return ErrState(CodeInvalidState, fmt.Sprintf("cannot begin run in %s state", p.Status))
	}
	p.Graph = graph
	p.Status = ProjectStatusRunning
	now := time.Now()
	p.StartedAt = &now
	return nil
}

// Finish transitions the project to a terminal state: completed when every
// task succeeded, partial when some failed or were skipped.
func (p *Project) Finish() error {
	if p.Status != ProjectStatusRunning {
		return ErrState(CodeInvalidState, fmt.Sprintf("cannot finish project in %s state", p.Status))
	}
	counts := p.Graph.Counts()
	if counts.Failed == 0 && counts.Skipped == 0 && counts.Completed == counts.Total {
		p.Status = ProjectStatusCompleted
	} else {
		p.Status = ProjectStatusPartial
	}
	now := time.Now()
	p.CompletedAt = &now
	return nil
}

// Resume moves a terminal project back to running after an operator retry.
func (p *Project) Resume() error {
	if p.Status != ProjectStatusCompleted && p.Status != ProjectStatusPartial {
		return ErrState(CodeInvalidState, fmt.Sprintf("cannot resume project in %s state", p.Status))
	}
	p.Status = ProjectStatusRunning
	p.CompletedAt = nil
	return nil
}

// IsTerminal returns true once the project reached a final state.
func (p *Project) IsTerminal() bool {
	return p.Status == ProjectStatusCompleted || p.Status == ProjectStatusPartial
}

// StatusReport is the externally visible project progress summary.
type StatusReport struct {
	Status               ProjectStatus `json:"status"`
	Total                int           `json:"total"`
	Completed            int           `json:"completed"`
	Failed               int           `json:"failed"`
	InProgress           int           `json:"in_progress"`
	Pending              int           `json:"pending"`
	Skipped              int           `json:"skipped"`
	CompletionPercentage float64       `json:"completion_percentage"`
}

// Report summarizes the project state for external callers.
func (p *Project) Report() StatusReport {
	counts := p.Graph.Counts()
	report := StatusReport{
		Status: p.Status,
		Total:  counts.Total,
		// Ready tasks are dependency-satisfied but not yet dispatched, so
		// they count as pending for external callers.
		Pending:    counts.Pending + counts.Ready,
		InProgress: counts.InProgress,
		Completed:  counts.Completed,
		Failed:     counts.Failed,
		Skipped:    counts.Skipped,
	}
	if counts.Total > 0 {
		report.CompletionPercentage = float64(counts.Completed) / float64(counts.Total) * 100
	}
	return report
}

// Duration returns how long the project has been running.
func (p *Project) Duration() time.Duration {
	if p.StartedAt == nil {
		return 0
	}
	end := time.Now()
	if p.CompletedAt != nil {
		end = *p.CompletedAt
	}
	return end.Sub(*p.StartedAt)
}
