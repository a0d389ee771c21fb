package core

import (
	"fmt"
	"time"
)

// TaskID uniquely identifies a task within a project.
type TaskID string

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusReady      TaskStatus = "ready"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
	TaskStatusSkipped    TaskStatus = "skipped"
)

// FailureReason classifies why a task failed.
type FailureReason string

const (
	FailureTimeout            FailureReason = "timeout"
	FailureWorkerError        FailureReason = "worker_error"
	FailureCapabilityNotFound FailureReason = "capability_not_found"
	FailureRunawayDetected    FailureReason = "runaway_detected"
)

// TaskResult holds the opaque payload a worker returned on success.
type TaskResult struct {
	Summary string         `json:"summary"`
	Output  map[string]any `json:"output,omitempty"`
}

// TaskFailure holds the structured reason a task failed.
type TaskFailure struct {
	Reason  FailureReason `json:"reason"`
	Message string        `json:"message"`
	// Trace carries the offending sub-action sequence for runaway aborts.
	Trace []string `json:"trace,omitempty"`
}

// Task represents one unit of work in a project plan.
type Task struct {
	ID           TaskID
	Capability   Capability
	Description  string
	Dependencies []TaskID
	Phase        Phase
	Status       TaskStatus
	Result       *TaskResult
	Failure      *TaskFailure
	Requirements map[string]any
	Resources    []string
	Retries      int
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

// NewTask creates a new pending task.
func NewTask(id TaskID, capability Capability, description string) *Task {
	return &Task{
		ID:          id,
		Capability:  capability,
		Description: description,
		Status:      TaskStatusPending,
	}
}

// WithPhase sets the task phase.
func (t *Task) WithPhase(phase Phase) *Task {
	t.Phase = phase
	return t
}

// WithDependencies sets the task dependencies.
func (t *Task) WithDependencies(deps ...TaskID) *Task {
	t.Dependencies = deps
	return t
}

// WithRequirements sets the free-form requirement details.
func (t *Task) WithRequirements(req map[string]any) *Task {
	t.Requirements = req
	return t
}

// WithResources sets the resource names the task needs.
func (t *Task) WithResources(resources ...string) *Task {
	t.Resources = resources
	return t
}

// IsReady returns true if the task is pending and every dependency is in the
// satisfied set.
func (t *Task) IsReady(satisfied map[TaskID]bool) bool {
	if t.Status != TaskStatusPending {
		return false
	}
	for _, dep := range t.Dependencies {
		if !satisfied[dep] {
			return false
		}
	}
	return true
}

// IsTerminal returns true once the task can no longer change state without an
// explicit operator action.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusCompleted ||
		t.Status == TaskStatusFailed ||
		t.Status == TaskStatusSkipped
}

// MarkReady transitions the task from pending to ready.
func (t *Task) MarkReady() error {
	if t.Status != TaskStatusPending {
		return ErrState(CodeInvalidState, fmt.Sprintf("cannot mark task %s ready from %s", t.ID, t.Status))
	}
	t.Status = TaskStatusReady
	return nil
}

// MarkInProgress transitions the task from ready to in progress.
func (t *Task) MarkInProgress() error {
	if t.Status != TaskStatusReady {
		return ErrState(CodeInvalidState, fmt.Sprintf("cannot start task %s from %s", t.ID, t.Status))
	}
	t.Status = TaskStatusInProgress
	now := time.Now()
	t.StartedAt = &now
	return nil
}

// MarkCompleted transitions the task to completed and stores the result.
func (t *Task) MarkCompleted(result *TaskResult) error {
	if t.Status != TaskStatusInProgress {
		return ErrState(CodeInvalidState, fmt.Sprintf("cannot complete task %s from %s", t.ID, t.Status))
	}
	t.Status = TaskStatusCompleted
	t.Result = result
	t.Failure = nil
	now := time.Now()
	t.CompletedAt = &now
	return nil
}

// MarkFailed transitions the task to failed with a structured reason.
// Failing from ready is allowed for tasks that never dispatch
// (capability not found).
func (t *Task) MarkFailed(failure *TaskFailure) error {
	if t.Status != TaskStatusInProgress && t.Status != TaskStatusReady {
		return ErrState(CodeInvalidState, fmt.Sprintf("cannot fail task %s from %s", t.ID, t.Status))
	}
	t.Status = TaskStatusFailed
	t.Failure = failure
	now := time.Now()
	t.CompletedAt = &now
	return nil
}

// MarkSkipped transitions the task to skipped by operator action.
func (t *Task) MarkSkipped() error {
	if t.IsTerminal() && t.Status != TaskStatusFailed {
		return ErrState(CodeInvalidState, fmt.Sprintf("cannot skip task %s from %s", t.ID, t.Status))
	}
	t.Status = TaskStatusSkipped
	now := time.Now()
	t.CompletedAt = &now
	return nil
}

// ResetForRetry transitions a failed task back to ready. This is the only
// backward status transition in the model.
func (t *Task) ResetForRetry() error {
	if t.Status != TaskStatusFailed {
		return ErrState(CodeInvalidState, fmt.Sprintf("cannot retry task %s from %s", t.ID, t.Status))
	}
	t.Status = TaskStatusReady
	t.Failure = nil
	t.Result = nil
	t.StartedAt = nil
	t.CompletedAt = nil
	t.Retries++
	return nil
}

// Duration returns how long the task ran, or 0 if it never started.
func (t *Task) Duration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	end := time.Now()
	if t.CompletedAt != nil {
		end = *t.CompletedAt
	}
	return end.Sub(*t.StartedAt)
}
