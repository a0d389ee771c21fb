package events

// Event type constants.
const (
	TypePlanValidated   = "plan_validated"
	TypeTaskStarted     = "task_started"
	TypeTaskCompleted   = "task_completed"
	TypeTaskFailed      = "task_failed"
	TypeTaskSkipped     = "task_skipped"
	TypeTaskRetry       = "task_retry"
	TypePhaseComplete   = "phase_complete"
	TypeProjectStuck    = "project_stuck"
	TypeProjectComplete = "project_complete"
)

// PlanValidatedEvent is emitted when a plan passes validation and a run is
// ready to start.
type PlanValidatedEvent struct {
	BaseEvent
	TaskCount           int      `json:"task_count"`
	MissingCapabilities []string `json:"missing_capabilities,omitempty"`
	UnknownPhases       []string `json:"unknown_phases,omitempty"`
}

// NewPlanValidatedEvent creates a new plan validated event.
func NewPlanValidatedEvent(projectID string, taskCount int, missingCapabilities, unknownPhases []string) PlanValidatedEvent {
	return PlanValidatedEvent{
		BaseEvent:           NewBaseEvent(TypePlanValidated, projectID),
		TaskCount:           taskCount,
		MissingCapabilities: missingCapabilities,
		UnknownPhases:       unknownPhases,
	}
}

// TaskStartedEvent is emitted when a task is dispatched to a worker.
type TaskStartedEvent struct {
	BaseEvent
	TaskID     string `json:"task_id"`
	Capability string `json:"capability"`
	Phase      string `json:"phase"`
	Attempt    int    `json:"attempt"`
}

// NewTaskStartedEvent creates a new task started event.
func NewTaskStartedEvent(projectID, taskID, capability, phase string, attempt int) TaskStartedEvent {
	return TaskStartedEvent{
		BaseEvent:  NewBaseEvent(TypeTaskStarted, projectID),
		TaskID:     taskID,
		Capability: capability,
		Phase:      phase,
		Attempt:    attempt,
	}
}

// TaskCompletedEvent is emitted when a worker finishes a task successfully.
type TaskCompletedEvent struct {
	BaseEvent
	TaskID     string `json:"task_id"`
	Capability string `json:"capability"`
	Summary    string `json:"summary,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// NewTaskCompletedEvent creates a new task completed event.
func NewTaskCompletedEvent(projectID, taskID, capability, summary string, durationMS int64) TaskCompletedEvent {
	return TaskCompletedEvent{
		BaseEvent:  NewBaseEvent(TypeTaskCompleted, projectID),
		TaskID:     taskID,
		Capability: capability,
		Summary:    summary,
		DurationMS: durationMS,
	}
}

// TaskFailedEvent is emitted when a task fails for any reason.
type TaskFailedEvent struct {
	BaseEvent
	TaskID  string `json:"task_id"`
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

// NewTaskFailedEvent creates a new task failed event.
func NewTaskFailedEvent(projectID, taskID, reason, message string) TaskFailedEvent {
	return TaskFailedEvent{
		BaseEvent: NewBaseEvent(TypeTaskFailed, projectID),
		TaskID:    taskID,
		Reason:    reason,
		Message:   message,
	}
}

// TaskSkippedEvent is emitted when an operator skips a task.
type TaskSkippedEvent struct {
	BaseEvent
	TaskID string `json:"task_id"`
}

// NewTaskSkippedEvent creates a new task skipped event.
func NewTaskSkippedEvent(projectID, taskID string) TaskSkippedEvent {
	return TaskSkippedEvent{
		BaseEvent: NewBaseEvent(TypeTaskSkipped, projectID),
		TaskID:    taskID,
	}
}

// TaskRetryEvent is emitted when a failed task is queued for another attempt.
type TaskRetryEvent struct {
	BaseEvent
	TaskID  string `json:"task_id"`
	Attempt int    `json:"attempt"`
}

// NewTaskRetryEvent creates a new task retry event.
func NewTaskRetryEvent(projectID, taskID string, attempt int) TaskRetryEvent {
	return TaskRetryEvent{
		BaseEvent: NewBaseEvent(TypeTaskRetry, projectID),
		TaskID:    taskID,
		Attempt:   attempt,
	}
}

// PhaseCompleteEvent is emitted when a dispatch group finishes.
type PhaseCompleteEvent struct {
	BaseEvent
	Phase     string `json:"phase"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
}

// NewPhaseCompleteEvent creates a new phase complete event.
func NewPhaseCompleteEvent(projectID, phase string, completed, failed int) PhaseCompleteEvent {
	return PhaseCompleteEvent{
		BaseEvent: NewBaseEvent(TypePhaseComplete, projectID),
		Phase:     phase,
		Completed: completed,
		Failed:    failed,
	}
}

// ProjectStuckEvent is emitted when no pending task can ever become ready.
type ProjectStuckEvent struct {
	BaseEvent
	BlockedTasks []string `json:"blocked_tasks"`
	Suggestion   string   `json:"suggestion,omitempty"`
}

// NewProjectStuckEvent creates a new project stuck event.
func NewProjectStuckEvent(projectID string, blockedTasks []string, suggestion string) ProjectStuckEvent {
	return ProjectStuckEvent{
		BaseEvent:    NewBaseEvent(TypeProjectStuck, projectID),
		BlockedTasks: blockedTasks,
		Suggestion:   suggestion,
	}
}

// ProjectCompleteEvent is emitted when a run reaches a terminal state.
type ProjectCompleteEvent struct {
	BaseEvent
	Status    string `json:"status"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
}

// NewProjectCompleteEvent creates a new project complete event.
func NewProjectCompleteEvent(projectID, status string, completed, failed, skipped int) ProjectCompleteEvent {
	return ProjectCompleteEvent{
		BaseEvent: NewBaseEvent(TypeProjectComplete, projectID),
		Status:    status,
		Completed: completed,
		Failed:    failed,
		Skipped:   skipped,
	}
}
