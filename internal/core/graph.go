package core

import "sync"

// TaskGraph owns all tasks for one project run. The completed, failed, and
// skipped sets are maintained incrementally as each transition happens so
// readiness checks stay O(deps) instead of rescanning every task.
//
// All mutation goes through graph methods under the mutex; the engine is the
// single writer, and parallel dispatch serializes its status updates here.
type TaskGraph struct {
	mu        sync.RWMutex
	tasks     map[TaskID]*Task
	order     []TaskID
	completed map[TaskID]bool
	failed    map[TaskID]bool
	skipped   map[TaskID]bool
}

// NewTaskGraph creates an empty task graph.
func NewTaskGraph() *TaskGraph {
	return &TaskGraph{
		tasks:     make(map[TaskID]*Task),
		completed: make(map[TaskID]bool),
		failed:    make(map[TaskID]bool),
		skipped:   make(map[TaskID]bool),
	}
}

// AddTask adds a task to the graph. Only the plan validator builds graphs, so
// referential integrity and acyclicity are its responsibility; the graph only
// rejects duplicate IDs.
func (g *TaskGraph) AddTask(task *Task) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.tasks[task.ID]; exists {
		return ErrValidation(CodeDuplicateID, "task "+string(task.ID)+" already exists")
	}
	g.tasks[task.ID] = task
	g.order = append(g.order, task.ID)
	return nil
}

// Task retrieves a task by ID.
func (g *TaskGraph) Task(id TaskID) (*Task, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	task, ok := g.tasks[id]
	return task, ok
}

// Tasks returns all tasks in insertion order.
func (g *TaskGraph) Tasks() []*Task {
	g.mu.RLock()
	defer g.mu.RUnlock()
	result := make([]*Task, 0, len(g.order))
	for _, id := range g.order {
		result = append(result, g.tasks[id])
	}
	return result
}

// Len returns the number of tasks in the graph.
func (g *TaskGraph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.tasks)
}

// CompletedSet returns a copy of the completed task ID set.
func (g *TaskGraph) CompletedSet() map[TaskID]bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	result := make(map[TaskID]bool, len(g.completed))
	for id := range g.completed {
		result[id] = true
	}
	return result
}

// SatisfiedSet returns the IDs that satisfy a dependency edge: completed
// tasks plus operator-skipped ones. Skipping a task deliberately unblocks
// its dependents.
func (g *TaskGraph) SatisfiedSet() map[TaskID]bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	result := make(map[TaskID]bool, len(g.completed)+len(g.skipped))
	for id := range g.completed {
		result[id] = true
	}
	for id := range g.skipped {
		result[id] = true
	}
	return result
}

// Ready transitions a pending task to ready.
func (g *TaskGraph) Ready(id TaskID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	task, ok := g.tasks[id]
	if !ok {
		return ErrNotFound("task", string(id))
	}
	return task.MarkReady()
}

// Begin transitions a ready task to in progress.
func (g *TaskGraph) Begin(id TaskID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	task, ok := g.tasks[id]
	if !ok {
		return ErrNotFound("task", string(id))
	}
	return task.MarkInProgress()
}

// Complete transitions a task to completed and records it in the completed
// set.
func (g *TaskGraph) Complete(id TaskID, result *TaskResult) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	task, ok := g.tasks[id]
	if !ok {
		return ErrNotFound("task", string(id))
	}
	if err := task.MarkCompleted(result); err != nil {
		return err
	}
	g.completed[id] = true
	delete(g.failed, id)
	return nil
}

// Fail transitions a task to failed and records it in the failed set.
func (g *TaskGraph) Fail(id TaskID, failure *TaskFailure) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	task, ok := g.tasks[id]
	if !ok {
		return ErrNotFound("task", string(id))
	}
	if err := task.MarkFailed(failure); err != nil {
		return err
	}
	g.failed[id] = true
	return nil
}

// Retry transitions a failed task back to ready, removing it from the failed
// set. This is the only backward transition the graph allows.
func (g *TaskGraph) Retry(id TaskID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	task, ok := g.tasks[id]
	if !ok {
		return ErrNotFound("task", string(id))
	}
	if err := task.ResetForRetry(); err != nil {
		return err
	}
	delete(g.failed, id)
	delete(g.completed, id)
	return nil
}

// Skip marks a task skipped by operator action.
func (g *TaskGraph) Skip(id TaskID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	task, ok := g.tasks[id]
	if !ok {
		return ErrNotFound("task", string(id))
	}
	if err := task.MarkSkipped(); err != nil {
		return err
	}
	g.skipped[id] = true
	delete(g.failed, id)
	return nil
}

// StatusCounts summarizes the graph by task status.
type StatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Ready      int `json:"ready"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// Settled reports whether every task has reached a terminal state.
func (c StatusCounts) Settled() bool {
	return c.Pending == 0 && c.Ready == 0 && c.InProgress == 0
}

// Counts returns the current status counts.
func (g *TaskGraph) Counts() StatusCounts {
	g.mu.RLock()
	defer g.mu.RUnlock()

	counts := StatusCounts{Total: len(g.tasks)}
	for _, task := range g.tasks {
		switch task.Status {
		case TaskStatusPending:
			counts.Pending++
		case TaskStatusReady:
			counts.Ready++
		case TaskStatusInProgress:
			counts.InProgress++
		case TaskStatusCompleted:
			counts.Completed++
		case TaskStatusFailed:
			counts.Failed++
		case TaskStatusSkipped:
			counts.Skipped++
		}
	}
	return counts
}

// BlockedTask describes a pending task that cannot become ready, with the
// dependency IDs still unmet.
type BlockedTask struct {
	ID          TaskID   `json:"id"`
	MissingDeps []TaskID `json:"missing_dependencies"`
}

// Blocked returns every pending task together with its unmet dependencies,
// in insertion order. Used by the run loop to build deadlock reports.
func (g *TaskGraph) Blocked() []BlockedTask {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var blocked []BlockedTask
	for _, id := range g.order {
		task := g.tasks[id]
		if task.Status != TaskStatusPending {
			continue
		}
		var missing []TaskID
		for _, dep := range task.Dependencies {
			if !g.completed[dep] && !g.skipped[dep] {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			blocked = append(blocked, BlockedTask{ID: id, MissingDeps: missing})
		}
	}
	return blocked
}
