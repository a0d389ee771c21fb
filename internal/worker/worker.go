// Package worker defines the execution interface between the engine and the
// trade crews that carry out tasks, plus the registry that maps a task's
// capability to a crew.
package worker

import (
	"context"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

// Request carries everything a worker needs to execute one task.
type Request struct {
	TaskID       core.TaskID
	Capability   core.Capability
	Description  string
	Requirements map[string]any
	Resources    []string
}

// Result is the opaque payload a worker returns on success.
type Result struct {
	Summary string
	Output  map[string]any
}

// Trace reports each sub-action a worker performs. The engine wires it to a
// runaway guard; a non-nil return means the attempt is aborted and the worker
// must stop immediately.
type Trace func(action string, params map[string]any) error

// Worker executes tasks for one capability.
type Worker interface {
	// Capability names the trade this worker serves.
	Capability() core.Capability
	// Invoke executes one task. Implementations must respect ctx cancellation
	// and report sub-actions through trace, stopping on its first error.
	Invoke(ctx context.Context, req Request, trace Trace) (*Result, error)
}
