// Package testutil provides fake workers and event capture helpers shared by
// engine and command tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
	"github.com/hugo-lorenzo-mato/foreman/internal/events"
	"github.com/hugo-lorenzo-mato/foreman/internal/worker"
)

// ScriptedWorker returns canned results per task ID. Tasks without an entry
// succeed with a generic summary; an entry with a non-nil error fails the
// task.
type ScriptedWorker struct {
	Cap     core.Capability
	Results map[core.TaskID]error

	mu      sync.Mutex
	invoked []core.TaskID
}

func (w *ScriptedWorker) Capability() core.Capability { return w.Cap }

func (w *ScriptedWorker) Invoke(ctx context.Context, req worker.Request, trace worker.Trace) (*worker.Result, error) {
	w.mu.Lock()
	w.invoked = append(w.invoked, req.TaskID)
	w.mu.Unlock()

	if err, ok := w.Results[req.TaskID]; ok && err != nil {
		return nil, err
	}
	return &worker.Result{Summary: fmt.Sprintf("done: %s", req.Description)}, nil
}

// Invoked returns the task IDs this worker executed, in order.
func (w *ScriptedWorker) Invoked() []core.TaskID {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]core.TaskID, len(w.invoked))
	copy(out, w.invoked)
	return out
}

// SlowWorker blocks for Delay or until the context is canceled.
type SlowWorker struct {
	Cap   core.Capability
	Delay time.Duration
}

func (w *SlowWorker) Capability() core.Capability { return w.Cap }

func (w *SlowWorker) Invoke(ctx context.Context, req worker.Request, trace worker.Trace) (*worker.Result, error) {
	select {
	case <-time.After(w.Delay):
		return &worker.Result{Summary: "finally finished"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RunawayWorker repeats the same traced action until the guard aborts it.
type RunawayWorker struct {
	Cap core.Capability
}

func (w *RunawayWorker) Capability() core.Capability { return w.Cap }

func (w *RunawayWorker) Invoke(ctx context.Context, req worker.Request, trace worker.Trace) (*worker.Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := trace("spin", map[string]any{"task": string(req.TaskID)}); err != nil {
			return nil, err
		}
	}
}

// Recorder captures all events published on a bus.
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
	done   chan struct{}
}

// NewRecorder subscribes to the bus and records every event until the bus
// closes.
func NewRecorder(bus *events.Bus) *Recorder {
	r := &Recorder{done: make(chan struct{})}
	ch := bus.Subscribe()
	go func() {
		defer close(r.done)
		for ev := range ch {
			r.mu.Lock()
			r.events = append(r.events, ev)
			r.mu.Unlock()
		}
	}()
	return r
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// TypesSeen returns the distinct event types recorded, in first-seen order.
func (r *Recorder) TypesSeen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var types []string
	for _, ev := range r.events {
		if !seen[ev.EventType()] {
			seen[ev.EventType()] = true
			types = append(types, ev.EventType())
		}
	}
	return types
}

// Wait blocks until the bus is closed and all events are drained.
func (r *Recorder) Wait() {
	<-r.done
}
