package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
	"github.com/hugo-lorenzo-mato/foreman/internal/events"
	"github.com/hugo-lorenzo-mato/foreman/internal/guard"
	"github.com/hugo-lorenzo-mato/foreman/internal/logging"
	"github.com/hugo-lorenzo-mato/foreman/internal/worker"
)

// controller dispatches ready tasks to workers and records their outcomes on
// the graph. The graph serializes status updates internally, so group
// members may execute in parallel.
type controller struct {
	registry    *worker.Registry
	limits      guard.Limits
	bus         *events.Bus
	log         *logging.Logger
	projectID   string
	timeout     time.Duration
	grace       time.Duration
	concurrency int
}

type groupOutcome struct {
	completed int
	failed    int
}

// executeGroup runs every task in the group, at most concurrency at a time.
// Individual task failures are recorded on the graph, not returned; only a
// canceled context aborts the group.
func (c *controller) executeGroup(ctx context.Context, graph *core.TaskGraph, group *PhaseGroup) (groupOutcome, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, task := range group.Tasks {
		g.Go(func() error {
			return c.executeTask(gctx, graph, task)
		})
	}
	if err := g.Wait(); err != nil {
		return groupOutcome{}, err
	}

	var outcome groupOutcome
	for _, task := range group.Tasks {
		switch task.Status {
		case core.TaskStatusCompleted:
			outcome.completed++
		case core.TaskStatusFailed:
			outcome.failed++
		}
	}
	return outcome, nil
}

// executeTask runs one task end to end: dispatch, deadline, classification.
func (c *controller) executeTask(ctx context.Context, graph *core.TaskGraph, task *core.Task) error {
	log := c.log.WithTask(string(task.ID)).WithCapability(string(task.Capability))

	w, err := c.registry.Resolve(task.Capability)
	if err != nil {
		// No worker, no dispatch. The task fails in place and its
		// dependents stay blocked.
		log.Error("no worker for capability", "error", err)
		return c.fail(graph, task, &core.TaskFailure{
			Reason:  core.FailureCapabilityNotFound,
			Message: err.Error(),
		})
	}

	if err := graph.Begin(task.ID); err != nil {
		return err
	}
	c.bus.Publish(events.NewTaskStartedEvent(
		c.projectID, string(task.ID), string(task.Capability), string(task.Phase), task.Retries+1))
	log.Info("task started", "phase", string(task.Phase), "attempt", task.Retries+1)

	tracker := guard.NewTracker(c.limits)
	req := worker.Request{
		TaskID:       task.ID,
		Capability:   task.Capability,
		Description:  task.Description,
		Requirements: task.Requirements,
		Resources:    task.Resources,
	}

	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type invokeOutcome struct {
		result *worker.Result
		err    error
	}
	done := make(chan invokeOutcome, 1)
	go func() {
		result, err := w.Invoke(tctx, req, tracker.Track)
		done <- invokeOutcome{result, err}
	}()

	select {
	case out := <-done:
		return c.classify(graph, task, log, out.result, out.err, tracker)
	case <-tctx.Done():
		if ctx.Err() != nil {
			// Run canceled from above; leave classification to the caller.
			return ctx.Err()
		}
		// Give the worker a short grace period to notice the deadline and
		// surface its own error before we classify the timeout.
		select {
		case out := <-done:
			return c.classify(graph, task, log, out.result, out.err, tracker)
		case <-time.After(c.grace):
			return c.failTimeout(graph, task, log)
		}
	}
}

func (c *controller) classify(graph *core.TaskGraph, task *core.Task, log *logging.Logger,
	result *worker.Result, err error, tracker *guard.Tracker) error {

	switch {
	case err == nil:
		var taskResult *core.TaskResult
		if result != nil {
			taskResult = &core.TaskResult{Summary: result.Summary, Output: result.Output}
		}
		if gerr := graph.Complete(task.ID, taskResult); gerr != nil {
			return gerr
		}
		summary := ""
		if taskResult != nil {
			summary = taskResult.Summary
		}
		c.bus.Publish(events.NewTaskCompletedEvent(
			c.projectID, string(task.ID), string(task.Capability), summary,
			task.Duration().Milliseconds()))
		log.Info("task completed", "duration", task.Duration().String())
		return nil

	case core.IsCategory(err, core.ErrCatRunaway):
		summary := tracker.Summary()
		log.Warn("task aborted by runaway guard", "reason", summary.Reason,
			"calls", summary.TotalCalls)
		return c.fail(graph, task, &core.TaskFailure{
			Reason:  core.FailureRunawayDetected,
			Message: summary.Reason,
			Trace:   summary.History,
		})

	case errors.Is(err, context.DeadlineExceeded):
		return c.failTimeout(graph, task, log)

	default:
		log.Error("task failed", "error", err)
		return c.fail(graph, task, &core.TaskFailure{
			Reason:  core.FailureWorkerError,
			Message: err.Error(),
		})
	}
}

func (c *controller) failTimeout(graph *core.TaskGraph, task *core.Task, log *logging.Logger) error {
	log.Warn("task timed out", "timeout", c.timeout.String())
	return c.fail(graph, task, &core.TaskFailure{
		Reason:  core.FailureTimeout,
		Message: fmt.Sprintf("task exceeded its %s deadline", c.timeout),
	})
}

func (c *controller) fail(graph *core.TaskGraph, task *core.Task, failure *core.TaskFailure) error {
	if err := graph.Fail(task.ID, failure); err != nil {
		return err
	}
	c.bus.Publish(events.NewTaskFailedEvent(
		c.projectID, string(task.ID), string(failure.Reason), failure.Message))
	return nil
}
