package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
	"github.com/hugo-lorenzo-mato/foreman/internal/diagnostics"
	"github.com/hugo-lorenzo-mato/foreman/internal/events"
	"github.com/hugo-lorenzo-mato/foreman/internal/guard"
	"github.com/hugo-lorenzo-mato/foreman/internal/logging"
	"github.com/hugo-lorenzo-mato/foreman/internal/plan"
	"github.com/hugo-lorenzo-mato/foreman/internal/planner"
	"github.com/hugo-lorenzo-mato/foreman/internal/worker"
)

// Config holds engine tunables.
type Config struct {
	// TaskTimeout is the per-task execution deadline.
	TaskTimeout time.Duration
	// Grace is how long after the deadline the controller waits for the
	// worker to surface its own error before classifying a timeout.
	Grace time.Duration
	// MaxIterations caps run loop iterations as a last-resort safety valve.
	MaxIterations int
	// Concurrency bounds parallel task execution within a phase group.
	Concurrency int
	// FailFast stops the run after the first group with a failure instead of
	// continuing with unaffected branches.
	FailFast bool
	// Guard bounds worker sub-action behavior.
	Guard guard.Limits
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		TaskTimeout:   2 * time.Minute,
		Grace:         250 * time.Millisecond,
		MaxIterations: 50,
		Concurrency:   1,
		Guard:         guard.DefaultLimits(),
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = d.TaskTimeout
	}
	if c.Grace <= 0 {
		c.Grace = d.Grace
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	return c
}

// Engine owns one project at a time and drives it from plan to terminal
// state. All public methods are safe for concurrent use; the engine is the
// single writer of project and graph state.
type Engine struct {
	mu         sync.Mutex
	cfg        Config
	registry   *worker.Registry
	bus        *events.Bus
	log        *logging.Logger
	source     planner.PlanSource
	project    *core.Project
	iterations int
}

// Option configures an Engine.
type Option func(*Engine)

// WithBus attaches an event bus.
func WithBus(bus *events.Bus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithLogger attaches a logger.
func WithLogger(log *logging.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithPlanSource attaches a dynamic plan source for StartDynamic.
func WithPlanSource(source planner.PlanSource) Option {
	return func(e *Engine) { e.source = source }
}

// NewEngine creates an engine with the given worker registry.
func NewEngine(cfg Config, registry *worker.Registry, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg.normalized(),
		registry: registry,
		bus:      events.New(256),
		log:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bus exposes the engine's event bus for subscribers.
func (e *Engine) Bus() *events.Bus {
	return e.bus
}

// Start validates records and builds a new project ready to run. It fails if
// a run is already in progress; a finished project is replaced.
func (e *Engine) Start(ctx context.Context, description string, records []plan.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.project != nil && e.project.Status == core.ProjectStatusRunning {
		return core.ErrState(core.CodeRunInProgress, "a run is already in progress")
	}

	project := core.NewProject(core.ProjectID(uuid.NewString()), description)
	if err := project.BeginPlanning(); err != nil {
		return err
	}

	graph, err := plan.Ingest(records)
	if err != nil {
		return err
	}

	var missing []string
	for _, capability := range e.registry.Validate(graph) {
		missing = append(missing, string(capability))
	}
	unknownPhases := plan.UnknownPhases(records)
	if len(missing) > 0 {
		e.log.Warn("plan references unregistered capabilities", "capabilities", strings.Join(missing, ", "))
	}
	if len(unknownPhases) > 0 {
		e.log.Warn("plan uses unrecognized phases, they will run last",
			"phases", strings.Join(unknownPhases, ", "))
	}

	if err := project.BeginRun(graph); err != nil {
		return err
	}
	e.project = project
	e.iterations = 0

	e.bus.Publish(events.NewPlanValidatedEvent(string(project.ID), graph.Len(), missing, unknownPhases))
	e.log.WithProject(string(project.ID)).Info("plan validated", "tasks", graph.Len())
	return nil
}

// StartDynamic asks the configured plan source to generate a plan for the
// description and starts a run from it.
func (e *Engine) StartDynamic(ctx context.Context, description string, params plan.Params) error {
	e.mu.Lock()
	source := e.source
	e.mu.Unlock()

	if source == nil {
		return core.ErrState(core.CodeInvalidState, "no plan source configured")
	}

	payload, err := source.GeneratePlan(ctx, description, params)
	if err != nil {
		return fmt.Errorf("plan generation failed: %w", err)
	}
	records, err := plan.Extract(payload)
	if err != nil {
		return err
	}
	return e.Start(ctx, description, records)
}

// AdvancePhase promotes ready tasks and dispatches the next phase group.
// It returns nil when nothing is ready; the caller decides whether that means
// done or stuck.
func (e *Engine) AdvancePhase(ctx context.Context) (*PhaseResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.advancePhaseLocked(ctx)
}

func (e *Engine) advancePhaseLocked(ctx context.Context) (*PhaseResult, error) {
	project, err := e.activeRunLocked()
	if err != nil {
		return nil, err
	}

	PromoteReady(project.Graph)
	group := NextPhaseGroup(project.Graph)
	if group == nil {
		return nil, nil
	}
	project.CurrentPhase = group.Phase

	ctl := &controller{
		registry:    e.registry,
		limits:      e.cfg.Guard,
		bus:         e.bus,
		log:         e.log.WithProject(string(project.ID)),
		projectID:   string(project.ID),
		timeout:     e.cfg.TaskTimeout,
		grace:       e.cfg.Grace,
		concurrency: e.cfg.Concurrency,
	}
	outcome, err := ctl.executeGroup(ctx, project.Graph, group)
	if err != nil {
		return nil, err
	}

	result := &PhaseResult{
		Phase:      group.Phase,
		Dispatched: len(group.Tasks),
		Completed:  outcome.completed,
		Failed:     outcome.failed,
	}
	e.bus.Publish(events.NewPhaseCompleteEvent(
		string(project.ID), string(group.Phase), result.Completed, result.Failed))
	return result, nil
}

// RunToCompletion drives the project until every task is terminal, the plan
// deadlocks, or the iteration cap trips. A deadlocked run is not an error:
// the report carries a StuckReport and the project finishes partial.
func (e *Engine) RunToCompletion(ctx context.Context) (*FinalReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	project, err := e.activeRunLocked()
	if err != nil {
		return nil, err
	}
	log := e.log.WithProject(string(project.ID))

	for i := 0; i < e.cfg.MaxIterations; i++ {
		e.iterations++

		result, err := e.advancePhaseLocked(ctx)
		if err != nil {
			return nil, err
		}

		if result == nil {
			counts := project.Graph.Counts()
			if counts.Settled() {
				return e.finishLocked(project, nil)
			}
			// Ready and in-progress are empty but pending remains: those
			// tasks are waiting on failed dependencies and can never run.
			stuck := e.buildStuckReport(project)
			log.Warn("run is stuck", "blocked", len(stuck.Blocked))
			e.bus.PublishPriority(events.NewProjectStuckEvent(
				string(project.ID), blockedIDs(stuck.Blocked), stuck.Suggestion))
			return e.finishLocked(project, stuck)
		}

		log.Info("phase complete", "phase", string(result.Phase),
			"completed", result.Completed, "failed", result.Failed)

		if e.cfg.FailFast && result.Failed > 0 {
			log.Warn("stopping after failed phase", "phase", string(result.Phase))
			return e.finishLocked(project, nil)
		}
	}

	report := e.reportLocked(project, nil)
	return report, core.ErrState(core.CodeIterationCap,
		fmt.Sprintf("run did not settle within %d iterations", e.cfg.MaxIterations))
}

func (e *Engine) finishLocked(project *core.Project, stuck *StuckReport) (*FinalReport, error) {
	if err := project.Finish(); err != nil {
		return nil, err
	}
	counts := project.Graph.Counts()
	e.bus.PublishPriority(events.NewProjectCompleteEvent(
		string(project.ID), string(project.Status), counts.Completed, counts.Failed, counts.Skipped))
	e.log.WithProject(string(project.ID)).Info("project finished",
		"status", string(project.Status), "completed", counts.Completed, "failed", counts.Failed)
	return e.reportLocked(project, stuck), nil
}

func (e *Engine) reportLocked(project *core.Project, stuck *StuckReport) *FinalReport {
	return &FinalReport{
		ProjectID:   project.ID,
		Description: project.Description,
		Status:      project.Status,
		Counts:      project.Graph.Counts(),
		Iterations:  e.iterations,
		Elapsed:     project.Duration(),
		Outcomes:    buildOutcomes(project.Graph),
		Stuck:       stuck,
	}
}

func (e *Engine) buildStuckReport(project *core.Project) *StuckReport {
	blocked := project.Graph.Blocked()
	suggestion := "No pending task can become ready. Retry or skip the failed " +
		"dependencies listed below, then resume the run."
	return &StuckReport{
		Blocked:    blocked,
		Suggestion: suggestion,
		System:     diagnostics.Collect(),
	}
}

func blockedIDs(blocked []core.BlockedTask) []string {
	ids := make([]string, 0, len(blocked))
	for _, b := range blocked {
		ids = append(ids, string(b.ID))
	}
	return ids
}

// Retry moves a failed task back to ready and resumes a finished project so
// the run loop can pick it up again.
func (e *Engine) Retry(id core.TaskID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	project, err := e.anyProjectLocked()
	if err != nil {
		return err
	}
	if err := project.Graph.Retry(id); err != nil {
		return err
	}
	if project.IsTerminal() {
		if err := project.Resume(); err != nil {
			return err
		}
	}
	task, _ := project.Graph.Task(id)
	e.bus.Publish(events.NewTaskRetryEvent(string(project.ID), string(id), task.Retries))
	return nil
}

// Skip marks a task skipped, satisfying its dependents.
func (e *Engine) Skip(id core.TaskID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	project, err := e.anyProjectLocked()
	if err != nil {
		return err
	}
	if err := project.Graph.Skip(id); err != nil {
		return err
	}
	e.bus.Publish(events.NewTaskSkippedEvent(string(project.ID), string(id)))
	return nil
}

// Resume moves a finished project back to running so the loop can pick up
// tasks unblocked by a skip.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	project, err := e.anyProjectLocked()
	if err != nil {
		return err
	}
	return project.Resume()
}

// Reset discards the current project entirely.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.project = nil
	e.iterations = 0
}

// GetTask returns one task by ID.
func (e *Engine) GetTask(id core.TaskID) (*core.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	project, err := e.anyProjectLocked()
	if err != nil {
		return nil, err
	}
	task, ok := project.Graph.Task(id)
	if !ok {
		return nil, core.ErrNotFound("task", string(id))
	}
	return task, nil
}

// GetAllTasks returns every task in plan order.
func (e *Engine) GetAllTasks() ([]*core.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	project, err := e.anyProjectLocked()
	if err != nil {
		return nil, err
	}
	return project.Graph.Tasks(), nil
}

// ProjectStatus returns the current project status report.
func (e *Engine) ProjectStatus() (core.StatusReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	project, err := e.anyProjectLocked()
	if err != nil {
		return core.StatusReport{}, err
	}
	return project.Report(), nil
}

func (e *Engine) activeRunLocked() (*core.Project, error) {
	if e.project == nil || e.project.Status != core.ProjectStatusRunning {
		return nil, core.ErrState(core.CodeNoActiveRun, "no active run")
	}
	return e.project, nil
}

func (e *Engine) anyProjectLocked() (*core.Project, error) {
	if e.project == nil {
		return nil, core.ErrState(core.CodeNoActiveRun, "no project loaded")
	}
	return e.project, nil
}
