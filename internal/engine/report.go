package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
	"github.com/hugo-lorenzo-mato/foreman/internal/diagnostics"
)

// TaskOutcome is one task's final state in a run report.
type TaskOutcome struct {
	ID             core.TaskID     `json:"id"`
	Capability     core.Capability `json:"capability"`
	Phase          core.Phase      `json:"phase"`
	Status         core.TaskStatus `json:"status"`
	Summary        string          `json:"summary,omitempty"`
	FailureReason  string          `json:"failure_reason,omitempty"`
	FailureMessage string          `json:"failure_message,omitempty"`
	Retries        int             `json:"retries,omitempty"`
	Duration       time.Duration   `json:"duration"`
}

// PhaseResult summarizes one dispatch group.
type PhaseResult struct {
	Phase      core.Phase `json:"phase"`
	Dispatched int        `json:"dispatched"`
	Completed  int        `json:"completed"`
	Failed     int        `json:"failed"`
}

// StuckReport explains why a run stopped making progress: the blocked tasks,
// the dependencies each is waiting on, and a host snapshot taken at the time.
type StuckReport struct {
	Blocked    []core.BlockedTask   `json:"blocked"`
	Suggestion string               `json:"suggestion"`
	System     diagnostics.Snapshot `json:"system"`
}

// FinalReport is the outcome of a full run.
type FinalReport struct {
	ProjectID   core.ProjectID     `json:"project_id"`
	Description string             `json:"description"`
	Status      core.ProjectStatus `json:"status"`
	Counts      core.StatusCounts  `json:"counts"`
	Iterations  int                `json:"iterations"`
	Elapsed     time.Duration      `json:"elapsed"`
	Outcomes    []TaskOutcome      `json:"outcomes"`
	Stuck       *StuckReport       `json:"stuck,omitempty"`
}

// RenderMarkdown formats the report for terminal display.
func (r *FinalReport) RenderMarkdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Project Report\n\n")
	fmt.Fprintf(&b, "**%s**\n\n", r.Description)
	fmt.Fprintf(&b, "- Status: **%s**\n", r.Status)
	fmt.Fprintf(&b, "- Tasks: %d total, %d completed, %d failed, %d skipped\n",
		r.Counts.Total, r.Counts.Completed, r.Counts.Failed, r.Counts.Skipped)
	fmt.Fprintf(&b, "- Iterations: %d\n", r.Iterations)
	fmt.Fprintf(&b, "- Elapsed: %s\n\n", r.Elapsed.Round(time.Millisecond))

	b.WriteString("## Tasks\n\n")
	b.WriteString("| ID | Capability | Phase | Status | Detail |\n")
	b.WriteString("|----|-----------|-------|--------|--------|\n")
	for _, o := range r.Outcomes {
		detail := o.Summary
		if o.FailureMessage != "" {
			detail = fmt.Sprintf("%s: %s", o.FailureReason, o.FailureMessage)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			o.ID, o.Capability, o.Phase, o.Status, detail)
	}

	if r.Stuck != nil {
		b.WriteString("\n## Stuck\n\n")
		fmt.Fprintf(&b, "%s\n\n", r.Stuck.Suggestion)
		for _, blocked := range r.Stuck.Blocked {
			fmt.Fprintf(&b, "- `%s` waiting on %v\n", blocked.ID, blocked.MissingDeps)
		}
	}

	return b.String()
}

func buildOutcomes(graph *core.TaskGraph) []TaskOutcome {
	tasks := graph.Tasks()
	outcomes := make([]TaskOutcome, 0, len(tasks))
	for _, task := range tasks {
		outcome := TaskOutcome{
			ID:         task.ID,
			Capability: task.Capability,
			Phase:      task.Phase,
			Status:     task.Status,
			Retries:    task.Retries,
			Duration:   task.Duration(),
		}
		if task.Result != nil {
			outcome.Summary = task.Result.Summary
		}
		if task.Failure != nil {
			outcome.FailureReason = string(task.Failure.Reason)
			outcome.FailureMessage = task.Failure.Message
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
