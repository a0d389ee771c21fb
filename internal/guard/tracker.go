// Package guard detects runaway worker behavior by tracking the sub-actions a
// worker performs while executing a single task. One tracker serves one task
// attempt; retries start with a fresh tracker.
package guard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

// Limits bounds what a single task attempt may do before it is aborted.
type Limits struct {
	// MaxTotalCalls caps the total number of sub-actions per attempt.
	MaxTotalCalls int
	// MaxIdenticalCalls caps how often the exact same action and parameters
	// may repeat.
	MaxIdenticalCalls int
	// RepeatWindow is the cycle length checked for an A-B-A-B style pattern.
	RepeatWindow int
}

// DefaultLimits returns the standard guard configuration.
func DefaultLimits() Limits {
	return Limits{
		MaxTotalCalls:     20,
		MaxIdenticalCalls: 2,
		RepeatWindow:      3,
	}
}

func (l Limits) normalized() Limits {
	d := DefaultLimits()
	if l.MaxTotalCalls <= 0 {
		l.MaxTotalCalls = d.MaxTotalCalls
	}
	if l.MaxIdenticalCalls <= 0 {
		l.MaxIdenticalCalls = d.MaxIdenticalCalls
	}
	if l.RepeatWindow <= 0 {
		l.RepeatWindow = d.RepeatWindow
	}
	return l
}

// Summary reports what a tracker observed, for failure traces and diagnostics.
type Summary struct {
	TotalCalls  int            `json:"total_calls"`
	UniqueCalls int            `json:"unique_calls"`
	Tripped     bool           `json:"tripped"`
	Reason      string         `json:"reason,omitempty"`
	CallCounts  map[string]int `json:"call_counts"`
	History     []string       `json:"history"`
}

// Tracker watches one task attempt's sub-action stream. Not safe for
// concurrent use; each attempt runs its calls through its own tracker.
type Tracker struct {
	limits  Limits
	history []string
	counts  map[string]int
	tripped bool
	reason  string
}

// NewTracker creates a tracker with the given limits. Non-positive limit
// fields fall back to the defaults.
func NewTracker(limits Limits) *Tracker {
	return &Tracker{
		limits: limits.normalized(),
		counts: make(map[string]int),
	}
}

// Track records one sub-action. It returns a runaway error when the action
// stream crosses a limit, and keeps returning one for every call after the
// trip.
func (t *Tracker) Track(action string, params map[string]any) error {
	if t.tripped {
		return core.ErrRunaway(t.reason)
	}

	sig := signature(action, params)
	t.history = append(t.history, sig)
	t.counts[sig]++

	total := len(t.history)
	if total > t.limits.MaxTotalCalls {
		return t.trip(fmt.Sprintf("exceeded maximum sub-actions (%d)", t.limits.MaxTotalCalls))
	}

	if count := t.counts[sig]; count > t.limits.MaxIdenticalCalls {
		return t.trip(fmt.Sprintf("action %q repeated %d times with identical parameters (max %d)",
			action, count, t.limits.MaxIdenticalCalls))
	}

	// Compare the two halves of the trailing window for a cycling pattern.
	w := t.limits.RepeatWindow
	if total >= 2*w {
		recent := t.history[total-2*w:]
		if equalSeq(recent[:w], recent[w:]) {
			return t.trip(fmt.Sprintf("repeating action pattern detected: %s",
				strings.Join(recent[:w], " -> ")))
		}
	}

	return nil
}

func (t *Tracker) trip(reason string) error {
	t.tripped = true
	t.reason = reason
	return core.ErrRunaway(reason)
}

// Tripped reports whether the guard has aborted this attempt.
func (t *Tracker) Tripped() bool {
	return t.tripped
}

// Reason returns the trip explanation, or "" if the guard has not tripped.
func (t *Tracker) Reason() string {
	return t.reason
}

// Summary snapshots the tracker state.
func (t *Tracker) Summary() Summary {
	counts := make(map[string]int, len(t.counts))
	for sig, n := range t.counts {
		counts[sig] = n
	}
	history := make([]string, len(t.history))
	copy(history, t.history)
	return Summary{
		TotalCalls:  len(t.history),
		UniqueCalls: len(t.counts),
		Tripped:     t.tripped,
		Reason:      t.reason,
		CallCounts:  counts,
		History:     history,
	}
}

func equalSeq(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// signature builds a stable identity for an action and its parameters so that
// identical calls compare equal regardless of map iteration order.
func signature(action string, params map[string]any) string {
	if len(params) == 0 {
		return action
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(action)
	b.WriteByte('(')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%v", k, params[k])
	}
	b.WriteByte(')')
	return b.String()
}
