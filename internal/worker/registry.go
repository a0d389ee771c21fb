package worker

import (
	"sort"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

// Registry maps capabilities to workers. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	workers map[core.Capability]Worker
}

// NewRegistry creates a registry pre-populated with the given workers.
func NewRegistry(workers ...Worker) *Registry {
	r := &Registry{workers: make(map[core.Capability]Worker, len(workers))}
	for _, w := range workers {
		r.Register(w)
	}
	return r
}

// Register adds or replaces the worker for its capability.
func (r *Registry) Register(w Worker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workers[w.Capability()] = w
}

// Resolve returns the worker for a capability. Unknown capabilities come back
// as a capability error, with a fuzzy-matched suggestion when one is close.
func (r *Registry) Resolve(capability core.Capability) (Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if w, ok := r.workers[capability]; ok {
		return w, nil
	}

	err := core.ErrCapabilityNotFound(capability)
	if suggestion := r.closestLocked(capability); suggestion != "" {
		err = err.WithDetail("did_you_mean", suggestion)
	}
	return nil, err
}

func (r *Registry) closestLocked(capability core.Capability) string {
	names := make([]string, 0, len(r.workers))
	for cap := range r.workers {
		names = append(names, string(cap))
	}
	matches := fuzzy.Find(string(capability), names)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// Capabilities returns the registered capability names, sorted.
func (r *Registry) Capabilities() []core.Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps := make([]core.Capability, 0, len(r.workers))
	for cap := range r.workers {
		caps = append(caps, cap)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

// Validate returns the distinct capabilities in the graph that no worker
// covers. Callers use this to warn before a run; execution still proceeds and
// fails the affected tasks individually.
func (r *Registry) Validate(graph *core.TaskGraph) []core.Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[core.Capability]bool)
	var missing []core.Capability
	for _, task := range graph.Tasks() {
		if _, ok := r.workers[task.Capability]; ok || seen[task.Capability] {
			continue
		}
		seen[task.Capability] = true
		missing = append(missing, task.Capability)
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}
