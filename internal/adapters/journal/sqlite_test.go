package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/foreman/internal/events"
)

func openTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_RecordAndQuery(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.Record(events.NewTaskStartedEvent("p1", "t1", "mason", "foundation", 1)))
	require.NoError(t, j.Record(events.NewTaskCompletedEvent("p1", "t1", "mason", "slab poured", 1200)))
	require.NoError(t, j.Record(events.NewTaskStartedEvent("p2", "t9", "painter", "finishing", 1)))

	entries, err := j.Events("p1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, events.TypeTaskStarted, entries[0].Type)
	assert.Equal(t, events.TypeTaskCompleted, entries[1].Type)
	assert.Contains(t, string(entries[1].Payload), "slab poured")
}

func TestJournal_AttachConsumesBus(t *testing.T) {
	j := openTestJournal(t)

	bus := events.New(16)
	j.Attach(bus)

	bus.Publish(events.NewPlanValidatedEvent("p1", 3, nil, nil))
	bus.PublishPriority(events.NewProjectCompleteEvent("p1", "completed", 3, 0, 0))
	bus.Close()

	// Close waits for the consumer goroutine to drain.
	require.NoError(t, j.Close())
}

func TestJournal_AttachPersistsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)

	bus := events.New(16)
	j.Attach(bus)
	bus.Publish(events.NewTaskFailedEvent("p1", "t1", "timeout", "deadline exceeded"))
	bus.Close()
	require.NoError(t, j.Close())

	j2, err := Open(path)
	require.NoError(t, err)
	defer j2.Close()

	entries, err := j2.Events("p1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, events.TypeTaskFailed, entries[0].Type)
}

func TestJournal_EmptyProject(t *testing.T) {
	j := openTestJournal(t)

	entries, err := j.Events("missing")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
