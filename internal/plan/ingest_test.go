package plan

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

func validRecords() []Record {
	return []Record{
		{ID: "t1", Capability: "architect", Description: "design the layout", Phase: "planning"},
		{ID: "t2", Capability: "permitting", Description: "apply for permits", Dependencies: []string{"t1"}, Phase: "permitting"},
		{ID: "t3", Capability: "carpenter", Description: "frame the walls", Dependencies: []string{"t2"}, Phase: "framing"},
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var derr *core.DomainError
	require.True(t, errors.As(err, &derr), "expected DomainError, got %T: %v", err, err)
	assert.Equal(t, core.ErrCatValidation, derr.Category)
	assert.Equal(t, code, derr.Code)
}

func TestIngest_BuildsGraph(t *testing.T) {
	graph, err := Ingest(validRecords())
	require.NoError(t, err)
	require.Equal(t, 3, graph.Len())

	task, ok := graph.Task("t3")
	require.True(t, ok)
	assert.Equal(t, core.TaskStatusPending, task.Status)
	assert.Equal(t, core.CapabilityCarpenter, task.Capability)
	assert.Equal(t, []core.TaskID{"t2"}, task.Dependencies)
}

func TestIngest_NormalizesCapabilityCase(t *testing.T) {
	records := []Record{
		{ID: "t1", Capability: "  Architect ", Description: "design"},
	}
	graph, err := Ingest(records)
	require.NoError(t, err)

	task, ok := graph.Task("t1")
	require.True(t, ok)
	assert.Equal(t, core.CapabilityArchitect, task.Capability)
}

func TestIngest_EmptyPlan(t *testing.T) {
	_, err := Ingest(nil)
	requireCode(t, err, core.CodeNoTaskList)
}

func TestIngest_DuplicateID(t *testing.T) {
	records := validRecords()
	records = append(records, Record{ID: "t1", Capability: "painter", Description: "paint"})
	_, err := Ingest(records)
	requireCode(t, err, core.CodeDuplicateID)
}

func TestIngest_UnknownDependency(t *testing.T) {
	records := validRecords()
	records[2].Dependencies = []string{"t2", "ghost"}
	_, err := Ingest(records)
	requireCode(t, err, core.CodeUnknownDependency)
}

func TestIngest_MissingRequiredFields(t *testing.T) {
	cases := map[string]Record{
		"id":          {Capability: "mason", Description: "pour slab"},
		"capability":  {ID: "t9", Description: "pour slab"},
		"description": {ID: "t9", Capability: "mason"},
	}
	for field, rec := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := Ingest([]Record{rec})
			requireCode(t, err, core.CodeMissingRequiredField)
		})
	}
}

func TestIngest_DescriptionTooLong(t *testing.T) {
	records := []Record{
		{ID: "t1", Capability: "mason", Description: strings.Repeat("x", core.MaxDescriptionLength+1)},
	}
	_, err := Ingest(records)
	requireCode(t, err, core.CodeDescriptionTooLong)
}

func TestIngest_CycleDetected(t *testing.T) {
	records := []Record{
		{ID: "a", Capability: "mason", Description: "a", Dependencies: []string{"b"}},
		{ID: "b", Capability: "mason", Description: "b", Dependencies: []string{"a"}},
	}
	_, err := Ingest(records)
	requireCode(t, err, core.CodeCycleDetected)
}

func TestIngest_SelfDependencyIsCycle(t *testing.T) {
	records := []Record{
		{ID: "a", Capability: "mason", Description: "a", Dependencies: []string{"a"}},
	}
	_, err := Ingest(records)
	requireCode(t, err, core.CodeCycleDetected)
}

func TestIngest_RejectionLeavesNoGraph(t *testing.T) {
	records := validRecords()
	records[2].Dependencies = []string{"ghost"}
	graph, err := Ingest(records)
	require.Error(t, err)
	assert.Nil(t, graph)
}

func TestUnknownPhases(t *testing.T) {
	records := []Record{
		{ID: "t1", Capability: "carpenter", Description: "demo", Phase: "demolition"},
		{ID: "t2", Capability: "carpenter", Description: "more demo", Phase: "demolition"},
		{ID: "t3", Capability: "mason", Description: "slab", Phase: "foundation"},
		{ID: "t4", Capability: "mason", Description: "untagged"},
	}
	assert.Equal(t, []string{"demolition"}, UnknownPhases(records))
}
