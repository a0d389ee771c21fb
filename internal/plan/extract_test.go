package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

func TestExtract_BareArray(t *testing.T) {
	payload := `[{"id": "t1", "capability": "mason", "description": "pour slab"}]`
	records, err := Extract(payload)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "t1", records[0].ID)
}

func TestExtract_WrappedObject(t *testing.T) {
	payload := `{"tasks": [{"id": "t1", "capability": "mason", "description": "pour slab"}]}`
	records, err := Extract(payload)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestExtract_FencedBlock(t *testing.T) {
	payload := "Here is the construction plan you asked for:\n\n```json\n" +
		`{"tasks": [{"task_id": "t1", "agent": "Architect", "description": "design shed"}]}` +
		"\n```\n\nLet me know if you want changes."
	records, err := Extract(payload)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "t1", records[0].ID)
	assert.Equal(t, "Architect", records[0].Capability)
}

func TestExtract_EmbeddedInProse(t *testing.T) {
	payload := `Sure! The plan is {"tasks": [{"id": "t1", "capability": "roofer", ` +
		`"description": "install shingles", "dependencies": []}]} and it should work.`
	records, err := Extract(payload)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "roofer", records[0].Capability)
}

func TestExtract_AliasFields(t *testing.T) {
	payload := `[{
		"task_id": "t1",
		"agent": "Carpenter",
		"description": "frame walls",
		"dependencies": ["t0"],
		"materials": ["lumber", "nails"],
		"requirements": "use treated lumber"
	}, {
		"id": "t0",
		"capability": "mason",
		"description": "pour slab",
		"requirements": {"area": 120}
	}]`
	records, err := Extract(payload)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "t1", records[0].ID)
	assert.Equal(t, "Carpenter", records[0].Capability)
	assert.Equal(t, []string{"t0"}, records[0].Dependencies)
	assert.Equal(t, []string{"lumber", "nails"}, records[0].Resources)
	assert.Equal(t, map[string]any{"notes": "use treated lumber"}, records[0].Requirements)
	assert.Equal(t, map[string]any{"area": float64(120)}, records[1].Requirements)
}

func TestExtract_Garbage(t *testing.T) {
	_, err := Extract("I could not come up with a plan, sorry.")
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatValidation))
}

func TestExtract_EmptyPayload(t *testing.T) {
	_, err := Extract("   \n\t ")
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatValidation))
}

func TestExtract_JSONWithoutTasks(t *testing.T) {
	_, err := Extract(`{"status": "thinking", "tasks": []}`)
	requireCode(t, err, core.CodeNoTaskList)
}
