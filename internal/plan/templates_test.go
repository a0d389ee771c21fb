package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
)

func TestTemplates_AllIngestCleanly(t *testing.T) {
	for _, name := range TemplateNames() {
		t.Run(name, func(t *testing.T) {
			records, err := Template(name, DefaultParams())
			require.NoError(t, err)
			require.NotEmpty(t, records)

			graph, err := Ingest(records)
			require.NoError(t, err)
			assert.Equal(t, len(records), graph.Len())
		})
	}
}

func TestTemplate_Unknown(t *testing.T) {
	_, err := Template("treehouse", DefaultParams())
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatNotFound))
}

func TestTemplate_ShedFeatureFlags(t *testing.T) {
	full, err := Template("shed_construction", Params{HasFoundation: true, HasElectrical: true})
	require.NoError(t, err)

	bare, err := Template("shed_construction", Params{})
	require.NoError(t, err)

	// Foundation and electrical each add one task.
	assert.Equal(t, len(bare)+2, len(full))

	// Without a foundation, framing hangs directly off planning.
	framing := bare[1]
	assert.Equal(t, "carpenter", framing.Capability)
	assert.Equal(t, []string{bare[0].ID}, framing.Dependencies)

	for _, records := range [][]Record{full, bare} {
		_, err := Ingest(records)
		require.NoError(t, err)
	}
}

func TestTemplate_ShedDimensionsFlowIntoPlan(t *testing.T) {
	records, err := Template("shed_construction", Params{Width: 8, Length: 10, HasFoundation: true})
	require.NoError(t, err)

	assert.Contains(t, records[0].Description, "8x10 ft")
	assert.Equal(t, map[string]any{"width": 8, "length": 10}, records[0].Requirements)
	assert.Equal(t, map[string]any{"area": 80}, records[1].Requirements)
}

func TestTemplate_KitchenKeepsDemolitionPhase(t *testing.T) {
	records, err := Template("kitchen_remodel", DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, []string{"demolition"}, UnknownPhases(records))
}
