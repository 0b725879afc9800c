package db

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/models"
)

func TestDecodeSnapshotObject(t *testing.T) {
	body := `{
  "run": {"id": "run-1", "brand": "Nike", "search_type": "brand"},
  "results": [
    {"id": "a", "provider": "openai", "prompt": "p", "cost": 0.01, "brand_mentioned": true},
    {"provider": "ai_overviews", "prompt": "p", "error": "no overview"},
    {"id": "a", "provider": "gemini", "prompt": "p", "cost": 0.02, "error": null}
  ]
}`
	snap, err := DecodeSnapshot(strings.NewReader(body), models.Run{})
	require.NoError(t, err)

	assert.Equal(t, "run-1", snap.Run.ID)
	assert.Equal(t, 3, snap.Run.TotalCalls)
	assert.Equal(t, 2, snap.Run.CompletedCalls)
	assert.InDelta(t, 0.03, snap.Run.TotalCost, 1e-12)
	assert.False(t, snap.Run.CreatedAt.IsZero())

	require.Len(t, snap.Results, 3)
	assert.Equal(t, "a", snap.Results[0].ID)
	assert.True(t, snap.Results[1].Failed())
	_, err = uuid.Parse(snap.Results[1].ID)
	assert.NoError(t, err)
	assert.NotEqual(t, "a", snap.Results[2].ID)
	for i, r := range snap.Results {
		assert.Equal(t, "run-1", r.RunID)
		assert.Equal(t, i, r.Position)
	}
}

func TestDecodeSnapshotArrayUsesFallback(t *testing.T) {
	body := `[{"provider": "openai", "prompt": "best running shoes", "competitors_mentioned": ["Adidas"]}]`
	snap, err := DecodeSnapshot(strings.NewReader(body), models.Run{Brand: "running shoes", SearchType: models.SearchTypeCategory})
	require.NoError(t, err)

	assert.Equal(t, "running shoes", snap.Run.Brand)
	assert.True(t, snap.Run.IsCategory())
	_, err = uuid.Parse(snap.Run.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Adidas"}, snap.Results[0].CompetitorsMentioned)
}

func TestDecodeSnapshotErrors(t *testing.T) {
	for name, body := range map[string]string{
		"empty":    "  ",
		"garbage":  "{not json",
		"no brand": `{"run": {"id": "x"}, "results": []}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshot(strings.NewReader(body), models.Run{})
			assert.Error(t, err)
		})
	}
}
