package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/models"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	store, err := New(&models.Config{Provider: "sqlite", URI: filepath.Join(t.TempDir(), "data", "geolens.db")})
	require.NoError(t, err)
	require.NoError(t, store.Connect(context.Background()))
	t.Cleanup(func() { store.Disconnect(context.Background()) })
	return store
}

func sampleRun(id string, created time.Time) (*models.Run, []models.Result) {
	run := &models.Run{
		ID:             id,
		Brand:          "Nike",
		SearchType:     models.SearchTypeBrand,
		TotalCost:      0.42,
		TotalCalls:     2,
		CompletedCalls: 1,
		CreatedAt:      created,
	}
	results := []models.Result{
		{
			ID:                   "r1",
			Provider:             "openai",
			Prompt:               "best running shoes",
			Temperature:          0.7,
			Model:                "gpt-4o",
			ResponseText:         "Nike and Adidas lead.",
			Tokens:               120,
			Cost:                 0.02,
			ResponseType:         "list",
			BrandMentioned:       true,
			BrandSentiment:       "positive_endorsement",
			CompetitorsMentioned: []string{"Adidas"},
			AllBrandsMentioned:   []string{"Nike", "Adidas"},
			CompetitorSentiments: map[string]string{"Adidas": "neutral_mention"},
			Sources:              []models.Source{{URL: "https://www.runnersworld.com/a", Title: "Guide"}},
			GroundingMetadata: &models.GroundingMetadata{Supports: []models.GroundingSupport{
				{Segment: models.Segment{StartIndex: 0, EndIndex: 4, Text: "Nike"}, ConfidenceScores: []float64{0.9}},
			}},
		},
		{
			ID:       "r2",
			Provider: "ai_overviews",
			Prompt:   "best running shoes",
			Error:    true,
		},
	}
	return run, results
}

func TestMigrationsApplied(t *testing.T) {
	store := newTestStore(t)

	version, dirty, err := SchemaVersion(store.DB())
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)

	// reconnecting is a no-op migration
	require.NoError(t, RunMigrations(store.DB()))
}

func TestSaveAndLoadRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	run, results := sampleRun("run-1", created)
	require.NoError(t, store.SaveRun(ctx, run, results))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Nike", got.Brand)
	assert.Equal(t, 0.42, got.TotalCost)
	assert.True(t, got.CreatedAt.Equal(created))

	loaded, err := store.ListResults(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	want := results[0]
	want.RunID = "run-1"
	assert.Equal(t, want, loaded[0])

	assert.Equal(t, "r2", loaded[1].ID)
	assert.Equal(t, 1, loaded[1].Position)
	assert.True(t, loaded[1].Failed())
	assert.Nil(t, loaded[1].CompetitorsMentioned)
	assert.Nil(t, loaded[1].GroundingMetadata)
}

func TestSaveRunReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	run, results := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, store.SaveRun(ctx, run, results))
	require.NoError(t, store.SaveRun(ctx, run, results[:1]))

	loaded, err := store.ListResults(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestListRunsAndLatest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.LatestRun(ctx)
	assert.Error(t, err)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new", "mid"} {
		offset := map[int]time.Duration{0: 0, 1: 48 * time.Hour, 2: 24 * time.Hour}[i]
		run, _ := sampleRun(id, base.Add(offset))
		require.NoError(t, store.SaveRun(ctx, run, nil))
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})

	limited, err := store.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	latest, err := store.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", latest.ID)
}

func TestDeleteRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	run, results := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, store.SaveRun(ctx, run, results))
	require.NoError(t, store.DeleteRun(ctx, "run-1"))

	_, err := store.GetRun(ctx, "run-1")
	assert.EqualError(t, err, "run not found: run-1")

	loaded, err := store.ListResults(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, loaded)

	assert.Error(t, store.DeleteRun(ctx, "run-1"))
}

func TestPingBeforeConnect(t *testing.T) {
	store, err := New(&models.Config{URI: "unused.db"})
	require.NoError(t, err)
	assert.Error(t, store.Ping(context.Background()))
}

func TestSearchResults(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	run, results := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, store.SaveRun(ctx, run, results))

	found, err := store.SearchResults(ctx, "run-1", "ADIDAS", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "r1", found[0].ID)

	none, err := store.SearchResults(ctx, "run-1", "puma", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
