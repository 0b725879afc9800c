//go:build integration

package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/models"
)

func newTestStore(t *testing.T) *MongoDB {
	t.Helper()
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := New(&models.Config{
		Provider: "mongodb",
		URI:      uri,
		Database: fmt.Sprintf("geolens_test_%d", time.Now().UnixNano()),
	})
	require.NoError(t, err)
	require.NoError(t, store.Connect(ctx))

	t.Cleanup(func() {
		ctx := context.Background()
		store.GetDatabase().Drop(ctx)
		store.Disconnect(ctx)
	})
	return store
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	run := &models.Run{ID: "run-1", Brand: "Nike", SearchType: models.SearchTypeBrand, CreatedAt: created}
	results := []models.Result{
		{
			ID: "r1", Provider: "openai", Prompt: "best running shoes",
			ResponseText:         "Nike and Adidas lead.",
			BrandMentioned:       true,
			BrandSentiment:       "positive_endorsement",
			CompetitorsMentioned: []string{"Adidas"},
			CompetitorSentiments: map[string]string{"Adidas": "neutral_mention"},
			Sources:              []models.Source{{URL: "https://www.runnersworld.com/a"}},
		},
		{ID: "r2", Provider: "ai_overviews", Prompt: "best running shoes", Error: true},
	}
	require.NoError(t, store.SaveRun(ctx, run, results))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Nike", got.Brand)
	assert.True(t, got.CreatedAt.Equal(created))

	loaded, err := store.ListResults(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "r1", loaded[0].ID)
	assert.Equal(t, []string{"Adidas"}, loaded[0].CompetitorsMentioned)
	assert.True(t, loaded[1].Failed())

	found, err := store.SearchResults(ctx, "run-1", "adidas", 0)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	latest, err := store.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", latest.ID)

	require.NoError(t, store.DeleteRun(ctx, "run-1"))
	_, err = store.GetRun(ctx, "run-1")
	assert.EqualError(t, err, "run not found: run-1")
}
