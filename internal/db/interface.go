package db

import (
	"context"

	"github.com/AI2HU/geolens/internal/models"
)

// ResultStore persists run descriptors and their result snapshots.
// The metrics engine reads snapshots from it and never writes computed metrics back.
type ResultStore interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// SaveRun replaces a run and its whole result snapshot
	SaveRun(ctx context.Context, run *models.Run, results []models.Result) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
	// LatestRun returns the most recently created run
	LatestRun(ctx context.Context) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*models.Run, error)
	// ListResults returns a run's results in their original order
	ListResults(ctx context.Context, runID string) ([]models.Result, error)
	// SearchResults finds a run's results whose response text contains keyword, case-insensitively
	SearchResults(ctx context.Context, runID, keyword string, limit int) ([]models.Result, error)
	DeleteRun(ctx context.Context, id string) error
}
