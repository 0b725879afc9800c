package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/AI2HU/geolens/internal/curation"
	"github.com/AI2HU/geolens/internal/db"
	"github.com/AI2HU/geolens/internal/export"
	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/metrics"
	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// LatestRunID selects the most recent run wherever a run ID is accepted
const LatestRunID = "latest"

// MetricsService loads result snapshots from the store and runs them through the engine
type MetricsService struct {
	store          db.ResultStore
	engine         *metrics.Engine
	curator        *curation.Curator
	quotesPerBrand int
}

// NewMetricsService creates a new metrics service. curator may be nil when quote
// curation is not configured.
func NewMetricsService(store db.ResultStore, engine *metrics.Engine, curator *curation.Curator, quotesPerBrand int) *MetricsService {
	if engine == nil {
		engine = metrics.NewDefault()
	}
	if quotesPerBrand <= 0 {
		quotesPerBrand = 8
	}
	return &MetricsService{
		store:          store,
		engine:         engine,
		curator:        curator,
		quotesPerBrand: quotesPerBrand,
	}
}

// RunOverview is a run descriptor with its dimension values
type RunOverview struct {
	Run       *models.Run `json:"run"`
	Results   int         `json:"results"`
	Providers []string    `json:"providers"`
	Prompts   []string    `json:"prompts"`
}

// GetRun resolves a run ID, accepting "latest" or an empty ID for the newest run
func (s *MetricsService) GetRun(ctx context.Context, runID string) (*models.Run, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" || runID == LatestRunID {
		return s.store.LatestRun(ctx)
	}
	return s.store.GetRun(ctx, runID)
}

// Snapshot loads a run and its results
func (s *MetricsService) Snapshot(ctx context.Context, runID string) (*models.Run, []models.Result, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, nil, err
	}

	results, err := s.store.ListResults(ctx, run.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load results: %w", err)
	}
	return run, results, nil
}

// ListRuns lists stored runs, newest first
func (s *MetricsService) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	return s.store.ListRuns(ctx, limit)
}

// Overview returns a run with its provider and prompt dimensions
func (s *MetricsService) Overview(ctx context.Context, runID string) (*RunOverview, error) {
	run, results, err := s.Snapshot(ctx, runID)
	if err != nil {
		return nil, err
	}
	providers, prompts := metrics.Dimensions(results)
	return &RunOverview{
		Run:       run,
		Results:   len(results),
		Providers: providers,
		Prompts:   prompts,
	}, nil
}

// Report recomputes every metric for a run under the given filters
func (s *MetricsService) Report(ctx context.Context, runID string, f shared.FilterSelection) (*models.Report, error) {
	run, results, err := s.Snapshot(ctx, runID)
	if err != nil {
		return nil, err
	}

	report := s.engine.Compute(*run, results, f)
	logger.Debug("Computed report for run %s: %d of %d results in scope", run.ID, report.Summary.InScopeResults, len(results))
	return report, nil
}

// Export writes the CSV export of a run and returns the number of data rows
func (s *MetricsService) Export(ctx context.Context, runID string, w io.Writer) (int, error) {
	run, results, err := s.Snapshot(ctx, runID)
	if err != nil {
		return 0, err
	}

	n, err := export.WriteCSV(w, *run, results)
	if err != nil {
		return n, fmt.Errorf("failed to write CSV: %w", err)
	}
	return n, nil
}

// Search returns a run's results whose text contains keyword
func (s *MetricsService) Search(ctx context.Context, runID, keyword string, limit int) ([]models.Result, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("keyword is required")
	}
	return s.store.SearchResults(ctx, run.ID, keyword, limit)
}

// CurationEnabled reports whether a curator is configured
func (s *MetricsService) CurationEnabled() bool {
	return s.curator != nil
}

// Candidates collects quote candidates for a run
func (s *MetricsService) Candidates(ctx context.Context, runID string, f shared.FilterSelection) (map[string][]curation.Quote, error) {
	run, results, err := s.Snapshot(ctx, runID)
	if err != nil {
		return nil, err
	}
	return curation.CollectCandidates(*run, results, f, s.quotesPerBrand), nil
}

// Quotes collects candidates from a run and curates them
func (s *MetricsService) Quotes(ctx context.Context, runID string, f shared.FilterSelection) (*curation.Result, error) {
	candidates, err := s.Candidates(ctx, runID, f)
	if err != nil {
		return nil, err
	}
	return s.Curate(ctx, candidates)
}

// Curate runs the curator on caller-provided candidates
func (s *MetricsService) Curate(ctx context.Context, candidates map[string][]curation.Quote) (*curation.Result, error) {
	if s.curator == nil {
		return nil, fmt.Errorf("quote curation is not configured")
	}
	return s.curator.Curate(ctx, candidates)
}

// Import stores a snapshot read from r; fallback supplies run fields missing from the file
func (s *MetricsService) Import(ctx context.Context, r io.Reader, fallback models.Run) (*db.Snapshot, error) {
	snap, err := db.DecodeSnapshot(r, fallback)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveRun(ctx, &snap.Run, snap.Results); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("Imported run %s (%s) with %d results", snap.Run.ID, snap.Run.Brand, len(snap.Results))
	return snap, nil
}

// DeleteRun removes a run and its results
func (s *MetricsService) DeleteRun(ctx context.Context, runID string) error {
	return s.store.DeleteRun(ctx, runID)
}

// Ping checks the store connection
func (s *MetricsService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
