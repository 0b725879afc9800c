package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// Retry configuration constants
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 30 * time.Second
)

// ReportSource computes a report for a run; "latest" selects the newest run
type ReportSource interface {
	Report(ctx context.Context, runID string, f shared.FilterSelection) (*models.Report, error)
}

// Digest recomputes the latest run's report on a cron schedule and logs its insights
type Digest struct {
	source     ReportSource
	runID      string
	cron       *cron.Cron
	running    bool
	maxRetries int
	retryDelay time.Duration
	onReport   func(*models.Report)
	cancel     context.CancelFunc
	mu         sync.RWMutex
}

// New creates a digest over the given run ("latest" follows new imports)
func New(source ReportSource, runID string) *Digest {
	return &Digest{
		source:     source,
		runID:      runID,
		cron:       cron.New(),
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
}

// SetRetry overrides the retry policy
func (d *Digest) SetRetry(maxRetries int, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if maxRetries < 1 {
		maxRetries = 1
	}
	d.maxRetries = maxRetries
	d.retryDelay = delay
}

// OnReport registers a callback invoked after every successful digest
func (d *Digest) OnReport(fn func(*models.Report)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onReport = fn
}

// Start registers the cron expression and starts the scheduler
func (d *Digest) Start(ctx context.Context, cronExpr string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("scheduler already running")
	}

	jobCtx, cancel := context.WithCancel(ctx)
	c := cron.New()
	_, err := c.AddFunc(cronExpr, func() {
		if _, err := d.RunOnce(jobCtx); err != nil {
			logger.Error("Digest failed: %v", err)
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	d.cron = c
	d.cancel = cancel
	d.cron.Start()
	d.running = true

	logger.Info("Digest scheduled with cron expression: %s", cronExpr)
	return nil
}

// Stop stops the scheduler, cancels a digest in its retry loop and waits for it to return.
// The lock is released before waiting so RunOnce and Running never block on Stop.
func (d *Digest) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.cancel()
	stopped := d.cron.Stop()
	d.mu.Unlock()

	<-stopped.Done()
	logger.Info("Scheduler stopped")
}

// Running reports whether the scheduler is active
func (d *Digest) Running() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.running
}

// RunOnce computes the unfiltered report, retrying store failures, and logs its insights
func (d *Digest) RunOnce(ctx context.Context) (*models.Report, error) {
	d.mu.RLock()
	maxRetries, retryDelay, onReport := d.maxRetries, d.retryDelay, d.onReport
	d.mu.RUnlock()

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		report, err := d.source.Report(ctx, d.runID, shared.NoFilters())
		if err == nil {
			logDigest(report)
			if onReport != nil {
				onReport(report)
			}
			return report, nil
		}
		lastErr = err
		logger.Warning("Digest attempt %d/%d failed: %v", attempt, maxRetries, err)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}

	return nil, fmt.Errorf("digest failed after %d attempts: %w", maxRetries, lastErr)
}

func logDigest(r *models.Report) {
	logger.Info("Digest for run %s (%s): %d in-scope results, %d errors",
		r.RunID, r.Brand, r.Summary.InScopeResults, r.Summary.ErrorResults)
	if len(r.Insights) == 0 {
		logger.Info("No insights for run %s", r.RunID)
		return
	}
	for i, insight := range r.Insights {
		logger.Info("Insight %d [%s]: %s", i+1, insight.Kind, insight.Text)
	}
}
