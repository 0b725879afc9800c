package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

type fakeSource struct {
	failures int
	calls    int
	runIDs   []string
}

func (f *fakeSource) Report(ctx context.Context, runID string, flt shared.FilterSelection) (*models.Report, error) {
	f.calls++
	f.runIDs = append(f.runIDs, runID)
	if f.calls <= f.failures {
		return nil, errors.New("database is locked")
	}
	return &models.Report{
		RunID:   "run-1",
		Brand:   "Nike",
		Summary: models.RunSummary{InScopeResults: 4},
		Insights: []models.Insight{
			{Kind: "visibility", Text: "Nike leads visibility, mentioned in 75% of responses."},
		},
	}, nil
}

func TestRunOnceLogsInsights(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithFormat(logger.INFO, &buf, logger.FormatJSON)

	src := &fakeSource{}
	d := New(src, "latest")

	var got *models.Report
	d.OnReport(func(r *models.Report) { got = r })

	report, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-1", report.RunID)
	assert.Same(t, report, got)
	assert.Equal(t, []string{"latest"}, src.runIDs)
	assert.Contains(t, buf.String(), "Nike leads visibility")
}

func TestRunOnceRetries(t *testing.T) {
	logger.InitWithFormat(logger.ERROR, &bytes.Buffer{}, logger.FormatJSON)

	src := &fakeSource{failures: 2}
	d := New(src, "run-1")
	d.SetRetry(3, time.Millisecond)

	_, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, src.calls)

	src = &fakeSource{failures: 5}
	d = New(src, "run-1")
	d.SetRetry(2, time.Millisecond)
	_, err = d.RunOnce(context.Background())
	assert.ErrorContains(t, err, "digest failed after 2 attempts")
	assert.Equal(t, 2, src.calls)
}

func TestRunOnceCancelled(t *testing.T) {
	logger.InitWithFormat(logger.ERROR, &bytes.Buffer{}, logger.FormatJSON)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(&fakeSource{failures: 5}, "run-1")
	d.SetRetry(3, time.Hour)
	_, err := d.RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStartStop(t *testing.T) {
	logger.InitWithFormat(logger.ERROR, &bytes.Buffer{}, logger.FormatJSON)

	d := New(&fakeSource{}, "latest")
	assert.Error(t, d.Start(context.Background(), "not a cron"))
	assert.False(t, d.Running())

	require.NoError(t, d.Start(context.Background(), "@every 1h"))
	assert.True(t, d.Running())
	assert.Error(t, d.Start(context.Background(), "@every 1h"))

	d.Stop()
	assert.False(t, d.Running())
	d.Stop()
}

type failingSource struct {
	calls atomic.Int32
}

func (f *failingSource) Report(ctx context.Context, runID string, flt shared.FilterSelection) (*models.Report, error) {
	f.calls.Add(1)
	return nil, errors.New("database is locked")
}

func TestStopDuringRetry(t *testing.T) {
	logger.InitWithFormat(logger.ERROR, &bytes.Buffer{}, logger.FormatJSON)

	src := &failingSource{}
	d := New(src, "latest")
	d.SetRetry(3, 3*time.Second)
	require.NoError(t, d.Start(context.Background(), "@every 1s"))

	require.Eventually(t, func() bool { return src.calls.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()

	assert.Eventually(t, func() bool { return !d.Running() }, 500*time.Millisecond, 10*time.Millisecond)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return while the digest was waiting to retry")
	}
	assert.Less(t, src.calls.Load(), int32(3))
}

func TestRestartAfterStop(t *testing.T) {
	logger.InitWithFormat(logger.ERROR, &bytes.Buffer{}, logger.FormatJSON)

	d := New(&fakeSource{}, "latest")
	require.NoError(t, d.Start(context.Background(), "@every 1h"))
	d.Stop()
	require.NoError(t, d.Start(context.Background(), "@every 1h"))
	assert.True(t, d.Running())
	d.Stop()
	assert.False(t, d.Running())
}
