package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"paperlens/internal/metrics"
)

// UploadSweeper periodically deletes files left in the upload directory,
// such as PDFs that yielded no text.
type UploadSweeper struct {
	dir      string
	schedule string
	maxAge   time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	cron *cron.Cron
}

func NewUploadSweeper(dir, schedule string, maxAge time.Duration, logger *zap.Logger, m *metrics.Metrics) *UploadSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadSweeper{
		dir:      dir,
		schedule: schedule,
		maxAge:   maxAge,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

func (w *UploadSweeper) Start() error {
	if w.cron != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(w.schedule, func() {
		if _, err := w.Sweep(); err != nil {
			w.logger.Warn("upload sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule upload sweep failed: %w", err)
	}
	c.Start()
	w.cron = c

	w.logger.Info("upload sweeper started",
		zap.String("dir", w.dir),
		zap.String("schedule", w.schedule),
		zap.Duration("max_age", w.maxAge),
	)
	return nil
}

// Close waits for a running sweep to finish.
func (w *UploadSweeper) Close() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	w.cron = nil
}

// Sweep removes regular files older than maxAge and returns how many went.
func (w *UploadSweeper) Sweep() (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, fmt.Errorf("read upload dir failed: %w", err)
	}

	cutoff := w.now().Add(-w.maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			w.logger.Warn("remove stale upload failed", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		w.logger.Info("stale uploads removed", zap.Int("count", removed))
	}
	w.metrics.FilesSwept(removed)
	return removed, nil
}
