// Package scheduler runs periodic snapshot exports of the inventory.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/crucial707/dosasset/internal/export"
	"github.com/crucial707/dosasset/internal/metrics"
	"github.com/crucial707/dosasset/internal/models"
)

// cronLogger adapts zap to cron.Logger.
type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, kv ...interface{}) { l.s.Debugw("cron: "+msg, kv...) }

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.s.Errorw("cron: "+msg, append(kv, "error", err)...)
}

// Run schedules job on spec (standard five-field cron or @every/@daily
// descriptors) and blocks until ctx is cancelled. Overlapping runs are skipped.
func Run(ctx context.Context, spec string, job func(context.Context), log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	cl := cronLogger{log.Sugar()}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(spec, func() { job(ctx) }); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	log.Info("scheduler started", zap.String("spec", spec))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("scheduler stopped")
	return nil
}

// Snapshot returns a job that writes a timestamped CSV and JSON export of
// assets() through dl, e.g. assets-20260304-050607.json.
func Snapshot(assets func() []models.Asset, dl export.Downloader, now func() time.Time, log *zap.Logger) func(context.Context) {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context) {
		list := assets()
		stamp := now().Format("20060102-150405")
		for _, format := range []string{export.FormatCSV, export.FormatJSON} {
			if ctx.Err() != nil {
				return
			}
			_, content, mime, err := export.Encode(format, list)
			if err != nil {
				log.Error("snapshot encode", zap.String("format", format), zap.Error(err))
				continue
			}
			name := fmt.Sprintf("assets-%s.%s", stamp, format)
			if err := dl.Download(name, content, mime); err != nil {
				log.Error("snapshot write", zap.String("file", name), zap.Error(err))
				continue
			}
			metrics.IncExport(format, "schedule")
			log.Info("snapshot written", zap.String("file", name), zap.Int("assets", len(list)))
		}
	}
}
