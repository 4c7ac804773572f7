package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/gametrans/batchloc/pkg/file"
	"github.com/gametrans/batchloc/pkg/icron"
	"github.com/gametrans/batchloc/pkg/log"
)

// Watcher re-runs the translation pipeline on a cron schedule, picking
// up files modified since the previous trigger. Overlapping triggers
// collapse into one run.
type Watcher struct {
	svc      *Service
	cron     *cron.Cron
	cronExpr string
	group    singleflight.Group

	mu      sync.Mutex
	lastRun time.Time
}

func NewWatcher(svc *Service) *Watcher {
	return &Watcher{
		svc:      svc,
		cron:     cron.New(cron.WithSeconds()),
		cronExpr: svc.cfg.Translate.CronExpr,
	}
}

// Start validates the schedule and begins watching. Returns immediately;
// runs happen on the cron goroutine until Stop.
func (w *Watcher) Start(ctx context.Context) error {
	info, err := icron.GetTriggerInfo(w.cronExpr, time.Now())
	if err != nil {
		return err
	}
	log.Info("watching %s, next run in %v", w.svc.cfg.Batch.InputDir, info.TimeUntilNext.Round(time.Second))

	if _, err := w.cron.AddFunc(w.cronExpr, func() { w.RunOnce(ctx) }); err != nil {
		return err
	}
	w.cron.Start()
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
}

// RunOnce triggers one watch cycle immediately. Concurrent triggers
// share a single run.
func (w *Watcher) RunOnce(ctx context.Context) {
	_, _, _ = w.group.Do("watch-run", func() (any, error) {
		w.cycle(ctx)
		return nil, nil
	})
}

func (w *Watcher) cycle(ctx context.Context) {
	w.mu.Lock()
	cutoff := w.lastRun
	w.lastRun = time.Now()
	w.mu.Unlock()

	root := w.svc.cfg.Batch.InputDir

	// First cycle has no cutoff and translates the whole folder.
	var selected []string
	if !cutoff.IsZero() {
		changed, err := file.FindRecentAfter(root, cutoff)
		if err != nil {
			log.Error("watch scan of %s failed: %v", root, err)
			return
		}
		if len(changed) == 0 {
			log.Debug("no files in %s changed since %v", root, cutoff)
			return
		}
		for _, abs := range changed {
			rel, err := filepath.Rel(root, abs)
			if err != nil {
				continue
			}
			selected = append(selected, rel)
		}
		log.Info("%d files in %s changed since %v", len(selected), root, cutoff)
	}

	res, err := w.svc.TranslateFolder(ctx, selected)
	if err != nil {
		if errors.Is(err, ErrNoFiles) {
			log.Debug("nothing to translate in %s", root)
		} else {
			log.Error("watch translation of %s failed: %v", root, err)
		}
		return
	}
	log.Info("watch run %s: %d ok, %d failed", res.OperationID, res.SuccessCount, res.FailureCount)
}
