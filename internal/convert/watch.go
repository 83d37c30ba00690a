package convert

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/bmdcubed/internal/logger"
)

// settle coalesces the burst of events editors emit for one save.
const settle = 100 * time.Millisecond

// Watch calls fn once, then again whenever path is written or recreated,
// until ctx is done. Errors from fn are logged and watching continues.
func Watch(ctx context.Context, path string, fn func() error) error {
	log := logger.Named("watch")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target := filepath.Clean(path)
	// Watch the directory so atomic-rename saves are still seen.
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	run := func() {
		if err := fn(); err != nil {
			log.Error("rebuild failed", zap.String("path", target), zap.Error(err))
		}
	}
	run()

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != target {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				log.Debug("change detected", zap.String("path", target), zap.Stringer("op", e.Op))
				timer.Reset(settle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-timer.C:
			run()
		}
	}
}
