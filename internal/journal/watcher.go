package journal

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after the repository reloads because the journal
// data file changed on disk outside this process.
type EventCallback func()

// Watch starts an fsnotify watcher on the journal data file's directory and
// processes change events until ctx is cancelled. It calls cb (if non-nil)
// after each reload that replaced the in-memory collection.
//
// The repository's own atomic writes land as rename events on the same
// path; Reload compares the on-disk checksum against the last snapshot this
// process wrote, so self-inflicted events are skipped. Events are debounced
// so an editor's write burst triggers a single reload.
func Watch(ctx context.Context, repo *Repository, dataPath string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(dataPath)
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", dataPath))

	// reloadTimer debounces bursts of writes to the data file.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			if repo.Reload() {
				logger.Info("watcher: journal reloaded from disk")
				if cb != nil {
					cb()
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != dataPath {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
