package library

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blockvault/blocksearch/internal/extract"
)

// Watcher reloads the library when files under its directory change.
// Events are debounced so a burst of writes produces one reload.
type Watcher struct {
	lib      *Library
	dir      string
	debounce time.Duration
	log      *slog.Logger
	fsw      *fsnotify.Watcher

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op
}

// NewWatcher creates a watcher over dir. It watches dir and every
// subdirectory beneath it.
func NewWatcher(lib *Library, dir string, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w := &Watcher{
		lib:      lib,
		dir:      dir,
		debounce: debounce,
		log:      log,
		fsw:      fsw,
		pending:  make(map[string]fsnotify.Op),
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Run processes events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.record(ev) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)

		case <-timer.C:
			w.flush()
		}
	}
}

// record queues an event for the next flush. New directories are added
// to the watch; irrelevant files are ignored.
func (w *Watcher) record(ev fsnotify.Event) bool {
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(ev.Name), ".") {
				w.fsw.Add(ev.Name)
			}
			return false
		}
	}
	if !extract.IsSupportedExtension(ev.Name) {
		return false
	}
	if !ev.Op.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename) {
		return false
	}

	w.pendingMu.Lock()
	w.pending[ev.Name] |= ev.Op
	w.pendingMu.Unlock()
	return true
}

// flush applies all pending changes to the library.
func (w *Watcher) flush() {
	w.pendingMu.Lock()
	pending := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path := range pending {
		// Whatever the event sequence was, the file's current presence
		// on disk decides between reload and removal.
		if _, err := os.Stat(path); err != nil {
			if w.lib.RemovePath(path) {
				w.log.Info("document removed", "path", path)
			}
			continue
		}
		doc, err := w.lib.LoadFile(path)
		if err != nil {
			w.log.Warn("reload failed", "path", path, "error", err)
			continue
		}
		w.log.Info("document reloaded", "path", path, "blocks", len(doc.Blocks))
	}
}
