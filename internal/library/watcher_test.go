package library

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blockvault/blocksearch/internal/index"
)

func newTestWatcher(t *testing.T, lib *Library, dir string) *Watcher {
	t.Helper()
	w, err := NewWatcher(lib, dir, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	return w
}

func searchCount(t *testing.T, lib *Library, term string) int {
	t.Helper()
	results, err := lib.Search(index.Query{Term: term})
	if err != nil {
		t.Fatalf("search %q: %v", term, err)
	}
	return len(results)
}

// waitFor polls cond until it holds or the timeout passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestWatcherFlush_ReloadsCreatedFile(t *testing.T) {
	dir := t.TempDir()
	lib := New(nil)
	w := newTestWatcher(t, lib, dir)
	defer w.fsw.Close()

	path := writeFile(t, dir, "politics.json", `[{"title":"Uniqueness","body":["economy strong"]}]`)
	w.pending[path] = fsnotify.Create
	w.flush()

	if got := searchCount(t, lib, "uniqueness"); got != 1 {
		t.Fatalf("expected 1 result after flush, got %d", got)
	}
}

func TestWatcherFlush_ReplacesChangedFile(t *testing.T) {
	dir := t.TempDir()
	lib := New(nil)
	w := newTestWatcher(t, lib, dir)
	defer w.fsw.Close()

	path := writeFile(t, dir, "case.json", `[{"title":"Old Tag","body":[]}]`)
	if _, err := lib.LoadFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	writeFile(t, dir, "case.json", `[{"title":"New Tag","body":[]}]`)
	w.pending[path] = fsnotify.Write
	w.flush()

	if got := searchCount(t, lib, "old"); got != 0 {
		t.Errorf("stale blocks still indexed: %d results", got)
	}
	if got := searchCount(t, lib, "new"); got != 1 {
		t.Errorf("expected reloaded block, got %d results", got)
	}
	if docs := lib.List(); len(docs) != 1 {
		t.Errorf("expected 1 document after reload, got %d", len(docs))
	}
}

func TestWatcherFlush_RemovesDeletedFile(t *testing.T) {
	dir := t.TempDir()
	lib := New(nil)
	w := newTestWatcher(t, lib, dir)
	defer w.fsw.Close()

	path := writeFile(t, dir, "drop.json", `[{"title":"Disposable","body":[]}]`)
	if _, err := lib.LoadFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	w.pending[path] = fsnotify.Remove
	w.flush()

	if got := searchCount(t, lib, "disposable"); got != 0 {
		t.Errorf("expected removal from index, got %d results", got)
	}
	if lib.Index().Len() != 0 {
		t.Errorf("expected empty index, got %d blocks", lib.Index().Len())
	}
}

func TestWatcherFlush_BrokenFileKeepsPreviousVersion(t *testing.T) {
	dir := t.TempDir()
	lib := New(nil)
	w := newTestWatcher(t, lib, dir)
	defer w.fsw.Close()

	path := writeFile(t, dir, "case.json", `[{"title":"Good Tag","body":[]}]`)
	if _, err := lib.LoadFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	writeFile(t, dir, "case.json", `[{"title":`)
	w.pending[path] = fsnotify.Write
	w.flush()

	// The reload fails and is logged; the previously loaded version
	// stays searchable.
	if got := searchCount(t, lib, "good"); got != 1 {
		t.Errorf("expected previous version to survive, got %d results", got)
	}
}

func TestWatcherRecord_FiltersEvents(t *testing.T) {
	dir := t.TempDir()
	lib := New(nil)
	w := newTestWatcher(t, lib, dir)
	defer w.fsw.Close()

	if w.record(fsnotify.Event{Name: dir + "/notes.csv", Op: fsnotify.Write}) {
		t.Error("unsupported extension should not queue")
	}
	if w.record(fsnotify.Event{Name: dir + "/evidence.json", Op: fsnotify.Chmod}) {
		t.Error("chmod-only events should not queue")
	}
	if !w.record(fsnotify.Event{Name: dir + "/evidence.json", Op: fsnotify.Write}) {
		t.Error("supported write should queue")
	}
	if len(w.pending) != 1 {
		t.Errorf("expected 1 pending path, got %d", len(w.pending))
	}
}

func TestWatcherRun_DebouncedReload(t *testing.T) {
	dir := t.TempDir()
	lib := New(nil)
	w := newTestWatcher(t, lib, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	path := writeFile(t, dir, "warming.json", `[{"title":"Impact","body":["extinction outweighs"]}]`)
	waitFor(t, 3*time.Second, func() bool {
		return searchCount(t, lib, "extinction") == 1
	})

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	waitFor(t, 3*time.Second, func() bool {
		return searchCount(t, lib, "extinction") == 0
	})
}
