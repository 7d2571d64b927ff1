package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/blockvault/blocksearch/internal/block"
	"github.com/blockvault/blocksearch/internal/index"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "politics.json", `[{"title":"Uniqueness","body":["economy strong"]}]`)
	writeFile(t, dir, "warming.txt", "# Impact\nextinction outweighs\n")
	writeFile(t, dir, "ignored.csv", "a,b,c")
	writeFile(t, dir, "broken.json", `[{"title":`)

	lib := New(nil)
	n, err := lib.LoadDir(context.Background(), dir, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Unsupported and malformed files are skipped, not fatal.
	if n != 2 {
		t.Fatalf("expected 2 documents loaded, got %d", n)
	}
	if got := lib.Index().Len(); got != 2 {
		t.Errorf("expected 2 indexed blocks, got %d", got)
	}

	results, err := lib.Search(index.Query{Term: "extinction"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Block.Title != "Impact" {
		t.Fatalf("expected the Impact block, got %d results", len(results))
	}
}

func TestLoadDir_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[{"title":"A","body":[]}]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lib := New(nil)
	if _, err := lib.LoadDir(ctx, dir, 1); err == nil {
		t.Fatal("expected context error")
	}
}

func TestAddAssignsIDAndStampsBlocks(t *testing.T) {
	lib := New(nil)
	doc := &block.Document{
		Name:   "manual",
		Blocks: []block.Block{{Title: "Tag", Position: 0}},
	}
	lib.Add(doc)
	if doc.ID == "" {
		t.Fatal("expected generated document ID")
	}
	if doc.Blocks[0].DocumentID != doc.ID {
		t.Errorf("block not stamped with document ID")
	}

	got, ok := lib.Get(doc.ID)
	if !ok || got.Name != "manual" {
		t.Errorf("document not retrievable by ID")
	}
}

func TestAddReplacesSamePath(t *testing.T) {
	lib := New(nil)
	lib.Add(&block.Document{
		Name: "v1", Path: "/tmp/file.json",
		Blocks: []block.Block{{Title: "Old Tag", Position: 0}},
	})
	lib.Add(&block.Document{
		Name: "v2", Path: "/tmp/file.json",
		Blocks: []block.Block{{Title: "New Tag", Position: 0}},
	})

	docs := lib.List()
	if len(docs) != 1 {
		t.Fatalf("expected 1 document after replace, got %d", len(docs))
	}
	if docs[0].Name != "v2" {
		t.Errorf("expected replacement document, got %q", docs[0].Name)
	}

	results, err := lib.Search(index.Query{Term: "old"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("stale blocks still indexed: %d results", len(results))
	}
}

func TestRemoveReindexes(t *testing.T) {
	lib := New(nil)
	doc := &block.Document{
		Name:   "drop-me",
		Blocks: []block.Block{{Title: "Disposable", Position: 0}},
	}
	lib.Add(doc)

	if !lib.Remove(doc.ID) {
		t.Fatal("expected removal to succeed")
	}
	if lib.Remove(doc.ID) {
		t.Error("second removal should report not found")
	}
	if lib.Index().Len() != 0 {
		t.Errorf("expected empty index after removal, got %d blocks", lib.Index().Len())
	}
}

func TestIndexSnapshotSurvivesReload(t *testing.T) {
	lib := New(nil)
	lib.Add(&block.Document{
		Name:   "first",
		Blocks: []block.Block{{Title: "Alpha", Position: 0}},
	})

	snapshot := lib.Index()
	lib.Add(&block.Document{
		Name:   "second",
		Blocks: []block.Block{{Title: "Beta", Position: 0}},
	})

	// The old snapshot still answers consistently; the new index sees
	// both documents.
	if snapshot.Len() != 1 {
		t.Errorf("snapshot mutated: %d blocks", snapshot.Len())
	}
	if lib.Index().Len() != 2 {
		t.Errorf("expected 2 blocks in current index, got %d", lib.Index().Len())
	}
}
