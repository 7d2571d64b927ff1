// Package split exports a document's blocks as individual files in the
// converter intermediate format, so a single block can be converted or
// shared on its own.
package split

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/blockvault/blocksearch/internal/block"
)

const maxFilenameLen = 240

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespace   = regexp.MustCompile(`\s+`)
	repeatedDots = regexp.MustCompile(`\.+`)
)

// SanitizeFilename turns a block title into a safe filename stem.
func SanitizeFilename(title string) string {
	safe := invalidChars.ReplaceAllString(title, "")
	safe = whitespace.ReplaceAllString(safe, "_")
	safe = repeatedDots.ReplaceAllString(safe, ".")
	if len(safe) > maxFilenameLen {
		safe = safe[:maxFilenameLen]
	}
	safe = strings.Trim(safe, "._")
	if safe == "" {
		safe = "block"
	}
	return safe
}

// ensureUnique appends a counter until the name is unused.
func ensureUnique(name string, used map[string]bool) string {
	candidate := name
	for counter := 1; used[candidate]; counter++ {
		candidate = fmt.Sprintf("%s_%d", name, counter)
	}
	used[candidate] = true
	return candidate
}

// blockJSON renders one block as a single-element intermediate array,
// so split files round-trip through the JSON extractor.
func blockJSON(blk block.Block) ([]byte, error) {
	body := blk.Body
	if body == nil {
		body = []string{}
	}
	out := []map[string]any{{
		"title": blk.Title,
		"body":  body,
	}}
	return json.MarshalIndent(out, "", "  ")
}

// WriteBlocks writes each block of doc to its own .json file under
// outDir, creating the directory if needed. Returns the written
// filenames in block order.
func WriteBlocks(doc *block.Document, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	used := make(map[string]bool)
	names := make([]string, 0, len(doc.Blocks))
	for _, blk := range doc.Blocks {
		name := ensureUnique(SanitizeFilename(blk.Title), used) + ".json"
		data, err := blockJSON(blk)
		if err != nil {
			return names, fmt.Errorf("encode block %q: %w", blk.Title, err)
		}
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0o644); err != nil {
			return names, fmt.Errorf("write %s: %w", name, err)
		}
		names = append(names, name)
	}
	return names, nil
}

// WriteZip writes all blocks of doc as a zip archive of .json files.
func WriteZip(doc *block.Document, w io.Writer) error {
	zw := zip.NewWriter(w)
	used := make(map[string]bool)

	for _, blk := range doc.Blocks {
		name := ensureUnique(SanitizeFilename(blk.Title), used) + ".json"
		data, err := blockJSON(blk)
		if err != nil {
			return fmt.Errorf("encode block %q: %w", blk.Title, err)
		}
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", name, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("zip write %s: %w", name, err)
		}
	}
	return zw.Close()
}
