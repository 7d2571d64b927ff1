// Package index builds an in-memory searchable representation of
// extracted blocks and answers keyword queries against it. An Index is
// immutable once built; callers replace it wholesale when documents
// change rather than mutating it in place.
package index

import (
	"strings"

	"github.com/blockvault/blocksearch/internal/block"
)

// Index is a built, read-only search index over a set of documents'
// blocks. Build is idempotent: the same block sequence always yields an
// index producing identical query results.
type Index struct {
	entries []entry
}

// entry pairs a block with its case-folded text, precomputed so
// case-insensitive queries don't refold every block on every search.
type entry struct {
	blk         block.Block
	foldedTitle string
	foldedBody  []string
}

// Build constructs an index over the given documents. A nil or empty
// document set yields a valid empty index.
func Build(docs []*block.Document) *Index {
	ix := &Index{}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, blk := range doc.Blocks {
			e := entry{
				blk:         blk,
				foldedTitle: strings.ToLower(blk.Title),
				foldedBody:  make([]string, len(blk.Body)),
			}
			for i, line := range blk.Body {
				e.foldedBody[i] = strings.ToLower(line)
			}
			ix.entries = append(ix.entries, e)
		}
	}
	return ix
}

// Len returns the number of indexed blocks.
func (ix *Index) Len() int { return len(ix.entries) }
