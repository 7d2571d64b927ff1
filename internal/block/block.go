package block

import "strings"

// Block is a titled unit of debate evidence extracted from a document.
// Blocks are immutable once extracted.
type Block struct {
	Title      string   `json:"title"`       // Heading text; never empty after extraction.
	Body       []string `json:"body"`        // Ordered body lines; may be empty.
	DocumentID string   `json:"document_id"` // ID of the owning document.
	Position   int      `json:"position"`    // Order within the source document, starting at 0.
}

// BodyText joins the body lines into a single newline-separated string.
func (b Block) BodyText() string {
	return strings.Join(b.Body, "\n")
}

// Document is a single source file reduced to an ordered block sequence.
// A document owns its blocks exclusively.
type Document struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`   // Display name, usually the filename stem.
	Path   string  `json:"path"`   // Source path on disk; empty for uploads.
	Format string  `json:"format"` // File extension including the dot, e.g. ".json".
	Blocks []Block `json:"blocks"`
}
