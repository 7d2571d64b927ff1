package extract

import (
	"strings"

	"github.com/blockvault/blocksearch/internal/block"
)

// builder accumulates blocks while an extractor walks its input.
// Text seen before the first heading is held as a preamble and emitted
// as a leading block titled with the filename stem.
type builder struct {
	blocks   []block.Block
	preamble []string
	title    string
	body     []string
	open     bool
}

// heading closes the current block and opens a new one. Headings with
// empty text are skipped entirely, matching how empty heading
// paragraphs are discarded during splitting.
func (b *builder) heading(title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	b.flush()
	b.title = title
	b.open = true
}

// line appends a body line to the current block, or to the preamble if
// no heading has been seen yet. Blank lines are dropped.
func (b *builder) line(text string) {
	text = strings.TrimRight(text, " \t")
	if strings.TrimSpace(text) == "" {
		return
	}
	if !b.open {
		b.preamble = append(b.preamble, text)
		return
	}
	b.body = append(b.body, text)
}

// text appends multi-line content, one body line per input line.
func (b *builder) text(s string) {
	for _, line := range strings.Split(s, "\n") {
		b.line(line)
	}
}

func (b *builder) flush() {
	if !b.open {
		return
	}
	b.blocks = append(b.blocks, block.Block{
		Title:    b.title,
		Body:     b.body,
		Position: len(b.blocks),
	})
	b.title = ""
	b.body = nil
	b.open = false
}

// finish closes any open block and returns the final sequence. If no
// headings were detected but content exists, the whole document becomes
// a single block titled fallbackTitle. A document with headings but
// also preamble content gets the preamble as a leading block, so no
// text is silently dropped.
func (b *builder) finish(fallbackTitle string) []block.Block {
	b.flush()
	if len(b.preamble) > 0 {
		lead := block.Block{Title: fallbackTitle, Body: b.preamble}
		b.blocks = append([]block.Block{lead}, b.blocks...)
		for i := range b.blocks {
			b.blocks[i].Position = i
		}
	}
	return b.blocks
}
