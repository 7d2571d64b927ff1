package extract

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/blockvault/blocksearch/internal/block"
)

// TextExtractor handles plain text files. Heading lines are marked with
// a leading '#'; a document without any markers becomes a single block
// titled with the filename stem.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader, filename string) ([]block.Block, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b builder
	for scanner.Scan() {
		line := scanner.Text()
		if title, ok := headingLine(line); ok {
			b.heading(title)
			continue
		}
		b.line(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", filename, err)
	}

	return b.finish(Stem(filename)), nil
}

// headingLine reports whether a line is a '#'-marked heading and
// returns its text with the markers stripped.
func headingLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimLeft(trimmed, "#")), true
}
