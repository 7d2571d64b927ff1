package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blockvault/blocksearch/internal/block"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor handles PDF files. PDFs carry no heading styles, so each
// page becomes one block titled "Page N".
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(r io.Reader, filename string) ([]block.Block, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "blocksearch-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, &block.ParseError{Path: filename, Offset: -1, Err: err}
	}
	defer f.Close()

	var blocks []block.Block
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		var body []string
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				body = append(body, strings.TrimRight(line, " \t"))
			}
		}
		if len(body) == 0 {
			continue
		}
		blocks = append(blocks, block.Block{
			Title:    fmt.Sprintf("Page %d", i),
			Body:     body,
			Position: len(blocks),
		})
	}

	return blocks, nil
}
