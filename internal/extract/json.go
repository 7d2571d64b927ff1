package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/blockvault/blocksearch/internal/block"
)

// JSONExtractor handles the converter intermediate format: a JSON array
// of heading/body pairs, `[{"title": string, "body": [string, ...]}]`.
type JSONExtractor struct{}

type jsonBlock struct {
	Title string   `json:"title"`
	Body  []string `json:"body"`
}

func (e *JSONExtractor) Extract(r io.Reader, filename string) ([]block.Block, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	// An empty document is zero blocks, not an error.
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var raw []jsonBlock
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, jsonParseError(filename, err)
	}

	blocks := make([]block.Block, 0, len(raw))
	for i, rb := range raw {
		title := strings.TrimSpace(rb.Title)
		if title == "" {
			return nil, &block.ParseError{
				Path:   filename,
				Offset: -1,
				Err:    fmt.Errorf("block %d: empty title", i),
			}
		}
		var body []string
		for _, line := range rb.Body {
			if strings.TrimSpace(line) != "" {
				body = append(body, line)
			}
		}
		blocks = append(blocks, block.Block{
			Title:    title,
			Body:     body,
			Position: i,
		})
	}
	return blocks, nil
}

// jsonParseError wraps a decoder error in a ParseError carrying the
// offending byte offset when the decoder reports one.
func jsonParseError(path string, err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return &block.ParseError{Path: path, Offset: syn.Offset, Err: err}
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		return &block.ParseError{Path: path, Offset: typ.Offset, Err: err}
	}
	return &block.ParseError{Path: path, Offset: -1, Err: err}
}
