package extract

import (
	"strings"
	"testing"
)

func TestMarkdownExtractor_HeadingsOpenBlocks(t *testing.T) {
	input := `# Warming Advantage

Emissions rising now.

## Impact

Extinction by 2100.

## Solvency

Plan solves half of emissions.
`
	e := &MarkdownExtractor{}
	blocks, err := e.Extract(strings.NewReader(input), "aff.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	wantTitles := []string{"Warming Advantage", "Impact", "Solvency"}
	for i, want := range wantTitles {
		if blocks[i].Title != want {
			t.Errorf("block %d: expected title %q, got %q", i, want, blocks[i].Title)
		}
		if blocks[i].Position != i {
			t.Errorf("block %d: expected position %d, got %d", i, i, blocks[i].Position)
		}
	}
	if !strings.Contains(blocks[1].BodyText(), "Extinction by 2100.") {
		t.Errorf("impact body missing content: %v", blocks[1].Body)
	}
}

func TestMarkdownExtractor_NoHeadings(t *testing.T) {
	input := "Just a paragraph.\n\nAnd another one.\n"
	e := &MarkdownExtractor{}
	blocks, err := e.Extract(strings.NewReader(input), "loose.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Title != "loose" {
		t.Errorf("expected filename stem title, got %q", blocks[0].Title)
	}
	if len(blocks[0].Body) != 2 {
		t.Errorf("expected 2 body lines, got %v", blocks[0].Body)
	}
}

func TestMarkdownExtractor_ListContentCaptured(t *testing.T) {
	input := "# Frontline\n\n- answer one\n- answer two\n"
	e := &MarkdownExtractor{}
	blocks, err := e.Extract(strings.NewReader(input), "frontline.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	body := blocks[0].BodyText()
	if !strings.Contains(body, "answer one") || !strings.Contains(body, "answer two") {
		t.Errorf("list items missing from body: %q", body)
	}
}

func TestMarkdownExtractor_Empty(t *testing.T) {
	e := &MarkdownExtractor{}
	blocks, err := e.Extract(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 0 {
		t.Errorf("expected 0 blocks, got %d", len(blocks))
	}
}
