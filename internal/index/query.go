package index

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/blockvault/blocksearch/internal/block"
)

// Query is a single search request. The term is split on whitespace
// into words; every word must appear in a block for it to match.
type Query struct {
	Term          string
	CaseSensitive bool
	WholeWord     bool
	Scope         string // Restrict to one document ID; empty searches all.
}

// Span locates one match inside a block's text.
type Span struct {
	Field string `json:"field"` // "title" or "body".
	Line  int    `json:"line"`  // Body line number; 0 for title.
	Start int    `json:"start"` // Byte offset into the line.
	End   int    `json:"end"`
}

// Result is one matched block with its relevance score and spans.
type Result struct {
	Block block.Block `json:"block"`
	Score int         `json:"score"`
	Spans []Span      `json:"spans"`
}

// Search answers a query against the index. Results are ordered by
// score descending, then source position ascending, then title matches
// before body-only matches. An empty index yields an empty result
// slice; an empty term is an InvalidQueryError.
func (ix *Index) Search(q Query) ([]Result, error) {
	words := strings.Fields(q.Term)
	if len(words) == 0 {
		return nil, &block.InvalidQueryError{Reason: "empty search term"}
	}
	if !q.CaseSensitive {
		for i, w := range words {
			words[i] = strings.ToLower(w)
		}
	}
	// A repeated word must not double a block's score or its spans.
	words = dedupe(words)

	results := []Result{}
	for _, e := range ix.entries {
		if q.Scope != "" && e.blk.DocumentID != q.Scope {
			continue
		}
		res, ok := matchEntry(e, words, q)
		if ok {
			results = append(results, res)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Block.Position != b.Block.Position {
			return a.Block.Position < b.Block.Position
		}
		return titleMatched(a) && !titleMatched(b)
	})

	return results, nil
}

// matchEntry checks one block against all query words. Every word must
// occur at least once; the score is the total occurrence count.
func matchEntry(e entry, words []string, q Query) (Result, bool) {
	title := e.blk.Title
	body := e.blk.Body
	if !q.CaseSensitive {
		title = e.foldedTitle
		body = e.foldedBody
	}

	var spans []Span
	score := 0
	for _, word := range words {
		found := 0

		for _, s := range findAll(title, word, q.WholeWord) {
			start, end := s[0], s[1]
			if !q.CaseSensitive {
				start, end = spanInOriginal(e.blk.Title, start, end)
			}
			spans = append(spans, Span{Field: "title", Start: start, End: end})
			found++
		}
		for line, text := range body {
			for _, s := range findAll(text, word, q.WholeWord) {
				start, end := s[0], s[1]
				if !q.CaseSensitive {
					start, end = spanInOriginal(e.blk.Body[line], start, end)
				}
				spans = append(spans, Span{Field: "body", Line: line, Start: start, End: end})
				found++
			}
		}

		if found == 0 {
			return Result{}, false
		}
		score += found
	}

	return Result{Block: e.blk, Score: score, Spans: spans}, true
}

// spanInOriginal maps a byte span on the case-folded form of orig back
// onto orig itself. Folding maps rune to rune but can change a rune's
// byte length (U+0130 shrinks, U+212A grows), so the two strings are
// walked in parallel rune by rune.
func spanInOriginal(orig string, start, end int) (int, int) {
	oi, fi := 0, 0
	for oi < len(orig) && fi < start {
		r, size := utf8.DecodeRuneInString(orig[oi:])
		fi += utf8.RuneLen(unicode.ToLower(r))
		oi += size
	}
	oStart := oi
	for oi < len(orig) && fi < end {
		r, size := utf8.DecodeRuneInString(orig[oi:])
		fi += utf8.RuneLen(unicode.ToLower(r))
		oi += size
	}
	return oStart, oi
}

// dedupe drops repeated words, keeping first-seen order.
func dedupe(words []string) []string {
	if len(words) < 2 {
		return words
	}
	seen := make(map[string]bool, len(words))
	out := words[:0]
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

// findAll returns the non-overlapping occurrences of needle in haystack
// as [start, end) byte offset pairs.
func findAll(haystack, needle string, wholeWord bool) [][2]int {
	if needle == "" {
		return nil
	}
	var out [][2]int
	for off := 0; ; {
		i := strings.Index(haystack[off:], needle)
		if i < 0 {
			break
		}
		start := off + i
		end := start + len(needle)
		off = end
		if wholeWord && !wordBounded(haystack, start, end) {
			continue
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// wordBounded reports whether haystack[start:end] is delimited by
// non-word runes or the string edges on both sides.
func wordBounded(haystack string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(haystack[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(haystack) {
		r, _ := utf8.DecodeRuneInString(haystack[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func titleMatched(r Result) bool {
	for _, s := range r.Spans {
		if s.Field == "title" {
			return true
		}
	}
	return false
}
