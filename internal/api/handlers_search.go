package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/blockvault/blocksearch/internal/block"
	"github.com/blockvault/blocksearch/internal/index"
)

// searchResult is the wire shape for one match.
type searchResult struct {
	BlockTitle string       `json:"blockTitle"`
	BlockBody  []string     `json:"blockBody"`
	DocumentID string       `json:"documentId"`
	Position   int          `json:"position"`
	Score      int          `json:"score"`
	MatchSpans []index.Span `json:"matchSpans"`
}

// handleSearch answers a keyword query against the current index.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := index.Query{
		Term:  r.URL.Query().Get("q"),
		Scope: r.URL.Query().Get("scope"),
	}
	if v := r.URL.Query().Get("case_sensitive"); v != "" {
		q.CaseSensitive, _ = strconv.ParseBool(v)
	}
	if v := r.URL.Query().Get("whole_word"); v != "" {
		q.WholeWord, _ = strconv.ParseBool(v)
	}

	limit := s.cfg.SearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	results, err := s.lib.Search(q)
	if err != nil {
		var iq *block.InvalidQueryError
		if errors.As(err, &iq) {
			jsonError(w, iq.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	total := len(results)
	if len(results) > limit {
		results = results[:limit]
	}

	out := make([]searchResult, 0, len(results))
	for _, res := range results {
		out = append(out, searchResult{
			BlockTitle: res.Block.Title,
			BlockBody:  res.Block.Body,
			DocumentID: res.Block.DocumentID,
			Position:   res.Block.Position,
			Score:      res.Score,
			MatchSpans: res.Spans,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": out,
		"total":   total,
	})
}
