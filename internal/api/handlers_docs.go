package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/blockvault/blocksearch/internal/block"
	"github.com/blockvault/blocksearch/internal/extract"
	"github.com/blockvault/blocksearch/internal/split"
)

// documentSummary is the list-view shape: metadata without block bodies.
type documentSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Path   string `json:"path,omitempty"`
	Format string `json:"format"`
	Blocks int    `json:"blocks"`
}

// handleUpload accepts a multipart document, extracts it and adds it to
// the library.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		// MaxBytesReader trips inside the form parser for oversize
		// bodies; report that as 413 rather than a generic 400.
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeUploadName(header.Filename)
	if !extract.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	ex, err := extract.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	blocks, err := ex.Extract(bytes.NewReader(data), filename)
	if err != nil {
		var pe *block.ParseError
		if errors.As(err, &pe) {
			jsonError(w, pe.Error(), http.StatusUnprocessableEntity)
			return
		}
		jsonError(w, "extract failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = extract.Stem(filename)
	}
	doc := &block.Document{
		Name:   name,
		Format: strings.ToLower(filepath.Ext(filename)),
		Blocks: blocks,
	}
	s.lib.Add(doc)

	s.log.Info("document uploaded", "doc_id", doc.ID, "name", doc.Name, "blocks", len(doc.Blocks))
	writeJSON(w, http.StatusCreated, documentSummary{
		ID:     doc.ID,
		Name:   doc.Name,
		Format: doc.Format,
		Blocks: len(doc.Blocks),
	})
}

// handleListDocuments lists all loaded documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.lib.List()
	out := make([]documentSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, documentSummary{
			ID:     doc.ID,
			Name:   doc.Name,
			Path:   doc.Path,
			Format: doc.Format,
			Blocks: len(doc.Blocks),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": out})
}

// handleGetDocument returns one document with its blocks.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lib.Get(chi.URLParam(r, "docID"))
	if !ok {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument removes a document and reindexes.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if !s.lib.Remove(docID) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	s.log.Info("document removed", "doc_id", docID)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": docID})
}

// handleSplitDocument streams the document's blocks as a zip archive of
// per-block JSON files.
func (s *Server) handleSplitDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lib.Get(chi.URLParam(r, "docID"))
	if !ok {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if len(doc.Blocks) == 0 {
		jsonError(w, "document has no blocks", http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", split.SanitizeFilename(doc.Name)+".zip"))
	if err := split.WriteZip(doc, w); err != nil {
		// Headers are already out; all we can do is log.
		s.log.Error("split failed", "doc_id", doc.ID, "error", err)
	}
}

// sanitizeUploadName strips any path components from a client-supplied
// filename.
func sanitizeUploadName(name string) string {
	name = filepath.Base(name)
	return strings.TrimSpace(name)
}
