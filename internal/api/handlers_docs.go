package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tagrag/internal/store"
)

// handleGetBlocks serves the serialized block list for a document.
func (s *Server) handleGetBlocks(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if !store.ValidDocID(docID) {
		jsonError(w, "invalid document id", http.StatusBadRequest)
		return
	}

	file, err := s.orchestrator.Writer().ReadBlocks(docID)
	if err != nil {
		if os.IsNotExist(err) {
			jsonError(w, "document not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to read blocks: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(file)
}

// handleSearch runs a vector query over indexed blocks.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	vectors := s.orchestrator.Vectors()
	if vectors == nil {
		jsonError(w, "vector search unavailable", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}

	k := 5
	if v := r.URL.Query().Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "k must be a positive integer", http.StatusBadRequest)
			return
		}
		k = n
	}

	results, err := vectors.Search(r.Context(), query, k)
	if err != nil {
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"query":   query,
		"results": results,
	})
}
