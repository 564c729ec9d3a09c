// Package server exposes a read-only HTTP view of issue comment threads.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cexll/trk/internal/render"
	"github.com/cexll/trk/internal/thread"
	"github.com/cexll/trk/internal/tracker"
)

// Backend is the read slice of the tracker API the handler needs.
type Backend interface {
	GetIssue(ctx context.Context, identifier string) (*tracker.Issue, error)
	ListComments(ctx context.Context, issueID string) ([]thread.CommentRecord, error)
}

// Handler serves thread listings over HTTP
type Handler struct {
	backend      Backend
	defaultLimit int
}

// NewHandler creates a new thread handler
func NewHandler(backend Backend, defaultLimit int) *Handler {
	return &Handler{backend: backend, defaultLimit: defaultLimit}
}

// RegisterRoutes registers the read-only API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/issues/{identifier}/comments", h.handleComments).Methods("GET")
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleComments returns the ordered, truncated comment tree for one issue.
// ?limit=N overrides the default thread limit; 0 disables truncation.
func (h *Handler) handleComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identifier := mux.Vars(r)["identifier"]

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit: "+raw)
			return
		}
		limit = n
	}

	issue, err := h.backend.GetIssue(ctx, identifier)
	if err != nil {
		h.writeBackendError(w, err)
		return
	}
	records, err := h.backend.ListComments(ctx, issue.ID)
	if err != nil {
		h.writeBackendError(w, err)
		return
	}

	view := thread.Truncate(thread.Build(records), limit)
	writeJSON(w, http.StatusOK, render.NewListResult(issue, view, len(records)))
}

func (h *Handler) writeBackendError(w http.ResponseWriter, err error) {
	if thread.IsNotFound(err) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	log.Printf("[Server] Backend error: %v", err)
	writeError(w, http.StatusBadGateway, "backend unavailable")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
