package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snippethub/internal/apperror"
	"github.com/sakif/snippethub/internal/auth"
	"github.com/sakif/snippethub/internal/service"
)

// SnippetHandler manages CRUD operations for code snippets.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{
		snippets: snippets,
		logger:   logger,
	}
}

// createSnippetRequest is the body for POST /api/snippets.
type createSnippetRequest struct {
	Title    string   `json:"title"`
	Code     string   `json:"code"`
	Language string   `json:"language"`
	Tags     []string `json:"tags"`
}

// updateSnippetRequest is the body for PUT /api/snippets/{id}. Pointer
// fields distinguish "absent" from "set to zero value", so a partial
// update only touches what the client actually sent.
type updateSnippetRequest struct {
	Title    *string   `json:"title"`
	Code     *string   `json:"code"`
	Language *string   `json:"language"`
	Tags     *[]string `json:"tags"`
}

// HandleCreate saves a new snippet owned by the authenticated user.
//
// HTTP: POST /api/snippets
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authorization required"))
		return
	}

	var req createSnippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	snippet, err := h.snippets.Create(r.Context(), service.CreateSnippetInput{
		Title:    req.Title,
		Code:     req.Code,
		Language: req.Language,
		Tags:     req.Tags,
	}, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// HandleList returns every snippet with its owner's display name. This
// endpoint is public.
//
// HTTP: GET /api/snippets
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	snippets, err := h.snippets.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippets)
}

// HandleGetByID returns a single snippet. Also public.
//
// HTTP: GET /api/snippets/{id}
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snippet, err := h.snippets.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippet)
}

// HandleUpdate applies a partial update to a snippet the authenticated
// user owns.
//
// HTTP: PUT /api/snippets/{id}
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authorization required"))
		return
	}

	id := chi.URLParam(r, "id")

	var req updateSnippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	snippet, err := h.snippets.Update(r.Context(), id, userID, service.UpdateSnippetInput{
		Title:    req.Title,
		Code:     req.Code,
		Language: req.Language,
		Tags:     req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete removes a snippet the authenticated user owns.
//
// HTTP: DELETE /api/snippets/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authorization required"))
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.snippets.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
