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

// FavoriteHandler manages a user's favorite snippets. Every route here
// requires authentication.
type FavoriteHandler struct {
	favorites *service.FavoriteService
	logger    *slog.Logger
}

// NewFavoriteHandler creates a FavoriteHandler.
func NewFavoriteHandler(favorites *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favorites: favorites,
		logger:    logger,
	}
}

// createFavoriteRequest is the body for POST /api/favorites.
type createFavoriteRequest struct {
	SnippetID string `json:"snippetId"`
}

// HandleCreate favorites a snippet for the authenticated user.
//
// HTTP: POST /api/favorites
func (h *FavoriteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authorization required"))
		return
	}

	var req createFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid favorite JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	favorite, err := h.favorites.Create(r.Context(), req.SnippetID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, favorite)
}

// HandleList returns the authenticated user's favorites with each
// target snippet embedded.
//
// HTTP: GET /api/favorites
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authorization required"))
		return
	}

	favorites, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favorites)
}

// HandleDelete removes one of the authenticated user's own favorites.
//
// HTTP: DELETE /api/favorites/{id}
func (h *FavoriteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authorization required"))
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.favorites.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
