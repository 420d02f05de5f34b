package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippethub/internal/apperror"
	"github.com/sakif/snippethub/internal/model"
	"github.com/sakif/snippethub/internal/repository"
)

// FavoriteService handles favorite links between users and snippets.
// It needs the snippet repository too, for the existence check at
// creation time.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	snippets  repository.SnippetRepository
	logger    *slog.Logger
}

// NewFavoriteService creates a FavoriteService.
func NewFavoriteService(
	favorites repository.FavoriteRepository,
	snippets repository.SnippetRepository,
	logger *slog.Logger,
) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		snippets:  snippets,
		logger:    logger,
	}
}

// Create favorites snippetID for requesterID.
//
// There is deliberately no "already favorited" pre-check: the storage
// uniqueness constraint on (user, snippet) is the primary enforcement,
// and its violation comes back as the already-favorited error.
func (s *FavoriteService) Create(ctx context.Context, snippetID, requesterID string) (*model.Favorite, error) {
	snippetID = strings.TrimSpace(snippetID)
	if snippetID == "" {
		return nil, apperror.MissingField("snippetId")
	}

	if _, err := s.snippets.GetByID(ctx, snippetID); err != nil {
		return nil, err
	}

	favorite := &model.Favorite{
		UserID:    requesterID,
		SnippetID: snippetID,
	}

	if err := s.favorites.Create(ctx, favorite); err != nil {
		if apperrorIs(err) {
			return nil, err
		}
		s.logger.Error("failed to create favorite",
			slog.String("snippet", snippetID),
			slog.String("user", requesterID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating favorite: %w", err)
	}

	s.logger.Info("favorite created",
		slog.String("id", favorite.ID),
		slog.String("user", requesterID),
	)

	return favorite, nil
}

// List returns the requester's favorites with each target snippet
// embedded. A user only ever sees their own favorites.
func (s *FavoriteService) List(ctx context.Context, requesterID string) ([]model.FavoriteWithSnippet, error) {
	favorites, err := s.favorites.ListByUser(ctx, requesterID)
	if err != nil {
		s.logger.Error("failed to list favorites",
			slog.String("user", requesterID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	return favorites, nil
}

// Delete removes a favorite. Only the user who created it may do so.
func (s *FavoriteService) Delete(ctx context.Context, id, requesterID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "favorite ID is required")
	}

	favorite, err := s.favorites.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if favorite.UserID != requesterID {
		return apperror.Forbidden("Not your favorite")
	}

	if err := s.favorites.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("favorite deleted", slog.String("id", id))
	return nil
}
