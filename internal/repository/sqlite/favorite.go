package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/snippethub/internal/apperror"
	"github.com/sakif/snippethub/internal/model"
	"github.com/sakif/snippethub/internal/repository"
)

// FavoriteStore implements repository.FavoriteRepository over the shared pool.
type FavoriteStore struct {
	conn *sql.DB
}

var _ repository.FavoriteRepository = (*FavoriteStore)(nil)

// Create inserts a favorite link. There is no pre-check here: the
// UNIQUE(user_id, snippet_id) index is the primary enforcement, and its
// violation becomes apperror.AlreadyFavorited.
func (st *FavoriteStore) Create(ctx context.Context, favorite *model.Favorite) error {
	favorite.ID = xid.New().String()

	now := time.Now()
	favorite.CreatedAt = now
	favorite.UpdatedAt = now

	_, err := st.conn.ExecContext(ctx,
		`INSERT INTO favorites (id, user_id, snippet_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		favorite.ID,
		favorite.UserID,
		favorite.SnippetID,
		favorite.CreatedAt,
		favorite.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.AlreadyFavorited()
		}
		return fmt.Errorf("sqlite: creating favorite: %w", err)
	}

	return nil
}

// GetByID retrieves a favorite by its ID.
func (st *FavoriteStore) GetByID(ctx context.Context, id string) (*model.Favorite, error) {
	var f model.Favorite

	err := st.conn.QueryRowContext(ctx,
		`SELECT id, user_id, snippet_id, created_at, updated_at
		 FROM favorites
		 WHERE id = ?`,
		id,
	).Scan(&f.ID, &f.UserID, &f.SnippetID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("favorite", id)
		}
		return nil, fmt.Errorf("sqlite: getting favorite %s: %w", id, err)
	}

	return &f, nil
}

// ListByUser returns the given user's favorites with the target snippet
// embedded in each, newest first.
func (st *FavoriteStore) ListByUser(ctx context.Context, userID string) ([]model.FavoriteWithSnippet, error) {
	rows, err := st.conn.QueryContext(ctx,
		`SELECT f.id, f.user_id, f.created_at, f.updated_at,
		        s.id, s.title, s.code, s.language, s.tags, s.created_by,
		        s.created_at, s.updated_at
		 FROM favorites f
		 JOIN snippets s ON s.id = f.snippet_id
		 WHERE f.user_id = ?
		 ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites for user %s: %w", userID, err)
	}
	defer rows.Close()

	favorites := []model.FavoriteWithSnippet{}
	for rows.Next() {
		var (
			f       model.FavoriteWithSnippet
			rawTags string
		)
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.CreatedAt, &f.UpdatedAt,
			&f.Snippet.ID, &f.Snippet.Title, &f.Snippet.Code, &f.Snippet.Language,
			&rawTags, &f.Snippet.CreatedBy, &f.Snippet.CreatedAt, &f.Snippet.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning favorite row: %w", err)
		}
		if err := decodeTags(rawTags, &f.Snippet.Tags); err != nil {
			return nil, fmt.Errorf("sqlite: scanning favorite row: %w", err)
		}
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating favorites: %w", err)
	}

	return favorites, nil
}

// Delete removes a favorite by its ID.
func (st *FavoriteStore) Delete(ctx context.Context, id string) error {
	result, err := st.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting favorite %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("favorite", id)
	}

	return nil
}
