package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/snippethub/internal/apperror"
	"github.com/sakif/snippethub/internal/model"
	"github.com/sakif/snippethub/internal/repository"
)

// SnippetStore implements repository.SnippetRepository over the shared pool.
type SnippetStore struct {
	conn *sql.DB
}

var _ repository.SnippetRepository = (*SnippetStore)(nil)

// encodeTags serializes the tag list for the tags text column. A nil
// slice becomes "[]" so reads always produce an empty list, never null.
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(raw string, into *[]string) error {
	if raw == "" {
		*into = []string{}
		return nil
	}
	if err := json.Unmarshal([]byte(raw), into); err != nil {
		return fmt.Errorf("decoding tags: %w", err)
	}
	return nil
}

// Create inserts a new snippet, generating its ID and timestamps.
// A UNIQUE(title, created_by) violation becomes apperror.DuplicateTitle —
// this is the backstop for the race the service's pre-check cannot close.
func (st *SnippetStore) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()

	now := time.Now()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now
	if snippet.Tags == nil {
		snippet.Tags = []string{}
	}

	tags, err := encodeTags(snippet.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	_, err = st.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, title, code, language, tags, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Title,
		snippet.Code,
		snippet.Language,
		tags,
		snippet.CreatedBy,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateTitle()
		}
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

// GetByID retrieves a single snippet by its ID.
func (st *SnippetStore) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	var (
		s       model.Snippet
		rawTags string
	)

	err := st.conn.QueryRowContext(ctx,
		`SELECT id, title, code, language, tags, created_by, created_at, updated_at
		 FROM snippets
		 WHERE id = ?`,
		id,
	).Scan(
		&s.ID, &s.Title, &s.Code, &s.Language, &rawTags,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	if err := decodeTags(rawTags, &s.Tags); err != nil {
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return &s, nil
}

// GetWithOwner retrieves a snippet joined with its owner's display name.
func (st *SnippetStore) GetWithOwner(ctx context.Context, id string) (*model.SnippetWithOwner, error) {
	var (
		s       model.SnippetWithOwner
		rawTags string
	)

	err := st.conn.QueryRowContext(ctx,
		`SELECT s.id, s.title, s.code, s.language, s.tags, s.created_by,
		        s.created_at, s.updated_at, u.name
		 FROM snippets s
		 JOIN users u ON u.id = s.created_by
		 WHERE s.id = ?`,
		id,
	).Scan(
		&s.ID, &s.Title, &s.Code, &s.Language, &rawTags,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt, &s.OwnerName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	if err := decodeTags(rawTags, &s.Tags); err != nil {
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return &s, nil
}

// List returns every snippet with its owner's name, newest first.
// No pagination: the full result set every call.
func (st *SnippetStore) List(ctx context.Context) ([]model.SnippetWithOwner, error) {
	rows, err := st.conn.QueryContext(ctx,
		`SELECT s.id, s.title, s.code, s.language, s.tags, s.created_by,
		        s.created_at, s.updated_at, u.name
		 FROM snippets s
		 JOIN users u ON u.id = s.created_by
		 ORDER BY s.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := []model.SnippetWithOwner{}
	for rows.Next() {
		var (
			s       model.SnippetWithOwner
			rawTags string
		)
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Code, &s.Language, &rawTags,
			&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt, &s.OwnerName,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		if err := decodeTags(rawTags, &s.Tags); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// ExistsByTitleAndOwner reports whether the owner already has a snippet
// with this exact title.
func (st *SnippetStore) ExistsByTitleAndOwner(ctx context.Context, title, ownerID string) (bool, error) {
	var count int
	err := st.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snippets WHERE title = ? AND created_by = ?`,
		title, ownerID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking duplicate title: %w", err)
	}
	return count > 0, nil
}

// Update rewrites a snippet's mutable fields. The owner (created_by) and
// created_at are never touched. A UNIQUE violation on the new title
// becomes apperror.DuplicateTitle, same as Create.
func (st *SnippetStore) Update(ctx context.Context, snippet *model.Snippet) error {
	snippet.UpdatedAt = time.Now()

	tags, err := encodeTags(snippet.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	result, err := st.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, code = ?, language = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Code,
		snippet.Language,
		tags,
		snippet.UpdatedAt,
		snippet.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateTitle()
		}
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// Delete removes a snippet by its ID.
func (st *SnippetStore) Delete(ctx context.Context, id string) error {
	result, err := st.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}
