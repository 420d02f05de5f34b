// Package repository declares the persistence interfaces the service
// layer depends on. The sqlite subpackage is the only implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/snippethub/internal/model"
)

// SnippetRepository stores snippets. Create and Update return a conflict
// error when the (title, created_by) uniqueness constraint fires — the
// constraint is the authoritative guard, ExistsByTitleAndOwner only
// serves the service's friendlier pre-check.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	GetWithOwner(ctx context.Context, id string) (*model.SnippetWithOwner, error)
	List(ctx context.Context) ([]model.SnippetWithOwner, error)
	ExistsByTitleAndOwner(ctx context.Context, title, ownerID string) (bool, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id string) error
}

// FavoriteRepository stores favorite links. Create returns a conflict
// error when the (user_id, snippet_id) uniqueness constraint fires.
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *model.Favorite) error
	GetByID(ctx context.Context, id string) (*model.Favorite, error)
	ListByUser(ctx context.Context, userID string) ([]model.FavoriteWithSnippet, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository stores user accounts. Create returns a conflict error
// when the email is already registered.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
