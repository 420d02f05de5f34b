package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sakif/snippethub/internal/apperror"
	"github.com/sakif/snippethub/internal/model"
)

// mockFavoriteRepo mirrors the (user, snippet) uniqueness constraint the
// sqlite implementation enforces with its UNIQUE index.
type mockFavoriteRepo struct {
	favorites map[string]*model.Favorite
	snippets  *mockSnippetRepo // for embedding in ListByUser
	nextID    int
}

func newMockFavoriteRepo(snippets *mockSnippetRepo) *mockFavoriteRepo {
	return &mockFavoriteRepo{
		favorites: make(map[string]*model.Favorite),
		snippets:  snippets,
	}
}

func (m *mockFavoriteRepo) Create(_ context.Context, favorite *model.Favorite) error {
	for _, f := range m.favorites {
		if f.UserID == favorite.UserID && f.SnippetID == favorite.SnippetID {
			return apperror.AlreadyFavorited()
		}
	}
	m.nextID++
	favorite.ID = fmt.Sprintf("fav-%d", m.nextID)
	stored := *favorite
	m.favorites[favorite.ID] = &stored
	return nil
}

func (m *mockFavoriteRepo) GetByID(_ context.Context, id string) (*model.Favorite, error) {
	favorite, ok := m.favorites[id]
	if !ok {
		return nil, apperror.NotFound("favorite", id)
	}
	result := *favorite
	return &result, nil
}

func (m *mockFavoriteRepo) ListByUser(_ context.Context, userID string) ([]model.FavoriteWithSnippet, error) {
	result := []model.FavoriteWithSnippet{}
	for _, f := range m.favorites {
		if f.UserID != userID {
			continue
		}
		snippet := m.snippets.snippets[f.SnippetID]
		result = append(result, model.FavoriteWithSnippet{
			ID:        f.ID,
			UserID:    f.UserID,
			Snippet:   *snippet,
			CreatedAt: f.CreatedAt,
			UpdatedAt: f.UpdatedAt,
		})
	}
	return result, nil
}

func (m *mockFavoriteRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.favorites[id]; !ok {
		return apperror.NotFound("favorite", id)
	}
	delete(m.favorites, id)
	return nil
}

func newTestFavoriteService(t *testing.T) (*FavoriteService, *SnippetService) {
	t.Helper()
	snippetRepo := newMockSnippetRepo()
	favoriteRepo := newMockFavoriteRepo(snippetRepo)
	logger := testLogger()
	return NewFavoriteService(favoriteRepo, snippetRepo, logger),
		NewSnippetService(snippetRepo, logger)
}

func TestFavoriteCreate_Success(t *testing.T) {
	favorites, snippets := newTestFavoriteService(t)
	snippet, _ := snippets.Create(context.Background(), validInput(), "user-a")

	favorite, err := favorites.Create(context.Background(), snippet.ID, "user-b")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if favorite.UserID != "user-b" {
		t.Errorf("UserID = %q, want user-b", favorite.UserID)
	}
	if favorite.SnippetID != snippet.ID {
		t.Errorf("SnippetID = %q, want %q", favorite.SnippetID, snippet.ID)
	}
}

func TestFavoriteCreate_MissingSnippetID(t *testing.T) {
	favorites, _ := newTestFavoriteService(t)

	_, err := favorites.Create(context.Background(), "", "user-a")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestFavoriteCreate_SnippetMustExist(t *testing.T) {
	favorites, _ := newTestFavoriteService(t)

	_, err := favorites.Create(context.Background(), "ghost", "user-a")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// At most one favorite may exist per (user, snippet): the second attempt
// conflicts and the count stays at one.
func TestFavoriteCreate_Idempotent(t *testing.T) {
	favorites, snippets := newTestFavoriteService(t)
	snippet, _ := snippets.Create(context.Background(), validInput(), "user-a")

	if _, err := favorites.Create(context.Background(), snippet.ID, "user-b"); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	_, err := favorites.Create(context.Background(), snippet.ID, "user-b")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Create() error = %v, want ErrConflict", err)
	}

	list, _ := favorites.List(context.Background(), "user-b")
	if len(list) != 1 {
		t.Errorf("favorite count = %d, want 1", len(list))
	}
}

func TestFavoriteList_ScopedToRequester(t *testing.T) {
	favorites, snippets := newTestFavoriteService(t)
	s1, _ := snippets.Create(context.Background(), validInput(), "user-a")

	favorites.Create(context.Background(), s1.ID, "user-a")
	favorites.Create(context.Background(), s1.ID, "user-b")

	list, err := favorites.List(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List() returned %d favorites, want only user-a's 1", len(list))
	}
	if list[0].Snippet.ID != s1.ID {
		t.Errorf("embedded snippet ID = %q, want %q", list[0].Snippet.ID, s1.ID)
	}
}

func TestFavoriteDelete_OwnerOnly(t *testing.T) {
	favorites, snippets := newTestFavoriteService(t)
	snippet, _ := snippets.Create(context.Background(), validInput(), "user-a")
	favorite, _ := favorites.Create(context.Background(), snippet.ID, "user-b")

	// user-a doesn't own this favorite, even though they own the snippet
	err := favorites.Delete(context.Background(), favorite.ID, "user-a")
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}

	list, _ := favorites.List(context.Background(), "user-b")
	if len(list) != 1 {
		t.Error("forbidden delete must not remove the favorite")
	}

	if err := favorites.Delete(context.Background(), favorite.ID, "user-b"); err != nil {
		t.Fatalf("owner Delete() error = %v", err)
	}
}

func TestFavoriteDelete_NotFound(t *testing.T) {
	favorites, _ := newTestFavoriteService(t)

	err := favorites.Delete(context.Background(), "ghost", "user-a")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
