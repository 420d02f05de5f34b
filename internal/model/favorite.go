package model

import "time"

// Favorite links one user to one snippet they bookmarked.
//
// The (UserID, SnippetID) pair is unique — favoriting is idempotent in
// the sense that a second attempt for the same pair is a conflict, never
// a duplicate row. A favorite is only ever visible to and deletable by
// the user who created it.
type Favorite struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"user"      db:"user_id"`
	SnippetID string    `json:"snippet"   db:"snippet_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// FavoriteWithSnippet is a Favorite with the target snippet embedded,
// returned by the list endpoint.
type FavoriteWithSnippet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Snippet   Snippet   `json:"snippet"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
