// Package model defines the data structures used throughout the application.
// Plain structs with JSON and db tags, no behaviour beyond a few small
// helpers — all business rules live in the service layer.
package model

import "time"

// Snippet represents a saved code snippet.
//
// CreatedBy is set once at creation and never changed by updates — the
// owning user is part of the record's identity. The (Title, CreatedBy)
// pair is unique: a user cannot have two snippets with the same title,
// but two different users can.
type Snippet struct {
	ID        string    `json:"id"        db:"id"`
	Title     string    `json:"title"     db:"title"`
	Code      string    `json:"code"      db:"code"`
	Language  string    `json:"language"  db:"language"`
	Tags      []string  `json:"tags"      db:"tags"`
	CreatedBy string    `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SnippetWithOwner is a Snippet joined with its owner's display name,
// returned by the read endpoints so clients don't need a second lookup.
type SnippetWithOwner struct {
	Snippet
	OwnerName string `json:"ownerName"`
}

// Languages is the fixed set of languages a snippet may declare.
// Anything outside this set is rejected at validation time.
var Languages = []string{
	"JavaScript",
	"TypeScript",
	"Python",
	"Java",
	"Rust",
	"C++",
	"C#",
	"C",
	"Go",
	"PHP",
}

// ValidLanguage reports whether lang is a member of the Languages set.
// The comparison is case-sensitive: "python" is not a valid language.
func ValidLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}
