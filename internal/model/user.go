package model

import "time"

// User represents a registered account.
//
// PasswordHash holds the bcrypt hash of the user's password. The json:"-"
// tag keeps it out of every API response — there is no code path that
// should ever serialize it.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
