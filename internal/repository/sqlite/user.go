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

// UserStore implements repository.UserRepository over the shared pool.
type UserStore struct {
	conn *sql.DB
}

var _ repository.UserRepository = (*UserStore)(nil)

// Create inserts a new user account. The UNIQUE index on email turns a
// second signup with the same address into a conflict error.
func (st *UserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := st.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("An account with this email already exists")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
func (st *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return st.get(ctx, `WHERE id = ?`, id, "user", id)
}

// GetByEmail retrieves a user by email address. Login uses this.
func (st *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return st.get(ctx, `WHERE email = ?`, email, "user", email)
}

func (st *UserStore) get(ctx context.Context, where string, arg any, resource, key string) (*model.User, error) {
	var u model.User

	err := st.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(resource, key)
		}
		return nil, fmt.Errorf("sqlite: getting %s %s: %w", resource, key, err)
	}

	return &u, nil
}
