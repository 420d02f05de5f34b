package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sakif/snippethub/internal/apperror"
	"github.com/sakif/snippethub/internal/auth"
	"github.com/sakif/snippethub/internal/model"
)

// mockUserRepo mirrors the unique-email constraint.
type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("An account with this email already exists")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)
	return NewAuthService(newMockUserRepo(), tokens, passwords, testLogger())
}

func TestSignup_Success(t *testing.T) {
	svc := newTestAuthService(t)

	result, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if result.User.ID == "" {
		t.Error("user has no ID")
	}
	if result.Token == "" {
		t.Error("no token issued")
	}
	if result.User.PasswordHash == "s3cretpass" {
		t.Error("password stored in plaintext")
	}
}

func TestSignup_Validation(t *testing.T) {
	svc := newTestAuthService(t)

	tests := []struct {
		name                  string
		userName, email, pass string
	}{
		{"missing name", "", "a@b.co", "s3cretpass"},
		{"missing email", "Alice", "", "s3cretpass"},
		{"missing password", "Alice", "a@b.co", ""},
		{"bad email", "Alice", "not-an-email", "s3cretpass"},
		{"short password", "Alice", "a@b.co", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.userName, tt.email, tt.pass)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)

	if _, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "s3cretpass"); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}

	_, err := svc.Signup(context.Background(), "Other Alice", "alice@example.com", "passw0rd!")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	svc := newTestAuthService(t)
	signedUp, _ := svc.Signup(context.Background(), "Alice", "alice@example.com", "s3cretpass")

	result, err := svc.Login(context.Background(), "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.User.ID != signedUp.User.ID {
		t.Errorf("logged in as %q, want %q", result.User.ID, signedUp.User.ID)
	}
	if result.Token == "" {
		t.Error("no token issued")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	svc.Signup(context.Background(), "Alice", "alice@example.com", "s3cretpass")

	// Unknown email and wrong password must be indistinguishable
	_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "s3cretpass")
	_, errWrongPass := svc.Login(context.Background(), "alice@example.com", "wrongpass1")

	for _, err := range []error{errUnknown, errWrongPass} {
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	}
	if errUnknown.Error() != errWrongPass.Error() {
		t.Errorf("messages differ: %q vs %q — that leaks which emails exist",
			errUnknown.Error(), errWrongPass.Error())
	}
}

func TestGetUserByID(t *testing.T) {
	svc := newTestAuthService(t)
	signedUp, _ := svc.Signup(context.Background(), "Alice", "alice@example.com", "s3cretpass")

	user, err := svc.GetUserByID(context.Background(), signedUp.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q", user.Email)
	}

	if _, err := svc.GetUserByID(context.Background(), "ghost"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
