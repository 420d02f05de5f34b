package auth

import (
	"errors"
	"testing"
	"time"
)

// newTestTokenService creates a TokenService with a fixed, known secret
// so tests are deterministic.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short", time.Hour)
	if err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

func TestNewTokenService_NonPositiveTTL(t *testing.T) {
	_, err := NewTokenService("test-secret-at-least-16-chars!!", 0)
	if err == nil {
		t.Fatal("NewTokenService() should reject a zero TTL")
	}
}

func TestIssue_ReturnsNonEmptyToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Error("Issue() returned empty token")
	}

	// JWT tokens have 3 dot-separated parts: header.payload.signature
	dots := 0
	for _, c := range token {
		if c == '.' {
			dots++
		}
	}
	if dots != 2 {
		t.Errorf("Issue() token doesn't look like a JWT (expected 2 dots, got %d)", dots)
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)
	userID := "user-abc-123"

	token, err := ts.Issue(userID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	got, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != userID {
		t.Errorf("Verify() userID = %q, want %q", got, userID)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.IssueWithDuration("user-123", -1*time.Second)
	if err != nil {
		t.Fatalf("IssueWithDuration() error = %v", err)
	}

	_, err = ts.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, _ := ts.Issue("user-123")

	// Flip the tail of the signature
	tampered := token[:len(token)-3] + "xxx"

	_, err := ts.Verify(tampered)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Verify() error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	ts1, _ := NewTokenService("correct-secret-32-chars-long!!!!", time.Hour)
	ts2, _ := NewTokenService("wrong-secret-32-chars-long!!!!!!", time.Hour)

	token, _ := ts1.Issue("user-123")

	if _, err := ts2.Verify(token); err == nil {
		t.Fatal("Verify() should fail when using a different secret")
	}
}

func TestVerify_EmptyToken(t *testing.T) {
	ts := newTestTokenService(t)

	if _, err := ts.Verify(""); err == nil {
		t.Fatal("Verify() should return an error for an empty string")
	}
}

func TestVerify_GarbageString(t *testing.T) {
	ts := newTestTokenService(t)

	if _, err := ts.Verify("not.a.jwt.token"); err == nil {
		t.Fatal("Verify() should return an error for a garbage string")
	}
}
