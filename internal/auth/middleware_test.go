package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// guardedHandler returns a handler wrapped by RequireAuth that records
// the user ID it saw in the context.
func guardedHandler(ts *TokenService, sawUserID *string) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserIDFromContext(r.Context())
		*sawUserID = id
		w.WriteHeader(http.StatusOK)
	})
	return RequireAuth(ts)(inner)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Issue("user-42")

	var saw string
	h := guardedHandler(ts, &saw)

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if saw != "user-42" {
		t.Errorf("handler saw userID %q, want %q", saw, "user-42")
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	ts := newTestTokenService(t)
	valid, _ := ts.Issue("user-42")
	expired, _ := ts.IssueWithDuration("user-42", -time.Minute)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic " + valid},
		{name: "bare token without scheme", header: valid},
		{name: "empty token after scheme", header: "Bearer "},
		{name: "expired token", header: "Bearer " + expired},
		{name: "tampered token", header: "Bearer " + valid[:len(valid)-3] + "xxx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var saw string
			h := guardedHandler(ts, &saw)

			req := httptest.NewRequest(http.MethodDelete, "/api/snippets/abc", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if saw != "" {
				t.Errorf("inner handler ran with userID %q; it should not run at all", saw)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

func TestRequireAuth_CaseInsensitiveScheme(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Issue("user-42")

	var saw string
	h := guardedHandler(ts, &saw)

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for lowercase scheme", rec.Code)
	}
}

func TestUserIDFromContext_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id, ok := UserIDFromContext(req.Context()); ok || id != "" {
		t.Errorf("UserIDFromContext on bare context = (%q, %v), want (\"\", false)", id, ok)
	}
}
