package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/argent/internal/auth"
	"github.com/dropDatabas3/argent/internal/domain"
	"github.com/dropDatabas3/argent/internal/http/middlewares"
)

var signingKey = []byte("middleware-test-signing-key-32b!")

func sessionHandler() http.Handler {
	cfg := middlewares.SessionConfig{CookieName: "argent_session", SigningKey: signingKey}
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.MustGetUser(r.Context())
		_ = json.NewEncoder(w).Encode(user)
	})
	return middlewares.Chain(echo, middlewares.RequireSession(cfg))
}

func TestRequireSessionMissingCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	sessionHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Detail != "No authentication cookie" {
		t.Fatalf("detail = %q", body.Detail)
	}
}

func TestRequireSessionValidCookie(t *testing.T) {
	user := domain.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser}
	token, _, err := auth.IssueSessionToken(user, auth.SessionTTL, signingKey)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "argent_session", Value: token})
	rec := httptest.NewRecorder()
	sessionHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got != user {
		t.Fatalf("user in context = %+v, want %+v", got, user)
	}
}

func TestRequireSessionRejectedCookies(t *testing.T) {
	user := domain.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser}
	expired, _, err := auth.IssueSessionToken(user, -time.Minute, signingKey)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}
	foreign, _, err := auth.IssueSessionToken(user, auth.SessionTTL, []byte("some-other-key-entirely-32-bytes"))
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}

	cases := []struct {
		name  string
		value string
	}{
		{"empty value", ""},
		{"garbage", "nope"},
		{"expired", expired},
		{"foreign signature", foreign},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			req.AddCookie(&http.Cookie{Name: "argent_session", Value: tc.value})
			rec := httptest.NewRecorder()
			sessionHandler().ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}
