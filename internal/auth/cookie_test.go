package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dropDatabas3/argent/internal/auth"
)

func TestBuildAuthCookieAttributes(t *testing.T) {
	exp := time.Now().UTC().Add(auth.SessionTTL).Truncate(time.Second)

	cases := []struct {
		name     string
		secure   bool
		sameSite http.SameSite
	}{
		{"secure", true, http.SameSiteNoneMode},
		{"insecure dev", false, http.SameSiteStrictMode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := auth.BuildAuthCookie("argent_session", "tok-value", exp, tc.secure)

			if c.Name != "argent_session" || c.Value != "tok-value" {
				t.Fatalf("cookie = %s=%s", c.Name, c.Value)
			}
			if c.Path != auth.CookiePath {
				t.Fatalf("Path = %q, want %q", c.Path, auth.CookiePath)
			}
			if !c.HttpOnly {
				t.Fatal("cookie must always be HttpOnly")
			}
			if c.Secure != tc.secure {
				t.Fatalf("Secure = %v, want %v", c.Secure, tc.secure)
			}
			if c.SameSite != tc.sameSite {
				t.Fatalf("SameSite = %v, want %v", c.SameSite, tc.sameSite)
			}
			if !c.Expires.Equal(exp) {
				t.Fatalf("Expires = %v, want %v", c.Expires, exp)
			}
		})
	}
}

func TestBuildExpiredCookieClearsSession(t *testing.T) {
	live := auth.BuildAuthCookie("argent_session", "tok-value", time.Now().Add(time.Hour), true)
	dead := auth.BuildExpiredCookie("argent_session", true)

	if dead.Value != "" {
		t.Fatalf("Value = %q, want empty", dead.Value)
	}
	if !dead.Expires.Equal(time.Unix(0, 0).UTC()) {
		t.Fatalf("Expires = %v, want epoch", dead.Expires)
	}
	if dead.MaxAge != -1 {
		t.Fatalf("MaxAge = %d, want -1", dead.MaxAge)
	}

	// Mismos atributos de identidad que la cookie viva, para que el browser
	// pise la misma entrada.
	if dead.Name != live.Name || dead.Path != live.Path {
		t.Fatalf("identity mismatch: %s %s vs %s %s", dead.Name, dead.Path, live.Name, live.Path)
	}
	if dead.HttpOnly != live.HttpOnly || dead.Secure != live.Secure || dead.SameSite != live.SameSite {
		t.Fatal("expired cookie must carry the same attributes as the live one")
	}
}
