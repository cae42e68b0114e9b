package auth_test

import (
	"context"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/argent/internal/auth"
)

// signIDToken firma un token RS256 de prueba con el kid dado.
func signIDToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwtv5.MapClaims) string {
	t.Helper()
	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodRS256, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	signed, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func googleClaims(email string) jwtv5.MapClaims {
	return jwtv5.MapClaims{
		"iss":   "https://accounts.google.com",
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerifyIDTokenValid(t *testing.T) {
	key := testKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"kid-1": &key.PublicKey})
	v := auth.NewVerifier(auth.NewKeyCache(srv.srv.URL), "")

	raw := signIDToken(t, key, "kid-1", googleClaims("alice@example.com"))
	email, err := v.VerifyIDToken(context.Background(), raw)
	if err != nil {
		t.Fatalf("VerifyIDToken: %v", err)
	}
	if email != "alice@example.com" {
		t.Fatalf("email = %q, want alice@example.com", email)
	}
}

func TestVerifyIDTokenBareHostIssuer(t *testing.T) {
	key := testKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"kid-1": &key.PublicKey})
	v := auth.NewVerifier(auth.NewKeyCache(srv.srv.URL), "")

	claims := googleClaims("alice@example.com")
	claims["iss"] = "accounts.google.com"
	raw := signIDToken(t, key, "kid-1", claims)
	if _, err := v.VerifyIDToken(context.Background(), raw); err != nil {
		t.Fatalf("VerifyIDToken con iss sin esquema: %v", err)
	}
}

func TestVerifyIDTokenRejections(t *testing.T) {
	key := testKey(t)
	other := testKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"kid-1": &key.PublicKey})
	v := auth.NewVerifier(auth.NewKeyCache(srv.srv.URL), "")

	expired := googleClaims("alice@example.com")
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	badIssuer := googleClaims("alice@example.com")
	badIssuer["iss"] = "https://evil.example.com"

	noEmail := googleClaims("")
	delete(noEmail, "email")

	noExp := googleClaims("alice@example.com")
	delete(noExp, "exp")

	cases := []struct {
		name string
		raw  string
	}{
		{"garbage", "not.a.jwt"},
		{"missing kid", signIDToken(t, key, "", googleClaims("alice@example.com"))},
		{"unknown kid", signIDToken(t, key, "kid-other", googleClaims("alice@example.com"))},
		{"wrong signer", signIDToken(t, other, "kid-1", googleClaims("alice@example.com"))},
		{"expired", signIDToken(t, key, "kid-1", expired)},
		{"missing exp", signIDToken(t, key, "kid-1", noExp)},
		{"foreign issuer", signIDToken(t, key, "kid-1", badIssuer)},
		{"missing email", signIDToken(t, key, "kid-1", noEmail)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := v.VerifyIDToken(context.Background(), tc.raw); !errors.Is(err, auth.ErrUnverified) {
				t.Fatalf("err = %v, want ErrUnverified", err)
			}
		})
	}
}

func TestVerifyIDTokenExpBoundary(t *testing.T) {
	key := testKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"kid-1": &key.PublicKey})
	v := auth.NewVerifier(auth.NewKeyCache(srv.srv.URL), "")

	// exp en el pasado inmediato: now >= exp es rechazo, sin leeway.
	claims := googleClaims("alice@example.com")
	claims["exp"] = time.Now().Unix()
	raw := signIDToken(t, key, "kid-1", claims)
	if _, err := v.VerifyIDToken(context.Background(), raw); !errors.Is(err, auth.ErrUnverified) {
		t.Fatalf("err = %v, want ErrUnverified at the expiry instant", err)
	}
}

func TestVerifyIDTokenRejectsHS256(t *testing.T) {
	key := testKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"kid-1": &key.PublicKey})
	v := auth.NewVerifier(auth.NewKeyCache(srv.srv.URL), "")

	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, googleClaims("alice@example.com"))
	tok.Header["kid"] = "kid-1"
	raw, err := tok.SignedString([]byte("shared-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := v.VerifyIDToken(context.Background(), raw); !errors.Is(err, auth.ErrUnverified) {
		t.Fatalf("err = %v, want ErrUnverified for non-RS256 token", err)
	}
}

func TestVerifyIDTokenAudience(t *testing.T) {
	key := testKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"kid-1": &key.PublicKey})
	v := auth.NewVerifier(auth.NewKeyCache(srv.srv.URL), "client-123.apps.googleusercontent.com")

	good := googleClaims("alice@example.com")
	good["aud"] = "client-123.apps.googleusercontent.com"
	if _, err := v.VerifyIDToken(context.Background(), signIDToken(t, key, "kid-1", good)); err != nil {
		t.Fatalf("VerifyIDToken con aud correcta: %v", err)
	}

	bad := googleClaims("alice@example.com")
	bad["aud"] = "someone-else.apps.googleusercontent.com"
	if _, err := v.VerifyIDToken(context.Background(), signIDToken(t, key, "kid-1", bad)); !errors.Is(err, auth.ErrUnverified) {
		t.Fatalf("err = %v, want ErrUnverified for foreign audience", err)
	}
}

func TestVerifyIDTokenProviderDown(t *testing.T) {
	key := testKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"kid-1": &key.PublicKey})
	srv.fail.Store(true)
	v := auth.NewVerifier(auth.NewKeyCache(srv.srv.URL), "")

	raw := signIDToken(t, key, "kid-1", googleClaims("alice@example.com"))
	if _, err := v.VerifyIDToken(context.Background(), raw); !errors.Is(err, auth.ErrKeyFetch) {
		t.Fatalf("err = %v, want ErrKeyFetch when the provider is unreachable", err)
	}
}
