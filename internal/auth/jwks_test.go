package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dropDatabas3/argent/internal/auth"
)

// testKey genera una clave RSA para firmar tokens de prueba.
func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return key
}

// jwksJSON arma un documento JWKS con las públicas dadas, kid -> key.
func jwksJSON(t *testing.T, keys map[string]*rsa.PublicKey) []byte {
	t.Helper()
	type jwk struct {
		Kid string `json:"kid"`
		Kty string `json:"kty"`
		Use string `json:"use"`
		Alg string `json:"alg"`
		N   string `json:"n"`
		E   string `json:"e"`
	}
	doc := struct {
		Keys []jwk `json:"keys"`
	}{}
	for kid, pub := range keys {
		doc.Keys = append(doc.Keys, jwk{
			Kid: kid,
			Kty: "RSA",
			Use: "sig",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		})
	}
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal jwks: %v", err)
	}
	return b
}

// jwksServer sirve un JWKS mutable y cuenta los fetches.
type jwksServer struct {
	srv     *httptest.Server
	fetches atomic.Int64
	payload atomic.Value // []byte
	fail    atomic.Bool
}

func newJWKSServer(t *testing.T, keys map[string]*rsa.PublicKey) *jwksServer {
	t.Helper()
	s := &jwksServer{}
	s.payload.Store(jwksJSON(t, keys))
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.fetches.Add(1)
		if s.fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(s.payload.Load().([]byte))
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *jwksServer) setKeys(t *testing.T, keys map[string]*rsa.PublicKey) {
	t.Helper()
	s.payload.Store(jwksJSON(t, keys))
}

func TestKeyCacheGetOrRefreshPopulatesOnMiss(t *testing.T) {
	key := testKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"kid-1": &key.PublicKey})

	cache := auth.NewKeyCache(srv.srv.URL)

	pub, err := cache.GetOrRefresh(context.Background(), "kid-1")
	if err != nil {
		t.Fatalf("GetOrRefresh: %v", err)
	}
	if pub.N.Cmp(key.PublicKey.N) != 0 {
		t.Fatal("returned key does not match the served key")
	}
	if got := srv.fetches.Load(); got != 1 {
		t.Fatalf("fetches = %d, want 1", got)
	}

	// Segundo acceso es hit, sin fetch.
	if _, err := cache.GetOrRefresh(context.Background(), "kid-1"); err != nil {
		t.Fatalf("GetOrRefresh hit: %v", err)
	}
	if got := srv.fetches.Load(); got != 1 {
		t.Fatalf("fetches after hit = %d, want 1", got)
	}
}

func TestKeyCacheUnknownKidRefreshesExactlyOnce(t *testing.T) {
	key := testKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"kid-1": &key.PublicKey})

	cache := auth.NewKeyCache(srv.srv.URL)
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	before := srv.fetches.Load()

	_, err := cache.GetOrRefresh(context.Background(), "kid-nope")
	if !errors.Is(err, auth.ErrUnknownKey) {
		t.Fatalf("err = %v, want ErrUnknownKey", err)
	}
	if got := srv.fetches.Load() - before; got != 1 {
		t.Fatalf("fetches on miss = %d, want exactly 1", got)
	}
}

func TestKeyCacheRefreshFailureKeepsLastKnownGood(t *testing.T) {
	key := testKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"kid-1": &key.PublicKey})

	cache := auth.NewKeyCache(srv.srv.URL)
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	srv.fail.Store(true)
	if err := cache.Refresh(context.Background()); !errors.Is(err, auth.ErrKeyFetch) {
		t.Fatalf("err = %v, want ErrKeyFetch", err)
	}

	// Las claves previas siguen sirviéndose.
	if _, ok := cache.Lookup("kid-1"); !ok {
		t.Fatal("kid-1 lost after failed refresh")
	}

	// Y un miss con el proveedor caído devuelve el error de fetch.
	if _, err := cache.GetOrRefresh(context.Background(), "kid-2"); !errors.Is(err, auth.ErrKeyFetch) {
		t.Fatalf("err = %v, want ErrKeyFetch", err)
	}
}

func TestKeyCacheRefreshReplacesWholeMap(t *testing.T) {
	oldKey := testKey(t)
	newKey := testKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"kid-old": &oldKey.PublicKey})

	cache := auth.NewKeyCache(srv.srv.URL)
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Rotación: el proveedor publica un set totalmente nuevo.
	srv.setKeys(t, map[string]*rsa.PublicKey{"kid-new": &newKey.PublicKey})
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh tras rotación: %v", err)
	}

	if _, ok := cache.Lookup("kid-old"); ok {
		t.Fatal("rotated-out key still present, refresh must replace the whole map")
	}
	if _, ok := cache.Lookup("kid-new"); !ok {
		t.Fatal("rotated-in key missing")
	}
}

func TestKeyCacheMalformedDocumentIsAFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"keys": not json`))
	}))
	defer srv.Close()

	cache := auth.NewKeyCache(srv.URL)
	if err := cache.Refresh(context.Background()); !errors.Is(err, auth.ErrKeyFetch) {
		t.Fatalf("err = %v, want ErrKeyFetch", err)
	}
}

func TestKeyCacheConcurrentReadersDuringRefresh(t *testing.T) {
	key := testKey(t)
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"kid-1": &key.PublicKey})

	cache := auth.NewKeyCache(srv.srv.URL)
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Lecturas y refreshes concurrentes: ningún lector puede observar un
	// mapa sin kid-1 (el set servido siempre lo contiene). Corre con -race.
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				if _, ok := cache.Lookup("kid-1"); !ok {
					t.Error("reader observed a map without kid-1")
					return
				}
			}
		}()
	}
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 10; j++ {
				_ = cache.Refresh(context.Background())
			}
		}()
	}
	for i := 0; i < 12; i++ {
		<-done
	}
}
