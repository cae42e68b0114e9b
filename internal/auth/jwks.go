// Package auth implementa el núcleo de autenticación de argent:
// verificación de ID tokens de Google contra su JWKS, emisión/parseo de
// tokens de sesión propios y construcción de las cookies que los cargan.
package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/dropDatabas3/argent/internal/observability/logger"
	"go.uber.org/zap"
)

// GoogleJWKSURL es el endpoint well-known con las claves públicas de Google.
const GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// ErrUnknownKey indica que el kid no existe en el JWKS ni después de refrescar.
var ErrUnknownKey = errors.New("auth: unknown signing key")

// ErrKeyFetch indica que no se pudo obtener o parsear el JWKS del proveedor.
// Se loguea server-side; en el borde HTTP se colapsa a 401 (fail closed).
var ErrKeyFetch = errors.New("auth: key set fetch failed")

// jwk es una clave del documento JWKS (RFC 7517, solo los campos RSA que usamos).
type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

// KeyCache mantiene las claves de firma vigentes del proveedor, indexadas
// por kid. Es process-local: cada instancia descubre una rotación por su
// cuenta la primera vez que ve un kid desconocido.
//
// Contrato de concurrencia: Refresh toma el lock exclusivo durante todo el
// fetch+parse+swap. Los lookups concurrentes bloquean hasta que termina;
// nunca observan un mapa a medio poblar. No hay debounce: misses
// concurrentes pueden disparar refreshes redundantes (idempotentes).
type KeyCache struct {
	url    string
	client *http.Client
	log    *zap.Logger

	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey
}

// NewKeyCache crea un cache vacío apuntando al endpoint JWKS dado.
// El primer GetOrRefresh lo puebla. El client HTTP lleva timeout propio:
// un proveedor colgado no puede colgar el refresh indefinidamente.
func NewKeyCache(url string) *KeyCache {
	if url == "" {
		url = GoogleJWKSURL
	}
	return &KeyCache{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    logger.Named("auth.jwks"),
		keys:   make(map[string]*rsa.PublicKey),
	}
}

// Lookup busca la clave pública para un kid bajo lock compartido.
func (c *KeyCache) Lookup(kid string) (*rsa.PublicKey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	k, ok := c.keys[kid]
	return k, ok
}

// Refresh trae el JWKS completo y reemplaza el mapa entero en un solo paso
// exclusivo. Si el fetch o el parse fallan, el estado anterior queda intacto
// y el error se propaga: el caller sabe que el refresh no ocurrió.
func (c *KeyCache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh, err := c.fetch(ctx)
	if err != nil {
		c.log.Warn("refresh del JWKS falló, se conserva el estado anterior",
			logger.Count(len(c.keys)), logger.Err(err))
		return err
	}

	c.keys = fresh
	c.log.Debug("JWKS refrescado", logger.Count(len(fresh)))
	return nil
}

// GetOrRefresh busca el kid; en miss hace exactamente un Refresh y vuelve a
// buscar. Es el único camino de auto-curación ante rotación de claves: no
// hay timer de fondo, la rotación se detecta lazy en el primer uso.
func (c *KeyCache) GetOrRefresh(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok := c.Lookup(kid); ok {
		return key, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	// Siempre por kid, nunca por el token crudo.
	if key, ok := c.Lookup(kid); ok {
		return key, nil
	}
	return nil, ErrUnknownKey
}

// fetch descarga y parsea el documento JWKS. Se llama con c.mu tomado.
func (c *KeyCache) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrKeyFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}

	var doc jwksDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := parseRSAKey(k)
		if err != nil {
			// Una clave malformada no invalida el documento entero.
			c.log.Warn("clave JWKS inválida, ignorada", logger.KID(k.Kid), logger.Err(err))
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: document has no usable RSA keys", ErrKeyFetch)
	}
	return keys, nil
}

// parseRSAKey arma una rsa.PublicKey a partir de n/e en base64url sin padding.
func parseRSAKey(k jwk) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("exponent: %w", err)
	}
	if len(nb) == 0 || len(eb) == 0 || len(eb) > 8 {
		return nil, errors.New("empty or oversized key material")
	}
	e := 0
	for _, b := range eb {
		e = e<<8 | int(b)
	}
	if e <= 1 {
		return nil, errors.New("invalid public exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}, nil
}
