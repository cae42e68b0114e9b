// Package cache provee un cache de bytes con backend memory o redis.
// Argent lo usa para lookups de lectura frecuente (usuario por email en el
// login, lista de usuarios para compartir). Nunca para material de claves:
// el JWKS tiene su propio cache con contrato de refresh explícito.
package cache

import "time"

// Cache es la interfaz mínima que consumen los stores.
type Cache interface {
	Get(k string) ([]byte, bool)
	Set(k string, v []byte, ttl time.Duration)
	Delete(k string)
}

// Config selecciona e inicializa el backend.
type Config struct {
	// Kind: "memory" | "redis"
	Kind       string
	DefaultTTL time.Duration
	RedisAddr  string
	RedisDB    int
	Prefix     string
}

// New arma el backend según config. Kind desconocido cae a memory.
func New(cfg Config) Cache {
	if cfg.Kind == "redis" && cfg.RedisAddr != "" {
		return NewRedis(cfg.RedisAddr, cfg.RedisDB, cfg.Prefix)
	}
	return NewMemory(cfg.DefaultTTL)
}
