// Package config carga la configuración de argent desde YAML con overrides
// por variables de entorno ARGENT_*.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		DSN             string `yaml:"dsn"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		TTL   string `yaml:"ttl"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Auth struct {
		// JWTKey firma los tokens de sesión (HS256). Solo por env en prod.
		JWTKey       string `yaml:"jwt_key"`
		CookieName   string `yaml:"cookie_name"`
		SecureCookie bool   `yaml:"secure_cookie"`
	} `yaml:"auth"`

	Google struct {
		JWKSURL string `yaml:"jwks_url"`
		// ClientID es la audiencia esperada en los ID tokens. Vacío = sin chequeo.
		ClientID string `yaml:"client_id"`
	} `yaml:"google"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Seed struct {
		// AdminEmail/AdminName crean un admin de desarrollo con `argent seed`.
		AdminEmail string `yaml:"admin_email"`
		AdminName  string `yaml:"admin_name"`
	} `yaml:"seed"`
}

// Load lee el YAML, aplica defaults y después overrides de entorno.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8008"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "2m"
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "argent_session"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	c.applyEnvOverrides()

	return &c, nil
}

// Validate chequea lo mínimo para poder servir.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTKey) == "" {
		return errors.New("config: auth.jwt_key (o ARGENT_JWT_KEY) es obligatorio")
	}
	if strings.TrimSpace(c.Storage.DSN) == "" {
		return errors.New("config: storage.dsn (o ARGENT_STORAGE_DSN) es obligatorio")
	}
	return nil
}

// CacheTTL parsea el TTL del cache, con fallback a 2 minutos.
func (c *Config) CacheTTL() time.Duration {
	if d, err := time.ParseDuration(c.Cache.TTL); err == nil && d > 0 {
		return d
	}
	return 2 * time.Minute
}

func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("ARGENT_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("ARGENT_SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("ARGENT_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvStr("ARGENT_STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("ARGENT_STORAGE_MAX_OPEN_CONNS"); ok {
		c.Storage.MaxOpenConns = v
	}
	if v, ok := getEnvStr("ARGENT_CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("ARGENT_REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("ARGENT_JWT_KEY"); ok {
		c.Auth.JWTKey = v
	}
	if v, ok := getEnvStr("ARGENT_COOKIE_NAME"); ok {
		c.Auth.CookieName = v
	}
	if v, ok := getEnvBool("ARGENT_SECURE_COOKIE"); ok {
		c.Auth.SecureCookie = v
	}
	if v, ok := getEnvStr("ARGENT_GOOGLE_JWKS_URL"); ok {
		c.Google.JWKSURL = v
	}
	if v, ok := getEnvStr("ARGENT_GOOGLE_CLIENT_ID"); ok {
		c.Google.ClientID = v
	}
	if v, ok := getEnvStr("ARGENT_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func getEnvBool(key string) (bool, bool) {
	v := strings.ToLower(os.Getenv(key))
	switch v {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

func getEnvCSV(key string) ([]string, bool) {
	v := os.Getenv(key)
	if v == "" {
		return nil, false
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, len(out) > 0
}
