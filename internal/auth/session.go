package auth

import (
	"encoding/json"
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/argent/internal/domain"
)

// SessionTTL es la vida fija de una sesión. Corta a propósito: el token
// embebe una copia del usuario y cambios de rol/nombre quedan stale hasta
// el próximo login (staleness aceptada, no bug).
const SessionTTL = 30 * time.Minute

// ErrInvalidSession cubre firma inválida, estructura malformada y expiración.
// Indistinguibles a propósito: no filtramos qué chequeo falló.
var ErrInvalidSession = errors.New("auth: invalid session token")

// IssueSessionToken emite un token de sesión HS256 con claims
// {exp, user}: exp = now + ttl en segundos epoch, user embebido completo.
// Sin aleatoriedad más allá del timestamp.
func IssueSessionToken(user domain.User, ttl time.Duration, signingKey []byte) (string, time.Time, error) {
	exp := time.Now().UTC().Add(ttl).Truncate(time.Second)
	claims := jwtv5.MapClaims{
		"exp":  exp.Unix(),
		"user": user,
	}
	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tok.SignedString(signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseSessionToken verifica la firma y la expiración y devuelve el usuario
// embebido. Expiración manual con semántica de borde estricta:
// now_seconds >= exp significa expirado.
func ParseSessionToken(token string, signingKey []byte) (domain.User, error) {
	parser := jwtv5.NewParser(
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithoutClaimsValidation(),
	)
	tok, err := parser.Parse(token, func(t *jwtv5.Token) (any, error) {
		return signingKey, nil
	})
	if err != nil || !tok.Valid {
		return domain.User{}, ErrInvalidSession
	}

	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return domain.User{}, ErrInvalidSession
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Now().UTC().Unix() >= int64(exp) {
		return domain.User{}, ErrInvalidSession
	}

	raw, ok := claims["user"]
	if !ok {
		return domain.User{}, ErrInvalidSession
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return domain.User{}, ErrInvalidSession
	}
	var user domain.User
	if err := json.Unmarshal(b, &user); err != nil {
		return domain.User{}, ErrInvalidSession
	}
	if user.Email == "" || !user.Role.Valid() {
		return domain.User{}, ErrInvalidSession
	}
	return user, nil
}
