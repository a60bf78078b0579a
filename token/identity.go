// Package token decodes the bearer tokens issued by the recruitment backend.
//
// The client never holds the signing key, so tokens are parsed without signature
// verification. The decoded Identity is informational only; the backend remains the
// authority on whether a token is accepted.
package token

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const (
	RoleAdmin = "admin"
	RoleUser  = "usuario"
)

// Identity is the fixed set of claims the console relies on.
type Identity struct {
	Subject   string     // "sub" claim; the backend puts the username here
	UserID    string     // "user_id" / "uid" / "id" when present
	Username  string     // "username" claim, falling back to Subject
	Role      string     // "role" claim: admin or usuario
	ExpiresAt *time.Time // "exp" claim, nil when the token never expires
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Expired reports whether the identity's exp claim is in the past.
func (i *Identity) Expired() bool {
	if i == nil {
		return true
	}
	return i.ExpiresAt != nil && !NowTimeFunc().Before(*i.ExpiresAt)
}

// Decode extracts the Identity from a raw JWT without verifying its signature.
func Decode(raw string) (*Identity, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("token.Decode: %w: empty token", apperrors.ErrInvalidToken)
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("token.Decode: %w: %w", apperrors.ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, fmt.Errorf("token.Decode: %w: error extracting claims", apperrors.ErrInvalidToken)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("token.Decode: %w: %w", apperrors.ErrInvalidToken, err)
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	username, _ := claims["username"].(string)
	if username == "" {
		username = sub
	}

	identity := &Identity{
		Subject:  sub,
		UserID:   stringClaim(claims, "user_id", "uid", "id"),
		Username: username,
		Role:     role,
	}
	if exp != nil {
		t := exp.Time
		identity.ExpiresAt = &t
	}
	return identity, nil
}

// IsExpired reports whether raw is past its exp claim. A token that cannot be decoded
// counts as expired; a token without exp does not.
func IsExpired(raw string) bool {
	identity, err := Decode(raw)
	if err != nil {
		return true
	}
	return identity.Expired()
}

// stringClaim returns the first of keys present in claims, rendered as a string.
func stringClaim(claims jwtlib.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return ""
}
