package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
	"github.com/jrsteele09/recruit-console/token"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func signed(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return raw
}

func withNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := token.NowTimeFunc
	token.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { token.NowTimeFunc = prev })
}

func TestDecode(t *testing.T) {
	withNow(t, fixedNow)

	t.Run("backend claims", func(t *testing.T) {
		raw := signed(t, jwtlib.MapClaims{
			"sub":  "mrodriguez",
			"role": "admin",
			"exp":  fixedNow.Add(time.Hour).Unix(),
		})

		identity, err := token.Decode(raw)
		require.NoError(t, err)
		require.Equal(t, "mrodriguez", identity.Subject)
		require.Equal(t, "mrodriguez", identity.Username)
		require.Equal(t, "admin", identity.Role)
		require.Empty(t, identity.UserID)
		require.NotNil(t, identity.ExpiresAt)
		require.Equal(t, fixedNow.Add(time.Hour).Unix(), identity.ExpiresAt.Unix())
		require.True(t, identity.IsAdmin())
		require.False(t, identity.Expired())
	})

	t.Run("numeric user id and explicit username", func(t *testing.T) {
		raw := signed(t, jwtlib.MapClaims{
			"sub":      "42",
			"user_id":  42,
			"username": "lquispe",
			"role":     "usuario",
		})

		identity, err := token.Decode(raw)
		require.NoError(t, err)
		require.Equal(t, "42", identity.UserID)
		require.Equal(t, "lquispe", identity.Username)
		require.Nil(t, identity.ExpiresAt)
		require.False(t, identity.IsAdmin())
		require.False(t, identity.Expired())
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := token.Decode("  ")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := token.Decode("not-a-jwt")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("malformed exp claim", func(t *testing.T) {
		raw := signed(t, jwtlib.MapClaims{"sub": "x", "exp": "tomorrow"})
		_, err := token.Decode(raw)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestIsExpired(t *testing.T) {
	withNow(t, fixedNow)

	fresh := signed(t, jwtlib.MapClaims{"sub": "a", "exp": fixedNow.Add(time.Minute).Unix()})
	stale := signed(t, jwtlib.MapClaims{"sub": "a", "exp": fixedNow.Add(-time.Minute).Unix()})
	noExp := signed(t, jwtlib.MapClaims{"sub": "a"})

	require.False(t, token.IsExpired(fresh))
	require.True(t, token.IsExpired(stale))
	require.False(t, token.IsExpired(noExp))
	require.True(t, token.IsExpired("garbage"))
	require.True(t, token.IsExpired(""))

	var nilIdentity *token.Identity
	require.True(t, nilIdentity.Expired())
	require.False(t, nilIdentity.IsAdmin())
}
