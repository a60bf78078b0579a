package errors_test

import (
	"errors"
	"testing"

	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, apperrors.Wrapf(nil, "RedisRepo.Get"))

	err := apperrors.Wrapf(apperrors.ErrNoSession, "load %s", "session.json")
	require.EqualError(t, err, "load session.json: no active session")
	require.True(t, apperrors.Is(err, apperrors.ErrNoSession))
	require.False(t, apperrors.Is(err, apperrors.ErrNetwork))

	boom := errors.New("boom")
	require.Equal(t, boom, errors.Unwrap(apperrors.Wrapf(boom, "x")))
}
