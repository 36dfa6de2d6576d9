package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-api/internal/apperrors"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)

	token, err := tokens.Issue("u1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tokens.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "u1", userID)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue("u1")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Validate(token)
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := NewTokenManager("secret", -time.Minute).Issue("u1")
	require.NoError(t, err)

	_, err = NewTokenManager("secret", -time.Minute).Validate(token)
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := NewTokenManager("secret", time.Hour).Validate("not.a.token")
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("supersecret")
	require.NoError(t, err)
	require.NotEqual(t, "supersecret", hashed)

	require.True(t, CheckPassword(hashed, "supersecret"))
	require.False(t, CheckPassword(hashed, "wrong"))
}
