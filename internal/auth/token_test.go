package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("secret-a")

	signed, err := tokens.Issue("me@x")
	require.NoError(t, err)

	email, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "me@x", email)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	signed, err := NewTokenService("secret-a").Issue("me@x")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbageRejected(t *testing.T) {
	_, err := NewTokenService("secret-a").Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
