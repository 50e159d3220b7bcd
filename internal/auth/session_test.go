// internal/auth/session_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerTokenRoundTrip(t *testing.T) {
	require.NoError(t, Init())

	playerID := uuid.New()
	token, err := CreatePlayerToken(playerID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := VerifyPlayerToken(token)
	require.NoError(t, err)
	assert.Equal(t, playerID, got)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	require.NoError(t, Init())

	_, err := VerifyPlayerToken("not.a.jwt")
	assert.Error(t, err)

	_, err = VerifyPlayerToken("")
	assert.Error(t, err)
}

func TestVerifyRejectsTokenFromOtherKey(t *testing.T) {
	require.NoError(t, Init())
	token, err := CreatePlayerToken(uuid.New())
	require.NoError(t, err)

	// Re-initializing rotates the signing key; old tokens stop verifying.
	require.NoError(t, Init())
	_, err = VerifyPlayerToken(token)
	assert.Error(t, err)
}
