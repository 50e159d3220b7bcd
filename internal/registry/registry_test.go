// internal/registry/registry_test.go
package registry

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motord/motord/internal/game"
	"github.com/motord/motord/internal/words"
)

func testProvider(t *testing.T) *words.List {
	t.Helper()
	l, err := words.NewList([]words.Entry{
		{
			Word:         "dog",
			Language:     "en",
			Difficulty:   1,
			Translations: map[string]string{"sv": "hund", "fr": "chien"},
		},
	})
	require.NoError(t, err)
	return l
}

func TestCreateAndGetLobby(t *testing.T) {
	r := New(game.DefaultConfig(), testProvider(t))

	l, host, err := r.CreateLobby("Alice", "sv")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
	assert.True(t, host.IsHost)

	got, ok := r.GetLobby(l.ID)
	require.True(t, ok)
	assert.Same(t, l, got)

	_, ok = r.GetLobby(uuid.New())
	assert.False(t, ok)
}

func TestInviteCodeLookup(t *testing.T) {
	r := New(game.DefaultConfig(), testProvider(t))

	l, _, err := r.CreateLobby("Alice", "sv")
	require.NoError(t, err)
	require.Len(t, l.InviteCode, 6)
	assert.Equal(t, strings.ToUpper(l.InviteCode), l.InviteCode)

	got, ok := r.GetLobbyByCode(l.InviteCode)
	require.True(t, ok)
	assert.Same(t, l, got)

	// Lookup is case-insensitive and trims whitespace.
	got, ok = r.GetLobbyByCode("  " + strings.ToLower(l.InviteCode) + " ")
	require.True(t, ok)
	assert.Same(t, l, got)

	_, ok = r.GetLobbyByCode("NOPE99")
	assert.False(t, ok)
}

func TestCreateLobbyValidationPropagates(t *testing.T) {
	r := New(game.DefaultConfig(), testProvider(t))

	_, _, err := r.CreateLobby("", "sv")
	assert.Equal(t, game.KindValidation, game.KindOf(err))
	assert.Equal(t, 0, r.Len(), "a failed create must not register anything")
}

func TestRemoveLobbyIdempotent(t *testing.T) {
	r := New(game.DefaultConfig(), testProvider(t))

	l, _, err := r.CreateLobby("Alice", "sv")
	require.NoError(t, err)

	r.RemoveLobby(l.ID)
	assert.Equal(t, 0, r.Len())
	_, ok := r.GetLobbyByCode(l.InviteCode)
	assert.False(t, ok, "invite code must be released with the lobby")

	r.RemoveLobby(l.ID) // no-op
	assert.Equal(t, 0, r.Len())
}

func TestEmptyLobbyIsRemoved(t *testing.T) {
	r := New(game.DefaultConfig(), testProvider(t))

	l, host, err := r.CreateLobby("Alice", "sv")
	require.NoError(t, err)
	bob, err := l.Join("Bob", "fr")
	require.NoError(t, err)

	require.NoError(t, l.Leave(bob.ID))
	assert.Equal(t, 1, r.Len(), "lobby survives while players remain")

	require.NoError(t, l.Leave(host.ID))
	assert.Equal(t, 0, r.Len(), "last leave destroys the lobby")
	_, ok := r.GetLobby(l.ID)
	assert.False(t, ok)
}
