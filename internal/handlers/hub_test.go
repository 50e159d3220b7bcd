// internal/handlers/hub_test.go
package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motord/motord/internal/game"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestHubBroadcastReachesAllSubscribers(t *testing.T) {
	h := NewHub(testLogger())
	lobbyID := uuid.New()

	a := h.Subscribe(lobbyID, uuid.New())
	b := h.Subscribe(lobbyID, uuid.Nil) // spectator

	h.Broadcast(lobbyID, game.Event{Type: game.EventPlayerJoined})

	assert.Equal(t, game.EventPlayerJoined, (<-a.Out).Type)
	assert.Equal(t, game.EventPlayerJoined, (<-b.Out).Type)
}

func TestHubBroadcastIsolatedPerLobby(t *testing.T) {
	h := NewHub(testLogger())
	lobbyA, lobbyB := uuid.New(), uuid.New()

	subA := h.Subscribe(lobbyA, uuid.New())
	subB := h.Subscribe(lobbyB, uuid.New())

	h.Broadcast(lobbyA, game.Event{Type: game.EventGameStarted})

	assert.Len(t, subA.Out, 1)
	assert.Len(t, subB.Out, 0)
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub(testLogger())
	lobbyID := uuid.New()

	s := h.Subscribe(lobbyID, uuid.New())
	h.Unsubscribe(lobbyID, s)

	_, open := <-s.Out
	assert.False(t, open)

	// Broadcasting after unsubscribe must not panic on the closed channel.
	h.Broadcast(lobbyID, game.Event{Type: game.EventChat})

	// Double unsubscribe is a no-op.
	h.Unsubscribe(lobbyID, s)
}

func TestHubFullChannelDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(testLogger())
	lobbyID := uuid.New()

	s := h.Subscribe(lobbyID, uuid.New())
	for i := 0; i < cap(s.Out)+10; i++ {
		h.Broadcast(lobbyID, game.Event{Type: game.EventChat})
	}
	// If delivery blocked this test would hang; reaching here is the point.
	assert.Len(t, s.Out, cap(s.Out))
}

func TestHubDropLobby(t *testing.T) {
	h := NewHub(testLogger())
	lobbyID := uuid.New()

	a := h.Subscribe(lobbyID, uuid.New())
	b := h.Subscribe(lobbyID, uuid.New())

	h.DropLobby(lobbyID)

	_, open := <-a.Out
	assert.False(t, open)
	_, open = <-b.Out
	assert.False(t, open)
}

func TestHubAttachWiresBroadcast(t *testing.T) {
	h := NewHub(testLogger())

	reg := newTestRegistry(t)
	l, _, err := reg.CreateLobby("Alice", "sv")
	require.NoError(t, err)
	h.Attach(l)

	s := h.Subscribe(l.ID, uuid.Nil)

	_, err = l.Join("Bob", "fr")
	require.NoError(t, err)

	ev := <-s.Out
	assert.Equal(t, game.EventPlayerJoined, ev.Type)
	require.NotNil(t, ev.Player)
	assert.Equal(t, "Bob", ev.Player.Name)
}
