// internal/handlers/lobby_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/motord/motord/internal/auth"
	"github.com/motord/motord/internal/game"
	"github.com/motord/motord/internal/middleware"
)

// clientMessage is the envelope for everything a client sends over the lobby
// socket.
type clientMessage struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Guess string `json:"guess,omitempty"`
}

// LobbyWSHandler upgrades the connection and streams lobby events to the
// client. A valid player token binds the socket to that player, enabling
// chat, guesses, and implicit leave on disconnect; without one the socket is
// a spectator feed.
func (s *APIServer) LobbyWSHandler(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.PathValue("id"))
	lobbyID, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid lobby_id", http.StatusBadRequest)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{"lobby"},
		OriginPatterns: []string{"*"}, // Adjust in production
	})
	if err != nil {
		s.Logger.Warnf("websocket accept error: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler finished")

	if c.Subprotocol() != "lobby" {
		c.Close(BadSubprotocolError, "client must speak the lobby subprotocol")
		return
	}

	lob, exists := s.Registry.GetLobby(lobbyID)
	if !exists {
		c.Close(InvalidLobbyIDError, "lobby does not exist")
		return
	}

	// Token is optional: spectators get the event stream only.
	playerID := uuid.Nil
	if tok := bearerToken(r); tok != "" {
		sub, err := auth.VerifyPlayerToken(tok)
		if err != nil {
			c.Close(InvalidTokenError, "invalid player token")
			return
		}
		playerID = sub
	}

	middleware.LogWebSocketConnect(s.Logger, r.RemoteAddr, r.URL.Path)
	defer middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, nil)

	sub := s.Hub.Subscribe(lobbyID, playerID)
	defer s.Hub.Unsubscribe(lobbyID, sub)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.writePump(ctx, c, sub)
	s.readPump(ctx, c, lob, playerID)

	// A bound player who drops the socket leaves the lobby; closing the tab
	// must not strand a ghost seat.
	if playerID != uuid.Nil && lob.HasPlayer(playerID) {
		if err := lob.Leave(playerID); err != nil {
			s.Logger.WithError(err).Warnf("implicit leave failed for player %v", playerID)
		}
	}
}

// readPump consumes client messages until the socket closes.
func (s *APIServer) readPump(ctx context.Context, c *websocket.Conn, lob *game.Lobby, playerID uuid.UUID) {
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus != websocket.StatusNormalClosure && closeStatus != websocket.StatusGoingAway &&
				!strings.Contains(err.Error(), "context canceled") {
				s.Logger.Warnf("lobby %s: read error for player %v: %v", lob.ID, playerID, err)
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		var packet clientMessage
		if err := json.Unmarshal(msg, &packet); err != nil {
			s.Logger.Warnf("lobby %s: invalid json from player %v: %v", lob.ID, playerID, err)
			continue
		}

		switch packet.Type {
		case "ping":
			// Replied directly; pings are connection liveness, not lobby state.
			writeCtx, cancelWrite := context.WithTimeout(ctx, 5*time.Second)
			_ = c.Write(writeCtx, websocket.MessageText, []byte(`{"type":"pong"}`))
			cancelWrite()

		case "chat":
			if playerID == uuid.Nil {
				continue
			}
			text := strings.TrimSpace(packet.Text)
			if text == "" {
				continue
			}
			name := ""
			for _, p := range lob.Snapshot().Players {
				if p.ID == playerID {
					name = p.Name
					break
				}
			}
			if name == "" {
				continue // not a lobby member
			}
			s.Hub.Broadcast(lob.ID, game.Event{
				Type:       game.EventChat,
				PlayerID:   playerID.String(),
				PlayerName: name,
				Message:    text,
			})

		case "guess":
			if playerID == uuid.Nil {
				continue
			}
			if _, err := lob.SubmitGuess(playerID, packet.Guess); err != nil {
				s.Logger.Debugf("lobby %s: guess rejected for player %v: %v", lob.ID, playerID, err)
			}

		case "timeout":
			// Client thinks the fuse expired; the lobby re-checks its own clock.
			if _, err := lob.Timeout(time.Now()); err != nil && game.KindOf(err) != game.KindInvalidState {
				s.Logger.Warnf("lobby %s: timeout hint error: %v", lob.ID, err)
			}

		case "leave":
			if playerID != uuid.Nil && lob.HasPlayer(playerID) {
				if err := lob.Leave(playerID); err != nil {
					s.Logger.Warnf("lobby %s: leave failed for player %v: %v", lob.ID, playerID, err)
				}
			}
			return

		default:
			s.Logger.Debugf("lobby %s: unknown message type %q from player %v", lob.ID, packet.Type, playerID)
		}
	}
}

// writePump drains the subscriber's event channel onto the socket and sends
// periodic pings.
func (s *APIServer) writePump(ctx context.Context, c *websocket.Conn, sub *Subscriber) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Out:
			if !ok {
				c.Close(websocket.StatusGoingAway, "lobby closed")
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.Logger.Warnf("failed to marshal event for player %v: %v", sub.PlayerID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
