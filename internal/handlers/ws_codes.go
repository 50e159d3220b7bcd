// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the lobby event stream. These provide
// more specific reasons for closure than standard codes.
const (
	BadSubprotocolError = 3000 // Client connected with an unsupported subprotocol.
	InvalidTokenError   = 3001 // Provided player token was invalid or expired.
	InvalidLobbyIDError = 3003 // Target lobby ID in the WS URL does not exist or is invalid.
)
