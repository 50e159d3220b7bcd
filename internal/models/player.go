// internal/models/player.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Player is a single participant in one lobby. Created on join, removed on
// leave; a player never moves between lobbies.
type Player struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Language string    `json:"language"`
	IsHost   bool      `json:"is_host"`
	Ready    bool      `json:"ready"`
	JoinedAt time.Time `json:"joined_at"`

	Score  int `json:"score"`
	Streak int `json:"streak"`

	// Running maxima/minima for the end-of-game summary.
	HighestStreak int     `json:"highest_streak"`
	FastestGuess  float64 `json:"fastest_guess"`
}
