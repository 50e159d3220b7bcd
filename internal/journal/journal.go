// internal/journal/journal.go
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/motord/motord/internal/game"
)

// DefaultQueueName is the Redis list that receives completed-round records.
// An out-of-process stats consumer drains it; the game server never reads it
// back.
var DefaultQueueName = "motord_rounds"

// RoundRecord is the journal entry for one completed round.
type RoundRecord struct {
	LobbyID   uuid.UUID         `json:"lobby_id"`
	RoundIdx  int               `json:"round_idx"`
	Summary   game.RoundSummary `json:"summary"`
	Timestamp int64             `json:"timestamp"`
}

// Journal pushes round summaries onto a Redis list. A nil Journal is valid
// and drops everything, so callers don't need to branch on configuration.
type Journal struct {
	rdb   *redis.Client
	queue string
}

// Connect initializes a Journal against the given Redis address and database
// index. The queue name can be overridden with JOURNAL_QUEUE_NAME.
func Connect(addr string, db int) (*Journal, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("journal: connect to Redis at %s: %w", addr, err)
	}
	queue := DefaultQueueName
	if q := os.Getenv("JOURNAL_QUEUE_NAME"); q != "" {
		queue = q
	}
	return &Journal{rdb: rdb, queue: queue}, nil
}

// PublishRound serializes the record and RPUSHes it. Safe on a nil Journal.
func (j *Journal) PublishRound(ctx context.Context, rec RoundRecord) error {
	if j == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("journal: marshal round record: %w", err)
	}
	if err := j.rdb.RPush(ctx, j.queue, data).Err(); err != nil {
		return fmt.Errorf("journal: RPush to %q: %w", j.queue, err)
	}
	return nil
}

// Close releases the Redis client. Safe on a nil Journal.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.rdb.Close()
}
