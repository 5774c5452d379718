package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// EventQueue parks presence events for users with no live channel so a
// reconnecting client catches up on what it missed. Best-effort only:
// entries expire, and a failed enqueue is dropped (delivery stays
// at-most-once end to end).
type EventQueue struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	max    int64
}

func NewEventQueue(client *goredis.Client) *EventQueue {
	return &EventQueue{
		client: client,
		prefix: "presence:pending:",
		ttl:    24 * time.Hour,
		max:    100,
	}
}

func (q *EventQueue) Enqueue(ctx context.Context, userID uuid.UUID, event domain.Event) error {
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := q.prefix + userID.String()
	pipe := q.client.TxPipeline()
	pipe.LPush(ctx, key, b)
	pipe.LTrim(ctx, key, 0, q.max-1)
	pipe.Expire(ctx, key, q.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Drain pops everything pending for the user, oldest first.
func (q *EventQueue) Drain(ctx context.Context, userID uuid.UUID) ([]domain.Event, error) {
	key := q.prefix + userID.String()

	pipe := q.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && err != goredis.Nil {
		return nil, err
	}

	raw := rangeCmd.Val()
	events := make([]domain.Event, 0, len(raw))
	// LPush stores newest at the head; walk backwards to restore order.
	for i := len(raw) - 1; i >= 0; i-- {
		var ev domain.Event
		if err := json.Unmarshal([]byte(raw[i]), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}
