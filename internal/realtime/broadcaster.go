// Package realtime implements per-user event fan-out. A Broadcaster is an
// injected instance with an explicit lifecycle; nothing in here is
// process-wide state.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"

	"github.com/google/uuid"
)

// Channel is one delivery endpoint (device/session) of a user. Send must
// not block: implementations buffer internally and return an error when the
// buffer is full or the channel is gone.
type Channel interface {
	Send(event domain.Event) error
	Close() error
}

// PendingQueue parks events for users with no joined channel. Optional.
type PendingQueue interface {
	Enqueue(ctx context.Context, userID uuid.UUID, event domain.Event) error
	Drain(ctx context.Context, userID uuid.UUID) ([]domain.Event, error)
}

// Broadcaster maps user identities to their currently joined channels and
// multicasts named events to them. Delivery is at-most-once and
// fire-and-forget: a slow or vanished receiver is skipped, never waited on.
type Broadcaster struct {
	logger  *slog.Logger
	pending PendingQueue // nil disables offline parking

	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[Channel]struct{}
	closed bool
}

func NewBroadcaster(logger *slog.Logger, pending PendingQueue) *Broadcaster {
	return &Broadcaster{
		logger:  logger,
		pending: pending,
		rooms:   make(map[uuid.UUID]map[Channel]struct{}),
	}
}

// Join registers a channel under the user's room and replays any parked
// events into it. A user may hold any number of simultaneous channels.
func (b *Broadcaster) Join(ctx context.Context, userID uuid.UUID, ch Channel) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return e.ErrBroadcasterClosed
	}
	room, ok := b.rooms[userID]
	if !ok {
		room = make(map[Channel]struct{})
		b.rooms[userID] = room
	}
	room[ch] = struct{}{}
	total := len(room)
	b.mu.Unlock()

	b.logger.Info("presence channel joined",
		slog.String("user_id", userID.String()),
		slog.Int("channels", total),
	)

	if b.pending != nil {
		events, err := b.pending.Drain(ctx, userID)
		if err != nil {
			b.logger.Error("pending drain failed", slog.String("user_id", userID.String()), slog.Any("error", err))
			return nil
		}
		for _, ev := range events {
			if err := ch.Send(ev); err != nil {
				b.logger.Warn("pending replay dropped", slog.String("event", ev.Name), slog.Any("error", err))
			}
		}
	}

	return nil
}

// Leave removes the channel from the user's room. Safe to call for a
// channel that was never joined.
func (b *Broadcaster) Leave(userID uuid.UUID, ch Channel) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room, ok := b.rooms[userID]
	if !ok {
		return
	}
	delete(room, ch)
	if len(room) == 0 {
		delete(b.rooms, userID)
	}
}

// Emit delivers a named event to every channel joined under the target's
// room. With no channel joined the event goes to the pending queue (or is
// dropped when parking is disabled). Never blocks on a receiver.
func (b *Broadcaster) Emit(ctx context.Context, target uuid.UUID, name string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("event payload marshal failed", slog.String("event", name), slog.Any("error", err))
		return
	}
	event := domain.Event{
		Name:      name,
		Payload:   raw,
		EmittedAt: time.Now().UTC(),
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	room := b.rooms[target]
	channels := make([]Channel, 0, len(room))
	for ch := range room {
		channels = append(channels, ch)
	}
	b.mu.RUnlock()

	if len(channels) == 0 {
		if b.pending != nil {
			if err := b.pending.Enqueue(ctx, target, event); err != nil {
				b.logger.Warn("pending enqueue failed",
					slog.String("user_id", target.String()),
					slog.String("event", name),
					slog.Any("error", err),
				)
			}
		}
		return
	}

	for _, ch := range channels {
		if err := ch.Send(event); err != nil {
			b.logger.Warn("event dropped for slow channel",
				slog.String("user_id", target.String()),
				slog.String("event", name),
				slog.Any("error", err),
			)
		}
	}
}

// Close tears the broadcaster down: every channel is closed and further
// Join/Emit calls are refused. Part of the explicit lifecycle contract.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for userID, room := range b.rooms {
		for ch := range room {
			if err := ch.Close(); err != nil {
				b.logger.Warn("channel close failed", slog.String("user_id", userID.String()), slog.Any("error", err))
			}
		}
	}
	b.rooms = make(map[uuid.UUID]map[Channel]struct{})
}

// ChannelCount reports how many channels a user currently has joined.
func (b *Broadcaster) ChannelCount(userID uuid.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[userID])
}
