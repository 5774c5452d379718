package realtime_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/realtime"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

// memChannel collects events in memory; full simulates a slow receiver.
type memChannel struct {
	mu     sync.Mutex
	events []domain.Event
	full   bool
	closed bool
}

func (c *memChannel) Send(event domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("closed")
	}
	if c.full {
		return errors.New("buffer full")
	}
	c.events = append(c.events, event)
	return nil
}

func (c *memChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *memChannel) received() []domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Event, len(c.events))
	copy(out, c.events)
	return out
}

// memQueue is an in-memory PendingQueue.
type memQueue struct {
	mu     sync.Mutex
	parked map[uuid.UUID][]domain.Event
}

func newMemQueue() *memQueue {
	return &memQueue{parked: make(map[uuid.UUID][]domain.Event)}
}

func (q *memQueue) Enqueue(_ context.Context, userID uuid.UUID, event domain.Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.parked[userID] = append(q.parked[userID], event)
	return nil
}

func (q *memQueue) Drain(_ context.Context, userID uuid.UUID) ([]domain.Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.parked[userID]
	delete(q.parked, userID)
	return events, nil
}

func TestEmit_DeliversToAllJoinedChannels(t *testing.T) {
	t.Parallel()

	b := realtime.NewBroadcaster(newTestLogger(), nil)
	defer b.Close()

	userID := uuid.New()
	phone := &memChannel{}
	laptop := &memChannel{}

	if err := b.Join(context.Background(), userID, phone); err != nil {
		t.Fatalf("join phone: %v", err)
	}
	if err := b.Join(context.Background(), userID, laptop); err != nil {
		t.Fatalf("join laptop: %v", err)
	}

	b.Emit(context.Background(), userID, domain.EventFriendBatteryUpdate, domain.FriendBatteryUpdatePayload{
		UserID:       uuid.New(),
		BatteryLevel: 42,
	})

	for _, ch := range []*memChannel{phone, laptop} {
		got := ch.received()
		if len(got) != 1 {
			t.Fatalf("expected 1 event, got %d", len(got))
		}
		if got[0].Name != domain.EventFriendBatteryUpdate {
			t.Fatalf("unexpected event name %q", got[0].Name)
		}
		var payload domain.FriendBatteryUpdatePayload
		if err := json.Unmarshal(got[0].Payload, &payload); err != nil {
			t.Fatalf("payload unmarshal: %v", err)
		}
		if payload.BatteryLevel != 42 {
			t.Fatalf("unexpected payload: %+v", payload)
		}
	}
}

func TestEmit_NoChannels_ParksInPendingQueue(t *testing.T) {
	t.Parallel()

	q := newMemQueue()
	b := realtime.NewBroadcaster(newTestLogger(), q)
	defer b.Close()

	userID := uuid.New()
	b.Emit(context.Background(), userID, domain.EventSOSResolved, domain.SOSResolvedPayload{Message: "all clear"})

	// joining later replays the parked event
	ch := &memChannel{}
	if err := b.Join(context.Background(), userID, ch); err != nil {
		t.Fatalf("join: %v", err)
	}

	got := ch.received()
	if len(got) != 1 || got[0].Name != domain.EventSOSResolved {
		t.Fatalf("parked event not replayed: %+v", got)
	}
}

func TestEmit_SlowChannel_IsSkippedNotWaitedOn(t *testing.T) {
	t.Parallel()

	b := realtime.NewBroadcaster(newTestLogger(), nil)
	defer b.Close()

	userID := uuid.New()
	slow := &memChannel{full: true}
	healthy := &memChannel{}

	_ = b.Join(context.Background(), userID, slow)
	_ = b.Join(context.Background(), userID, healthy)

	b.Emit(context.Background(), userID, domain.EventNearbyAlert, domain.NearbyAlertPayload{
		Friend:    uuid.New(),
		DistanceM: 12,
	})

	if len(slow.received()) != 0 {
		t.Fatal("slow channel should have dropped the event")
	}
	if len(healthy.received()) != 1 {
		t.Fatal("healthy channel should still receive the event")
	}
}

func TestLeave_StopsDelivery(t *testing.T) {
	t.Parallel()

	b := realtime.NewBroadcaster(newTestLogger(), nil)
	defer b.Close()

	userID := uuid.New()
	ch := &memChannel{}
	_ = b.Join(context.Background(), userID, ch)

	b.Leave(userID, ch)
	if n := b.ChannelCount(userID); n != 0 {
		t.Fatalf("expected empty room, got %d channels", n)
	}

	b.Emit(context.Background(), userID, domain.EventSOSResolved, domain.SOSResolvedPayload{Message: "x"})
	if len(ch.received()) != 0 {
		t.Fatal("left channel still received an event")
	}
}

func TestClose_ClosesChannelsAndRefusesJoin(t *testing.T) {
	t.Parallel()

	b := realtime.NewBroadcaster(newTestLogger(), nil)

	userID := uuid.New()
	ch := &memChannel{}
	_ = b.Join(context.Background(), userID, ch)

	b.Close()

	ch.mu.Lock()
	closed := ch.closed
	ch.mu.Unlock()
	if !closed {
		t.Fatal("channel not closed on broadcaster close")
	}

	if err := b.Join(context.Background(), userID, &memChannel{}); err == nil {
		t.Fatal("join after close must fail")
	}

	// emit after close is a no-op, not a panic
	b.Emit(context.Background(), userID, domain.EventSOSResolved, domain.SOSResolvedPayload{})
}
