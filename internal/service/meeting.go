package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/config"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/keylock"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/validator"

	"github.com/google/uuid"
)

// meetingTracker runs the per-pair None -> Open -> Closed state machine.
// Open sessions live in memory (they are transient state, like the
// proximity edges); only closed sessions reach storage. The per-pair lock
// serializes Start/End arriving from both endpoints of a pair, which is
// what keeps the at-most-one-open-session invariant.
type meetingTracker struct {
	logger         *slog.Logger
	store          MeetingStore
	minDurationMin int

	pairLocks *keylock.Striped

	mu   sync.Mutex
	open map[domain.PairKey]*domain.MeetingSession
}

func NewMeetingTracker(logger *slog.Logger, cfg config.MeetingConfig, store MeetingStore) MeetingService {
	return &meetingTracker{
		logger:         logger,
		store:          store,
		minDurationMin: cfg.MinDurationMin,
		pairLocks:      keylock.New(128),
		open:           make(map[domain.PairKey]*domain.MeetingSession),
	}
}

func orderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if b.String() < a.String() {
		return b, a
	}
	return a, b
}

// Start opens a session for the pair unless one is already open. Duplicate
// calls (both endpoints crossing in the same instant) are absorbed as
// no-ops, not errors.
func (t *meetingTracker) Start(ctx context.Context, a, b uuid.UUID, lat, lng float64, at time.Time) error {
	const op = "service.Meeting.Start"

	if a == uuid.Nil || b == uuid.Nil || a == b {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	key := domain.NewPairKey(a, b)
	t.pairLocks.Lock(key.String())
	defer t.pairLocks.Unlock(key.String())

	t.mu.Lock()
	_, exists := t.open[key]
	t.mu.Unlock()
	if exists {
		return nil
	}

	userA, userB := orderPair(a, b)
	session := &domain.MeetingSession{
		ID:          uuid.New(),
		UserA:       userA,
		UserB:       userB,
		StartedAt:   at,
		CentroidLat: lat,
		CentroidLng: lng,
	}

	t.mu.Lock()
	t.open[key] = session
	t.mu.Unlock()

	t.logger.Info("meeting session opened",
		slog.String("pair", key.String()),
		slog.Time("started_at", at),
	)
	return nil
}

// End closes the open session for the pair, if any, and persists it as a
// history record. Calling End with nothing open is a no-op.
func (t *meetingTracker) End(ctx context.Context, a, b uuid.UUID, at time.Time) error {
	const op = "service.Meeting.End"

	if a == uuid.Nil || b == uuid.Nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	key := domain.NewPairKey(a, b)
	t.pairLocks.Lock(key.String())
	defer t.pairLocks.Unlock(key.String())

	t.mu.Lock()
	session, exists := t.open[key]
	if exists {
		delete(t.open, key)
	}
	t.mu.Unlock()
	if !exists {
		return nil
	}

	ended := at
	if ended.Before(session.StartedAt) {
		// clock skew between the two reporting devices; clamp rather than
		// record a negative duration
		ended = session.StartedAt
	}
	session.EndedAt = &ended
	session.DurationMin = int(ended.Sub(session.StartedAt).Minutes())

	if err := t.store.Append(ctx, session); err != nil {
		t.logger.Error("meeting history append failed",
			slog.String("op", op),
			slog.String("pair", key.String()),
			slog.Any("error", err),
		)
		return err
	}

	t.logger.Info("meeting session closed",
		slog.String("pair", key.String()),
		slog.Int("duration_min", session.DurationMin),
	)
	return nil
}

func (t *meetingTracker) History(ctx context.Context, req domain.MeetingHistoryRequest) (domain.MeetingHistoryResponse, error) {
	const op = "service.Meeting.History"

	if err := validator.ValidateStruct(req); err != nil {
		return domain.MeetingHistoryResponse{}, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	userA, err := uuid.Parse(req.UserA)
	if err != nil {
		return domain.MeetingHistoryResponse{}, fmt.Errorf("%s: %w", op, e.ErrInvalidUserID)
	}
	userB, err := uuid.Parse(req.UserB)
	if err != nil {
		return domain.MeetingHistoryResponse{}, fmt.Errorf("%s: %w", op, e.ErrInvalidUserID)
	}

	minDuration := req.MinDurationMin
	if minDuration < t.minDurationMin {
		minDuration = t.minDurationMin
	}

	sessions, err := t.store.HistoryForPair(ctx, userA, userB, minDuration)
	if err != nil {
		return domain.MeetingHistoryResponse{}, err
	}

	return domain.MeetingHistoryResponse{
		Meetings: sessions,
		Total:    len(sessions),
	}, nil
}
