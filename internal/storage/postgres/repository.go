package postgres

import (
	"context"
	"time"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"

	"github.com/google/uuid"
)

type LocationRepository interface {
	// Upsert stores the sample with last-write-wins semantics. A sample
	// older than the stored recorded_at returns e.ErrStaleSample.
	Upsert(ctx context.Context, sample *domain.LocationSample) error
	Get(ctx context.Context, userID uuid.UUID) (*domain.LocationSample, error)
	GetMany(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*domain.LocationSample, error)
}

type MeetingRepository interface {
	// Append writes a closed session to meeting_history. Append-only.
	Append(ctx context.Context, session *domain.MeetingSession) error
	HistoryForPair(ctx context.Context, userA, userB uuid.UUID, minDurationMin int) ([]*domain.MeetingSession, error)
}

type SOSRepository interface {
	Create(ctx context.Context, alert *domain.SOSAlert) error
	Get(ctx context.Context, id uuid.UUID) (*domain.SOSAlert, error)
	MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error
	ListActive(ctx context.Context) ([]*domain.SOSAlert, error)
}

type FriendRepository interface {
	Friends(ctx context.Context, userID uuid.UUID) ([]domain.Friend, error)
	// Add and Remove touch the single bidirectional edge atomically so the
	// graph can never hold a one-sided friendship.
	Add(ctx context.Context, a, b uuid.UUID) error
	Remove(ctx context.Context, a, b uuid.UUID) error
}

type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	SetBattery(ctx context.Context, id uuid.UUID, level int) error
}

type StatsRepository interface {
	CountActiveUsers(ctx context.Context, minutes int) (int64, error)
	CountMeetingsClosed(ctx context.Context, minutes int) (int64, error)
	CountActiveAlerts(ctx context.Context) (int64, error)
}

func (p *Postgres) Locations() LocationRepository { return p.Location }
func (p *Postgres) Meetings() MeetingRepository   { return p.Meeting }
func (p *Postgres) Alerts() SOSRepository         { return p.SOS }
func (p *Postgres) FriendGraph() FriendRepository { return p.Friend }
func (p *Postgres) Users() UserRepository         { return p.User }
func (p *Postgres) Stats() StatsRepository        { return p.Stat }
