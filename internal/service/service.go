package service

import (
	"context"
	"time"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

// FriendProvider supplies the symmetric friend set for a user. Implemented
// by the friendship storage; from the engine's point of view it is an
// external collaborator.
type FriendProvider interface {
	Friends(ctx context.Context, userID uuid.UUID) ([]domain.Friend, error)
}

type LocationStore interface {
	Upsert(ctx context.Context, sample *domain.LocationSample) error
	Get(ctx context.Context, userID uuid.UUID) (*domain.LocationSample, error)
	GetMany(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*domain.LocationSample, error)
}

// SampleCache is the hot-path read cache in front of LocationStore.
type SampleCache interface {
	Set(ctx context.Context, sample *domain.LocationSample) error
	GetMany(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*domain.LocationSample, error)
}

type MeetingStore interface {
	Append(ctx context.Context, session *domain.MeetingSession) error
	HistoryForPair(ctx context.Context, userA, userB uuid.UUID, minDurationMin int) ([]*domain.MeetingSession, error)
}

type SOSStore interface {
	Create(ctx context.Context, alert *domain.SOSAlert) error
	Get(ctx context.Context, id uuid.UUID) (*domain.SOSAlert, error)
	MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error
	ListActive(ctx context.Context) ([]*domain.SOSAlert, error)
}

type UserStore interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	SetBattery(ctx context.Context, id uuid.UUID, level int) error
}

type StatsStore interface {
	CountActiveUsers(ctx context.Context, minutes int) (int64, error)
	CountMeetingsClosed(ctx context.Context, minutes int) (int64, error)
	CountActiveAlerts(ctx context.Context) (int64, error)
}

// Broadcaster is the per-user event fan-out. Emit is fire-and-forget.
type Broadcaster interface {
	Emit(ctx context.Context, target uuid.UUID, name string, payload any)
}

type ProximityService interface {
	ReportLocation(ctx context.Context, req domain.ReportLocationRequest) (domain.ReportLocationResponse, error)
}

type MeetingService interface {
	Start(ctx context.Context, a, b uuid.UUID, lat, lng float64, at time.Time) error
	End(ctx context.Context, a, b uuid.UUID, at time.Time) error
	History(ctx context.Context, req domain.MeetingHistoryRequest) (domain.MeetingHistoryResponse, error)
}

type SOSService interface {
	Send(ctx context.Context, req domain.SendSOSRequest) (uuid.UUID, error)
	Resolve(ctx context.Context, alertID, requesterID uuid.UUID, message string) error
	Get(ctx context.Context, id uuid.UUID) (*domain.SOSAlert, error)
	ListActive(ctx context.Context) ([]*domain.SOSAlert, error)
}

type ShareService interface {
	OnMyWay(ctx context.Context, req domain.OnMyWayRequest) error
	ShareWeather(ctx context.Context, req domain.WeatherShareRequest) error
	UpdateBattery(ctx context.Context, req domain.BatteryUpdateRequest) error
}

type StatsService interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.PresenceStats, error)
}

type Service struct {
	Proximity ProximityService
	Meetings  MeetingService
	SOS       SOSService
	Share     ShareService
	Stats     StatsService
}

func NewService(
	proximity ProximityService,
	meetings MeetingService,
	sos SOSService,
	share ShareService,
	stats StatsService,
) *Service {
	return &Service{
		Proximity: proximity,
		Meetings:  meetings,
		SOS:       sos,
		Share:     share,
		Stats:     stats,
	}
}

func (s *Service) ReportLocation(ctx context.Context, req domain.ReportLocationRequest) (domain.ReportLocationResponse, error) {
	return s.Proximity.ReportLocation(ctx, req)
}

func (s *Service) SendSOS(ctx context.Context, req domain.SendSOSRequest) (uuid.UUID, error) {
	return s.SOS.Send(ctx, req)
}

func (s *Service) ResolveSOS(ctx context.Context, alertID, requesterID uuid.UUID, message string) error {
	return s.SOS.Resolve(ctx, alertID, requesterID, message)
}
