package service

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/validator"
)

const defaultStatsMinutes = 60

type statsService struct {
	logger *slog.Logger
	store  StatsStore
}

func NewStatsService(logger *slog.Logger, store StatsStore) StatsService {
	return &statsService{logger: logger, store: store}
}

func (s *statsService) GetStats(ctx context.Context, req domain.StatsRequest) (*domain.PresenceStats, error) {
	const op = "service.Stats.GetStats"

	if err := validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	minutes := req.Minutes
	if minutes == 0 {
		minutes = defaultStatsMinutes
	}

	active, err := s.store.CountActiveUsers(ctx, minutes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	meetings, err := s.store.CountMeetingsClosed(ctx, minutes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	alerts, err := s.store.CountActiveAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &domain.PresenceStats{
		ActiveUsers:    active,
		MeetingsClosed: meetings,
		ActiveAlerts:   alerts,
		Minutes:        minutes,
	}, nil
}
