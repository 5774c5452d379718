package service

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/validator"

	"github.com/google/uuid"
)

// shareService pushes voluntary, one-shot shares (on-my-way, weather,
// battery) to the sender's friend set. Unlike proximity alerts, these are
// explicit user actions, so ghost mode does not suppress them.
type shareService struct {
	logger      *slog.Logger
	friends     FriendProvider
	users       UserStore
	broadcaster Broadcaster
}

func NewShareService(logger *slog.Logger, friends FriendProvider, users UserStore, broadcaster Broadcaster) ShareService {
	return &shareService{
		logger:      logger,
		friends:     friends,
		users:       users,
		broadcaster: broadcaster,
	}
}

func (s *shareService) OnMyWay(ctx context.Context, req domain.OnMyWayRequest) error {
	const op = "service.Share.OnMyWay"

	if err := validator.ValidateStruct(req); err != nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	senderID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidUserID)
	}

	payload := domain.FriendOnMyWayPayload{
		From:        senderID,
		Location:    domain.Location{Lat: req.Lat, Lng: req.Lng},
		Destination: req.Destination,
	}
	return s.fanOut(ctx, op, senderID, domain.EventFriendOnMyWay, payload)
}

func (s *shareService) ShareWeather(ctx context.Context, req domain.WeatherShareRequest) error {
	const op = "service.Share.ShareWeather"

	if err := validator.ValidateStruct(req); err != nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	senderID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidUserID)
	}

	payload := domain.WeatherSharePayload{
		From:    senderID,
		Weather: req.Weather,
	}
	return s.fanOut(ctx, op, senderID, domain.EventWeatherShare, payload)
}

// UpdateBattery persists the new level before fanning out, so a friend who
// reads the user record later sees the same number the event carried.
func (s *shareService) UpdateBattery(ctx context.Context, req domain.BatteryUpdateRequest) error {
	const op = "service.Share.UpdateBattery"

	if err := validator.ValidateStruct(req); err != nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	senderID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidUserID)
	}

	if err := s.users.SetBattery(ctx, senderID, req.BatteryLevel); err != nil {
		s.logger.Error("battery update failed", slog.String("op", op), slog.Any("error", err))
		return err
	}

	payload := domain.FriendBatteryUpdatePayload{
		UserID:       senderID,
		BatteryLevel: req.BatteryLevel,
	}
	return s.fanOut(ctx, op, senderID, domain.EventFriendBatteryUpdate, payload)
}

func (s *shareService) fanOut(ctx context.Context, op string, senderID uuid.UUID, event string, payload any) error {
	friends, err := s.friends.Friends(ctx, senderID)
	if err != nil {
		s.logger.Error("friend lookup failed", slog.String("op", op), slog.Any("error", err))
		return err
	}
	for _, f := range friends {
		s.broadcaster.Emit(ctx, f.UserID, event, payload)
	}
	s.logger.Debug("share delivered",
		slog.String("event", event),
		slog.String("sender_id", senderID.String()),
		slog.Int("recipients", len(friends)),
	)
	return nil
}
