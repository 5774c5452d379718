package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/validator"

	"github.com/google/uuid"
)

// sosService runs the Active -> Resolved alert lifecycle. Alerts are
// append-only audit records; resolve is the only mutation and it happens
// at most once.
type sosService struct {
	logger      *slog.Logger
	alerts      SOSStore
	friends     FriendProvider
	broadcaster Broadcaster
}

func NewSOSService(logger *slog.Logger, alerts SOSStore, friends FriendProvider, broadcaster Broadcaster) SOSService {
	return &sosService{
		logger:      logger,
		alerts:      alerts,
		friends:     friends,
		broadcaster: broadcaster,
	}
}

// Send creates an Active alert, snapshots the sender's current friend set
// as the notified audience, persists, then fans out. Ghost mode does not
// apply here: an emergency reaches every friend.
func (s *sosService) Send(ctx context.Context, req domain.SendSOSRequest) (uuid.UUID, error) {
	const op = "service.SOS.Send"

	if err := validator.ValidateStruct(req); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return uuid.Nil, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}

	senderID, err := uuid.Parse(req.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, e.ErrInvalidUserID)
	}

	friends, err := s.friends.Friends(ctx, senderID)
	if err != nil {
		s.logger.Error("friend lookup failed", slog.String("op", op), slog.Any("error", err))
		return uuid.Nil, err
	}

	notified := make([]uuid.UUID, 0, len(friends))
	for _, f := range friends {
		notified = append(notified, f.UserID)
	}

	alert := &domain.SOSAlert{
		ID:            uuid.New(),
		SenderID:      senderID,
		Lat:           req.Lat,
		Lng:           req.Lng,
		BatteryLevel:  req.BatteryLevel,
		Message:       req.Message,
		NotifiedUsers: notified,
		Status:        domain.SOSActive,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.alerts.Create(ctx, alert); err != nil {
		s.logger.Error("alert persist failed", slog.String("op", op), slog.Any("error", err))
		return uuid.Nil, err
	}

	payload := domain.SOSAlertPayload{
		From:         senderID,
		Location:     domain.Location{Lat: req.Lat, Lng: req.Lng},
		BatteryLevel: req.BatteryLevel,
		Message:      req.Message,
	}
	for _, target := range notified {
		s.broadcaster.Emit(ctx, target, domain.EventSOSAlert, payload)
	}

	s.logger.Info("sos alert sent",
		slog.String("alert_id", alert.ID.String()),
		slog.String("sender_id", senderID.String()),
		slog.Int("notified", len(notified)),
	)
	return alert.ID, nil
}

// Resolve transitions Active -> Resolved. Only the original sender may
// resolve; resolving an already-Resolved alert is a silent no-op with no
// second broadcast.
func (s *sosService) Resolve(ctx context.Context, alertID, requesterID uuid.UUID, message string) error {
	const op = "service.SOS.Resolve"

	if alertID == uuid.Nil || requesterID == uuid.Nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	alert, err := s.alerts.Get(ctx, alertID)
	if err != nil {
		return err
	}

	if alert.SenderID != requesterID {
		s.logger.Warn("sos resolve rejected",
			slog.String("alert_id", alertID.String()),
			slog.String("requester_id", requesterID.String()),
		)
		return fmt.Errorf("%s: %w", op, e.ErrNotSender)
	}

	if alert.Status == domain.SOSResolved {
		return nil
	}

	// the store flips Active -> Resolved atomically; a racing resolve that
	// lost the transition gets ErrAlreadyResolved and must not broadcast
	now := time.Now().UTC()
	if err := s.alerts.MarkResolved(ctx, alertID, now); err != nil {
		if errors.Is(err, e.ErrAlreadyResolved) {
			return nil
		}
		s.logger.Error("alert resolve persist failed", slog.String("op", op), slog.Any("error", err))
		return err
	}

	if message == "" {
		message = "sos resolved"
	}
	payload := domain.SOSResolvedPayload{Message: message}
	for _, target := range alert.NotifiedUsers {
		s.broadcaster.Emit(ctx, target, domain.EventSOSResolved, payload)
	}

	s.logger.Info("sos alert resolved",
		slog.String("alert_id", alertID.String()),
		slog.Int("notified", len(alert.NotifiedUsers)),
	)
	return nil
}

func (s *sosService) Get(ctx context.Context, id uuid.UUID) (*domain.SOSAlert, error) {
	if id == uuid.Nil {
		return nil, e.ErrInvalidInput
	}
	return s.alerts.Get(ctx, id)
}

func (s *sosService) ListActive(ctx context.Context) ([]*domain.SOSAlert, error) {
	return s.alerts.ListActive(ctx)
}
