package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/config"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/geo"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/keylock"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/validator"

	"github.com/google/uuid"
)

// proximityService recomputes the distance edge between a reporting user
// and each friend on every sample, detecting Apart/Near crossings. Crossings
// are edge-triggered: nothing fires while the state holds. The per-friend
// scan is O(friends) on purpose; small friend graphs only.
type proximityService struct {
	logger      *slog.Logger
	thresholdM  float64
	friends     FriendProvider
	users       UserStore
	locations   LocationStore
	cache       SampleCache // nil disables the hot-path cache
	meetings    MeetingService
	broadcaster Broadcaster

	userLocks *keylock.Striped

	mu    sync.Mutex
	edges map[domain.PairKey]*domain.ProximityEdge
}

func NewProximityService(
	logger *slog.Logger,
	cfg config.ProximityConfig,
	friends FriendProvider,
	users UserStore,
	locations LocationStore,
	cache SampleCache,
	meetings MeetingService,
	broadcaster Broadcaster,
) ProximityService {
	return &proximityService{
		logger:      logger,
		thresholdM:  cfg.NearbyThresholdM,
		friends:     friends,
		users:       users,
		locations:   locations,
		cache:       cache,
		meetings:    meetings,
		broadcaster: broadcaster,
		userLocks:   keylock.New(128),
		edges:       make(map[domain.PairKey]*domain.ProximityEdge),
	}
}

func (s *proximityService) ReportLocation(ctx context.Context, req domain.ReportLocationRequest) (domain.ReportLocationResponse, error) {
	const op = "service.Proximity.ReportLocation"

	if err := validator.ValidateStruct(req); err != nil {
		return domain.ReportLocationResponse{}, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		s.logger.Warn("invalid coordinates",
			slog.String("user_id", req.UserID),
			slog.Float64("lat", req.Lat),
			slog.Float64("lng", req.Lng),
		)
		return domain.ReportLocationResponse{}, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return domain.ReportLocationResponse{}, fmt.Errorf("%s: %w", op, e.ErrInvalidUserID)
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != nil {
		recordedAt = req.RecordedAt.UTC()
	}
	sample := &domain.LocationSample{
		UserID:     userID,
		Lat:        req.Lat,
		Lng:        req.Lng,
		AccuracyM:  req.AccuracyM,
		AltitudeM:  req.AltitudeM,
		SpeedMS:    req.SpeedMS,
		RecordedAt: recordedAt,
	}

	// All updates to this user's sample and outgoing edges go through the
	// same stripe, so two in-flight reports for one user cannot interleave.
	s.userLocks.Lock(userID.String())
	defer s.userLocks.Unlock(userID.String())

	if err := s.locations.Upsert(ctx, sample); err != nil {
		if errors.Is(err, e.ErrStaleSample) {
			// out-of-order delivery; the stored sample is newer, skip quietly
			s.logger.Debug("stale sample skipped",
				slog.String("user_id", userID.String()),
				slog.Time("recorded_at", recordedAt),
			)
			return domain.ReportLocationResponse{Crossings: []domain.EdgeCrossing{}}, nil
		}
		s.logger.Error("sample upsert failed", slog.String("op", op), slog.Any("error", err))
		return domain.ReportLocationResponse{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, sample); err != nil {
			s.logger.Warn("sample cache refresh failed", slog.Any("error", err))
		}
	}

	reporter, err := s.users.Get(ctx, userID)
	if err != nil {
		s.logger.Error("reporter lookup failed", slog.String("op", op), slog.Any("error", err))
		return domain.ReportLocationResponse{}, err
	}

	friends, err := s.friends.Friends(ctx, userID)
	if err != nil {
		s.logger.Error("friend lookup failed", slog.String("op", op), slog.Any("error", err))
		return domain.ReportLocationResponse{}, err
	}

	crossings, err := s.recompute(ctx, reporter, sample, friends)
	if err != nil {
		return domain.ReportLocationResponse{}, err
	}

	return domain.ReportLocationResponse{Crossings: crossings}, nil
}

func (s *proximityService) recompute(ctx context.Context, reporter *domain.User, sample *domain.LocationSample, friends []domain.Friend) ([]domain.EdgeCrossing, error) {
	crossings := make([]domain.EdgeCrossing, 0, len(friends))
	if len(friends) == 0 {
		return crossings, nil
	}

	friendIDs := make([]uuid.UUID, 0, len(friends))
	for _, f := range friends {
		friendIDs = append(friendIDs, f.UserID)
	}

	samples := s.lookupSamples(ctx, friendIDs)

	for _, friend := range friends {
		fs, ok := samples[friend.UserID]
		if !ok {
			continue // friend has never reported
		}

		distance := geo.DistanceM(sample.Lat, sample.Lng, fs.Lat, fs.Lng)
		newState := domain.EdgeApart
		if distance <= s.thresholdM {
			newState = domain.EdgeNear
		}

		prevState := s.swapEdgeState(sample.UserID, friend.UserID, distance, newState)
		if prevState == newState {
			continue
		}

		// a ghosted endpoint stays invisible: no alert, no new session, and
		// no crossing in the reporter's response. A Near->Apart transition
		// still closes anything left open.
		visible := !friend.GhostMode && !reporter.GhostMode

		if visible {
			crossings = append(crossings, domain.EdgeCrossing{
				FriendID:  friend.UserID,
				DistanceM: distance,
				State:     newState,
			})
		}

		switch newState {
		case domain.EdgeNear:
			if !visible {
				continue
			}
			s.broadcaster.Emit(ctx, sample.UserID, domain.EventNearbyAlert, domain.NearbyAlertPayload{
				Friend:    friend.UserID,
				DistanceM: distance,
			})
			s.broadcaster.Emit(ctx, friend.UserID, domain.EventNearbyAlert, domain.NearbyAlertPayload{
				Friend:    sample.UserID,
				DistanceM: distance,
			})

			midLat, midLng := geo.Midpoint(sample.Lat, sample.Lng, fs.Lat, fs.Lng)
			if err := s.meetings.Start(ctx, sample.UserID, friend.UserID, midLat, midLng, sample.RecordedAt); err != nil {
				s.logger.Error("meeting start failed",
					slog.String("pair", domain.NewPairKey(sample.UserID, friend.UserID).String()),
					slog.Any("error", err),
				)
			}
		case domain.EdgeApart:
			if err := s.meetings.End(ctx, sample.UserID, friend.UserID, sample.RecordedAt); err != nil {
				s.logger.Error("meeting end failed",
					slog.String("pair", domain.NewPairKey(sample.UserID, friend.UserID).String()),
					slog.Any("error", err),
				)
			}
		}
	}

	return crossings, nil
}

// lookupSamples reads friend samples through the cache where possible and
// falls back to storage for the rest.
func (s *proximityService) lookupSamples(ctx context.Context, friendIDs []uuid.UUID) map[uuid.UUID]*domain.LocationSample {
	samples := make(map[uuid.UUID]*domain.LocationSample, len(friendIDs))

	if s.cache != nil {
		cached, err := s.cache.GetMany(ctx, friendIDs)
		if err != nil {
			s.logger.Warn("sample cache read failed", slog.Any("error", err))
		} else {
			samples = cached
		}
	}

	missing := make([]uuid.UUID, 0, len(friendIDs))
	for _, id := range friendIDs {
		if _, ok := samples[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		stored, err := s.locations.GetMany(ctx, missing)
		if err != nil {
			s.logger.Warn("sample store read failed", slog.Any("error", err))
			return samples
		}
		for id, sm := range stored {
			samples[id] = sm
		}
	}

	return samples
}

// swapEdgeState updates the transient edge and returns its previous state.
// An unseen pair starts Apart, so the first time two friends appear within
// the threshold counts as a crossing. Only Near edges are retained: an
// Apart edge carries no state an absent entry would not, so the map holds
// just the currently-near pairs instead of growing with every pair ever
// seen.
func (s *proximityService) swapEdgeState(a, b uuid.UUID, distance float64, state domain.EdgeState) domain.EdgeState {
	key := domain.NewPairKey(a, b)

	s.mu.Lock()
	defer s.mu.Unlock()

	edge, ok := s.edges[key]
	if !ok {
		if state == domain.EdgeNear {
			s.edges[key] = &domain.ProximityEdge{Pair: key, DistanceM: distance, State: state}
		}
		return domain.EdgeApart
	}

	prev := edge.State
	if state == domain.EdgeApart {
		delete(s.edges, key)
		return prev
	}
	edge.DistanceM = distance
	edge.State = state
	return prev
}
