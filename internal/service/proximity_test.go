package service_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/config"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/service"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"

	mock_service "github.com/TorikulIslamHira/geofranzy-sub002/internal/service/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type proximityFixture struct {
	friends     *mock_service.MockFriendProvider
	users       *mock_service.MockUserStore
	locations   *mock_service.MockLocationStore
	meetings    *mock_service.MockMeetingService
	broadcaster *mock_service.MockBroadcaster
	svc         service.ProximityService
}

func newProximityFixture(ctrl *gomock.Controller, thresholdM float64) *proximityFixture {
	f := &proximityFixture{
		friends:     mock_service.NewMockFriendProvider(ctrl),
		users:       mock_service.NewMockUserStore(ctrl),
		locations:   mock_service.NewMockLocationStore(ctrl),
		meetings:    mock_service.NewMockMeetingService(ctrl),
		broadcaster: mock_service.NewMockBroadcaster(ctrl),
	}
	f.svc = service.NewProximityService(
		testLogger(),
		config.ProximityConfig{NearbyThresholdM: thresholdM},
		f.friends,
		f.users,
		f.locations,
		nil, // no cache in unit tests
		f.meetings,
		f.broadcaster,
	)
	return f
}

func report(userID uuid.UUID, lat, lng float64, at time.Time) domain.ReportLocationRequest {
	return domain.ReportLocationRequest{
		UserID:     userID.String(),
		Lat:        lat,
		Lng:        lng,
		RecordedAt: &at,
	}
}

func TestProximity_CrossingToNear_AlertsBothSidesOnce(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newProximityFixture(ctrl, 200)

	userA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	userB := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	now := time.Now().UTC()

	// friend B sits ~14m from where A reports
	friendSample := &domain.LocationSample{
		UserID: userB, Lat: 40.7129, Lng: -74.0061, RecordedAt: now,
	}

	f.locations.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.users.EXPECT().Get(gomock.Any(), userA).Return(&domain.User{ID: userA}, nil).Times(2)
	f.friends.EXPECT().Friends(gomock.Any(), userA).
		Return([]domain.Friend{{UserID: userB}}, nil).Times(2)
	f.locations.EXPECT().GetMany(gomock.Any(), []uuid.UUID{userB}).
		Return(map[uuid.UUID]*domain.LocationSample{userB: friendSample}, nil).Times(2)

	// exactly one alert per endpoint, and exactly one session start,
	// even though two near samples arrive
	f.broadcaster.EXPECT().Emit(gomock.Any(), userA, domain.EventNearbyAlert, gomock.Any()).Times(1)
	f.broadcaster.EXPECT().Emit(gomock.Any(), userB, domain.EventNearbyAlert, gomock.Any()).Times(1)
	f.meetings.EXPECT().Start(gomock.Any(), userA, userB, gomock.Any(), gomock.Any(), now).Return(nil).Times(1)

	resp, err := f.svc.ReportLocation(context.Background(), report(userA, 40.7128, -74.0060, now))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(resp.Crossings) != 1 {
		t.Fatalf("expected 1 crossing, got %d", len(resp.Crossings))
	}
	c := resp.Crossings[0]
	if c.FriendID != userB || c.State != domain.EdgeNear {
		t.Fatalf("unexpected crossing: %+v", c)
	}
	if c.DistanceM < 10 || c.DistanceM > 20 {
		t.Fatalf("distance out of expected range: %v", c.DistanceM)
	}

	// still near: no new crossing
	resp, err = f.svc.ReportLocation(context.Background(), report(userA, 40.7128, -74.0060, now.Add(30*time.Second)))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(resp.Crossings) != 0 {
		t.Fatalf("expected no crossings while state holds, got %d", len(resp.Crossings))
	}
}

func TestProximity_NearThenApart_ClosesSession(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newProximityFixture(ctrl, 200)

	userA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	userB := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	now := time.Now().UTC()
	later := now.Add(10 * time.Minute)

	friendSample := &domain.LocationSample{
		UserID: userB, Lat: 40.7129, Lng: -74.0061, RecordedAt: now,
	}

	f.locations.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.users.EXPECT().Get(gomock.Any(), userA).Return(&domain.User{ID: userA}, nil).Times(2)
	f.friends.EXPECT().Friends(gomock.Any(), userA).
		Return([]domain.Friend{{UserID: userB}}, nil).Times(2)
	f.locations.EXPECT().GetMany(gomock.Any(), []uuid.UUID{userB}).
		Return(map[uuid.UUID]*domain.LocationSample{userB: friendSample}, nil).Times(2)

	f.broadcaster.EXPECT().Emit(gomock.Any(), gomock.Any(), domain.EventNearbyAlert, gomock.Any()).Times(2)
	f.meetings.EXPECT().Start(gomock.Any(), userA, userB, gomock.Any(), gomock.Any(), now).Return(nil).Times(1)
	f.meetings.EXPECT().End(gomock.Any(), userA, userB, later).Return(nil).Times(1)

	if _, err := f.svc.ReportLocation(context.Background(), report(userA, 40.7128, -74.0060, now)); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// A moves tens of kilometers away
	resp, err := f.svc.ReportLocation(context.Background(), report(userA, 41.0, -75.0, later))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(resp.Crossings) != 1 || resp.Crossings[0].State != domain.EdgeApart {
		t.Fatalf("expected a single apart crossing, got %+v", resp.Crossings)
	}
}

func TestProximity_FirstSampleFarApart_NoCrossing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newProximityFixture(ctrl, 200)

	userA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	userB := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	now := time.Now().UTC()

	friendSample := &domain.LocationSample{
		UserID: userB, Lat: 41.0, Lng: -75.0, RecordedAt: now,
	}

	f.locations.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	f.users.EXPECT().Get(gomock.Any(), userA).Return(&domain.User{ID: userA}, nil)
	f.friends.EXPECT().Friends(gomock.Any(), userA).
		Return([]domain.Friend{{UserID: userB}}, nil)
	f.locations.EXPECT().GetMany(gomock.Any(), []uuid.UUID{userB}).
		Return(map[uuid.UUID]*domain.LocationSample{userB: friendSample}, nil)

	// an unseen pair starts apart, so staying apart is not a crossing

	resp, err := f.svc.ReportLocation(context.Background(), report(userA, 40.7128, -74.0060, now))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(resp.Crossings) != 0 {
		t.Fatalf("expected no crossings, got %+v", resp.Crossings)
	}
}

func TestProximity_GhostedFriend_NoAlertNoSession(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newProximityFixture(ctrl, 200)

	userA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	userB := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	now := time.Now().UTC()

	friendSample := &domain.LocationSample{
		UserID: userB, Lat: 40.7129, Lng: -74.0061, RecordedAt: now,
	}

	f.locations.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	f.users.EXPECT().Get(gomock.Any(), userA).Return(&domain.User{ID: userA}, nil)
	f.friends.EXPECT().Friends(gomock.Any(), userA).
		Return([]domain.Friend{{UserID: userB, GhostMode: true}}, nil)
	f.locations.EXPECT().GetMany(gomock.Any(), []uuid.UUID{userB}).
		Return(map[uuid.UUID]*domain.LocationSample{userB: friendSample}, nil)

	// no Emit, no Start, and the response must not hand the reporter the
	// ghosted friend's position either

	resp, err := f.svc.ReportLocation(context.Background(), report(userA, 40.7128, -74.0060, now))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(resp.Crossings) != 0 {
		t.Fatalf("ghosted friend leaked into the response: %+v", resp.Crossings)
	}
}

func TestProximity_StaleSample_SkippedQuietly(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newProximityFixture(ctrl, 200)

	userA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	old := time.Now().UTC().Add(-time.Hour)

	f.locations.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		Return(e.ErrStaleSample)

	// nothing else runs for a stale sample

	resp, err := f.svc.ReportLocation(context.Background(), report(userA, 40.7128, -74.0060, old))
	if err != nil {
		t.Fatalf("stale sample must not surface as an error, got: %v", err)
	}
	if len(resp.Crossings) != 0 {
		t.Fatalf("expected empty crossings, got %+v", resp.Crossings)
	}
}

func TestProximity_InvalidCoordinates_Rejected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newProximityFixture(ctrl, 200)

	userA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	now := time.Now().UTC()

	_, err := f.svc.ReportLocation(context.Background(), report(userA, 95.0, -74.0060, now))
	if err == nil {
		t.Fatal("expected error for lat out of range")
	}
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}
}

func TestProximity_BadUserID_Rejected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newProximityFixture(ctrl, 200)

	now := time.Now().UTC()
	_, err := f.svc.ReportLocation(context.Background(), domain.ReportLocationRequest{
		UserID:     "not-a-uuid",
		Lat:        40.7128,
		Lng:        -74.0060,
		RecordedAt: &now,
	})
	if err == nil {
		t.Fatal("expected error for malformed user id")
	}
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}
}

func TestProximity_FriendWithoutSample_Ignored(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newProximityFixture(ctrl, 200)

	userA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	userB := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	now := time.Now().UTC()

	f.locations.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	f.users.EXPECT().Get(gomock.Any(), userA).Return(&domain.User{ID: userA}, nil)
	f.friends.EXPECT().Friends(gomock.Any(), userA).
		Return([]domain.Friend{{UserID: userB}}, nil)
	f.locations.EXPECT().GetMany(gomock.Any(), []uuid.UUID{userB}).
		Return(map[uuid.UUID]*domain.LocationSample{}, nil)

	resp, err := f.svc.ReportLocation(context.Background(), report(userA, 40.7128, -74.0060, now))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(resp.Crossings) != 0 {
		t.Fatalf("expected no crossings for a friend with no sample, got %+v", resp.Crossings)
	}
}
