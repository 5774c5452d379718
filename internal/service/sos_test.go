package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/service"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"

	mock_service "github.com/TorikulIslamHira/geofranzy-sub002/internal/service/mocks"
)

type sosFixture struct {
	alerts      *mock_service.MockSOSStore
	friends     *mock_service.MockFriendProvider
	broadcaster *mock_service.MockBroadcaster
	svc         service.SOSService
}

func newSOSFixture(ctrl *gomock.Controller) *sosFixture {
	f := &sosFixture{
		alerts:      mock_service.NewMockSOSStore(ctrl),
		friends:     mock_service.NewMockFriendProvider(ctrl),
		broadcaster: mock_service.NewMockBroadcaster(ctrl),
	}
	f.svc = service.NewSOSService(testLogger(), f.alerts, f.friends, f.broadcaster)
	return f
}

func TestSOS_Send_NotifiesFriendsNeverSender(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newSOSFixture(ctrl)

	sender := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	friendB := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	friendC := uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
	friendD := uuid.MustParse("dddddddd-dddd-dddd-dddd-dddddddddddd")

	f.friends.EXPECT().Friends(gomock.Any(), sender).Return([]domain.Friend{
		{UserID: friendB}, {UserID: friendC, GhostMode: true}, {UserID: friendD},
	}, nil)

	var stored *domain.SOSAlert
	f.alerts.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *domain.SOSAlert) error {
			stored = a
			return nil
		})

	// ghost mode does not apply to emergencies: C is still notified
	f.broadcaster.EXPECT().Emit(gomock.Any(), friendB, domain.EventSOSAlert, gomock.Any()).Times(1)
	f.broadcaster.EXPECT().Emit(gomock.Any(), friendC, domain.EventSOSAlert, gomock.Any()).Times(1)
	f.broadcaster.EXPECT().Emit(gomock.Any(), friendD, domain.EventSOSAlert, gomock.Any()).Times(1)

	id, err := f.svc.Send(context.Background(), domain.SendSOSRequest{
		UserID:  sender.String(),
		Lat:     40.7128,
		Lng:     -74.0060,
		Message: "need help",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected a non-nil alert id")
	}

	if stored == nil {
		t.Fatal("alert was not persisted")
	}
	if stored.Status != domain.SOSActive {
		t.Fatalf("new alert must be active, got %s", stored.Status)
	}
	if len(stored.NotifiedUsers) != 3 {
		t.Fatalf("notified snapshot must hold all 3 friends, got %d", len(stored.NotifiedUsers))
	}
	for _, id := range stored.NotifiedUsers {
		if id == sender {
			t.Fatal("sender must never appear in the notified snapshot")
		}
	}
}

func TestSOS_Send_NoFriends_StillPersisted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newSOSFixture(ctrl)

	sender := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	f.friends.EXPECT().Friends(gomock.Any(), sender).Return(nil, nil)
	f.alerts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	// no Emit calls

	id, err := f.svc.Send(context.Background(), domain.SendSOSRequest{
		UserID: sender.String(),
		Lat:    40.7128,
		Lng:    -74.0060,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected a non-nil alert id")
	}
}

func TestSOS_Resolve_NonSender_Rejected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newSOSFixture(ctrl)

	sender := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	other := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	alertID := uuid.New()

	f.alerts.EXPECT().Get(gomock.Any(), alertID).Return(&domain.SOSAlert{
		ID:       alertID,
		SenderID: sender,
		Status:   domain.SOSActive,
	}, nil)
	// MarkResolved never called, nothing broadcast

	err := f.svc.Resolve(context.Background(), alertID, other, "")
	if !errors.Is(err, e.ErrNotSender) {
		t.Fatalf("expected ErrNotSender, got: %v", err)
	}
}

func TestSOS_Resolve_BroadcastsToOriginalSnapshot(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newSOSFixture(ctrl)

	sender := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	friendB := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	friendC := uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
	alertID := uuid.New()

	f.alerts.EXPECT().Get(gomock.Any(), alertID).Return(&domain.SOSAlert{
		ID:            alertID,
		SenderID:      sender,
		NotifiedUsers: []uuid.UUID{friendB, friendC},
		Status:        domain.SOSActive,
	}, nil)
	f.alerts.EXPECT().MarkResolved(gomock.Any(), alertID, gomock.Any()).Return(nil)

	f.broadcaster.EXPECT().Emit(gomock.Any(), friendB, domain.EventSOSResolved, gomock.Any()).Times(1)
	f.broadcaster.EXPECT().Emit(gomock.Any(), friendC, domain.EventSOSResolved, gomock.Any()).Times(1)

	if err := f.svc.Resolve(context.Background(), alertID, sender, "all good"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestSOS_Resolve_AlreadyResolved_NoSecondBroadcast(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newSOSFixture(ctrl)

	sender := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	friendB := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	alertID := uuid.New()
	resolvedAt := time.Now().UTC().Add(-time.Minute)

	f.alerts.EXPECT().Get(gomock.Any(), alertID).Return(&domain.SOSAlert{
		ID:            alertID,
		SenderID:      sender,
		NotifiedUsers: []uuid.UUID{friendB},
		Status:        domain.SOSResolved,
		ResolvedAt:    &resolvedAt,
	}, nil)
	// no MarkResolved, no Emit

	if err := f.svc.Resolve(context.Background(), alertID, sender, ""); err != nil {
		t.Fatalf("repeat resolve must be a silent no-op, got: %v", err)
	}
}

func TestSOS_Resolve_ConcurrentResolves_SingleBroadcast(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newSOSFixture(ctrl)

	sender := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	friendB := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	alertID := uuid.New()

	// both racers read the alert while it is still Active; only the store's
	// atomic flip decides who broadcasts
	f.alerts.EXPECT().Get(gomock.Any(), alertID).Return(&domain.SOSAlert{
		ID:            alertID,
		SenderID:      sender,
		NotifiedUsers: []uuid.UUID{friendB},
		Status:        domain.SOSActive,
	}, nil).Times(2)

	var resolved atomic.Bool
	f.alerts.EXPECT().MarkResolved(gomock.Any(), alertID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, _ time.Time) error {
			if resolved.CompareAndSwap(false, true) {
				return nil
			}
			return e.ErrAlreadyResolved
		}).Times(2)

	f.broadcaster.EXPECT().Emit(gomock.Any(), friendB, domain.EventSOSResolved, gomock.Any()).Times(1)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f.svc.Resolve(context.Background(), alertID, sender, ""); err != nil {
				t.Errorf("unexpected err: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestSOS_Send_InvalidCoordinates_Rejected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newSOSFixture(ctrl)

	_, err := f.svc.Send(context.Background(), domain.SendSOSRequest{
		UserID: uuid.New().String(),
		Lat:    -91.0,
		Lng:    0,
	})
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}
}
