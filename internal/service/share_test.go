package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/service"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"

	mock_service "github.com/TorikulIslamHira/geofranzy-sub002/internal/service/mocks"
)

type shareFixture struct {
	friends     *mock_service.MockFriendProvider
	users       *mock_service.MockUserStore
	broadcaster *mock_service.MockBroadcaster
	svc         service.ShareService
}

func newShareFixture(ctrl *gomock.Controller) *shareFixture {
	f := &shareFixture{
		friends:     mock_service.NewMockFriendProvider(ctrl),
		users:       mock_service.NewMockUserStore(ctrl),
		broadcaster: mock_service.NewMockBroadcaster(ctrl),
	}
	f.svc = service.NewShareService(testLogger(), f.friends, f.users, f.broadcaster)
	return f
}

func TestShare_OnMyWay_FansOutToFriends(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newShareFixture(ctrl)

	sender := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	friendB := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	friendC := uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")

	f.friends.EXPECT().Friends(gomock.Any(), sender).Return([]domain.Friend{
		{UserID: friendB}, {UserID: friendC},
	}, nil)

	f.broadcaster.EXPECT().Emit(gomock.Any(), friendB, domain.EventFriendOnMyWay, gomock.Any()).Times(1)
	f.broadcaster.EXPECT().Emit(gomock.Any(), friendC, domain.EventFriendOnMyWay, gomock.Any()).Times(1)

	err := f.svc.OnMyWay(context.Background(), domain.OnMyWayRequest{
		UserID:      sender.String(),
		Lat:         40.7128,
		Lng:         -74.0060,
		Destination: "Central Park",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestShare_Weather_CarriesRawPayload(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newShareFixture(ctrl)

	sender := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	friendB := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	weather := json.RawMessage(`{"temp":21,"condition":"clear"}`)

	f.friends.EXPECT().Friends(gomock.Any(), sender).Return([]domain.Friend{{UserID: friendB}}, nil)

	f.broadcaster.EXPECT().
		Emit(gomock.Any(), friendB, domain.EventWeatherShare, gomock.Any()).
		Do(func(_ context.Context, _ uuid.UUID, _ string, payload any) {
			p, ok := payload.(domain.WeatherSharePayload)
			if !ok {
				t.Fatalf("unexpected payload type: %T", payload)
			}
			if p.From != sender {
				t.Fatalf("unexpected sender: %s", p.From)
			}
			if string(p.Weather) != string(weather) {
				t.Fatalf("weather blob must pass through untouched, got %s", p.Weather)
			}
		})

	err := f.svc.ShareWeather(context.Background(), domain.WeatherShareRequest{
		UserID:  sender.String(),
		Weather: weather,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestShare_UpdateBattery_PersistsBeforeFanout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newShareFixture(ctrl)

	sender := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	friendB := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")

	gomock.InOrder(
		f.users.EXPECT().SetBattery(gomock.Any(), sender, 15).Return(nil),
		f.friends.EXPECT().Friends(gomock.Any(), sender).Return([]domain.Friend{{UserID: friendB}}, nil),
	)
	f.broadcaster.EXPECT().Emit(gomock.Any(), friendB, domain.EventFriendBatteryUpdate, gomock.Any()).Times(1)

	err := f.svc.UpdateBattery(context.Background(), domain.BatteryUpdateRequest{
		UserID:       sender.String(),
		BatteryLevel: 15,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestShare_UpdateBattery_PersistFailure_NoFanout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newShareFixture(ctrl)

	sender := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	boom := errors.New("db down")

	f.users.EXPECT().SetBattery(gomock.Any(), sender, 15).Return(boom)
	// no Friends lookup, no Emit

	err := f.svc.UpdateBattery(context.Background(), domain.BatteryUpdateRequest{
		UserID:       sender.String(),
		BatteryLevel: 15,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the store error to propagate, got: %v", err)
	}
}

func TestShare_UpdateBattery_LevelOutOfRange_Rejected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newShareFixture(ctrl)

	err := f.svc.UpdateBattery(context.Background(), domain.BatteryUpdateRequest{
		UserID:       uuid.New().String(),
		BatteryLevel: 120,
	})
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}
}

func TestShare_OnMyWay_MissingDestination_Rejected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newShareFixture(ctrl)

	err := f.svc.OnMyWay(context.Background(), domain.OnMyWayRequest{
		UserID: uuid.New().String(),
		Lat:    40.7128,
		Lng:    -74.0060,
	})
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}
}
