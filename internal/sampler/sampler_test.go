package sampler

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/config"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
)

func testConfig() config.SamplerConfig {
	return config.SamplerConfig{
		FastInterval:    30 * time.Second,
		SlowInterval:    60 * time.Second,
		FastSpeedMS:     5,
		SlowSpeedMS:     1,
		StationaryAfter: 5 * time.Minute,
		MinMovementM:    50,
	}
}

func newTestSampler(source Source, sink Sink) *Sampler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, testConfig(), uuid.New(), source, sink)
}

type stubSource struct {
	ch chan Fix
}

func (s *stubSource) Subscribe(ctx context.Context) (<-chan Fix, error) {
	return s.ch, nil
}

type stubSink struct {
	mu      sync.Mutex
	pushed  []*domain.LocationSample
	failing bool
}

func (s *stubSink) Push(ctx context.Context, sample *domain.LocationSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("sink unavailable")
	}
	s.pushed = append(s.pushed, sample)
	return nil
}

func (s *stubSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pushed)
}

func TestSampler_ModeFromSpeed(t *testing.T) {
	t.Parallel()

	s := newTestSampler(&stubSource{}, &stubSink{})
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		speed float64
		want  Mode
	}{
		{"driving", 6.0, ModeFast},
		{"cycling just above fast threshold", 5.1, ModeFast},
		{"walking", 2.0, ModeSlow},
		{"at fast threshold stays slow", 5.0, ModeSlow},
		{"crawling", 0.5, ModeSlow},
	}
	for _, tc := range cases {
		if got := s.observe(Fix{SpeedMS: tc.speed, At: at}); got != tc.want {
			t.Errorf("%s: speed %.1f => %s, want %s", tc.name, tc.speed, got, tc.want)
		}
	}
}

func TestSampler_IntervalPerMode(t *testing.T) {
	t.Parallel()

	s := newTestSampler(&stubSource{}, &stubSink{})
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	s.observe(Fix{SpeedMS: 6, At: at})
	if got := s.interval(); got != 30*time.Second {
		t.Fatalf("fast interval = %v, want 30s", got)
	}

	s.observe(Fix{SpeedMS: 2, At: at})
	if got := s.interval(); got != 60*time.Second {
		t.Fatalf("slow interval = %v, want 60s", got)
	}
}

func TestSampler_SustainedStationary_Pauses(t *testing.T) {
	t.Parallel()

	s := newTestSampler(&stubSource{}, &stubSink{})
	start := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	// stationary but below the 5 minute threshold: still slow
	if got := s.observe(Fix{SpeedMS: 0.2, At: start}); got != ModeSlow {
		t.Fatalf("first stationary fix => %s, want slow", got)
	}
	if got := s.observe(Fix{SpeedMS: 0.1, At: start.Add(4 * time.Minute)}); got != ModeSlow {
		t.Fatalf("4 min stationary => %s, want slow", got)
	}

	// sustained past the threshold: paused
	if got := s.observe(Fix{SpeedMS: 0.0, At: start.Add(6 * time.Minute)}); got != ModePaused {
		t.Fatalf("6 min stationary => %s, want paused", got)
	}
	if s.shouldEmit() {
		t.Fatal("paused sampler must not emit")
	}
}

func TestSampler_MovementResetsStationaryClock(t *testing.T) {
	t.Parallel()

	s := newTestSampler(&stubSource{}, &stubSink{})
	start := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	s.observe(Fix{SpeedMS: 0.2, At: start})
	s.observe(Fix{SpeedMS: 0.1, At: start.Add(6 * time.Minute)})
	if s.mode != ModePaused {
		t.Fatal("expected paused")
	}

	// movement resumes emission and zeroes the clock
	if got := s.observe(Fix{SpeedMS: 2.0, At: start.Add(7 * time.Minute)}); got != ModeSlow {
		t.Fatalf("moving fix => %s, want slow", got)
	}

	// a fresh stationary window has to run the full 5 minutes again
	if got := s.observe(Fix{SpeedMS: 0.3, At: start.Add(8 * time.Minute)}); got != ModeSlow {
		t.Fatalf("new stationary window => %s, want slow", got)
	}
	if got := s.observe(Fix{SpeedMS: 0.3, At: start.Add(12 * time.Minute)}); got != ModeSlow {
		t.Fatalf("4 min into new window => %s, want slow", got)
	}
	if got := s.observe(Fix{SpeedMS: 0.3, At: start.Add(13*time.Minute + time.Second)}); got != ModePaused {
		t.Fatalf("past threshold in new window => %s, want paused", got)
	}
}

func TestSampler_MovementGate(t *testing.T) {
	t.Parallel()

	s := newTestSampler(&stubSource{}, &stubSink{})
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	s.observe(Fix{Lat: 40.7128, Lng: -74.0060, SpeedMS: 2, At: at})
	if !s.shouldEmit() {
		t.Fatal("first sample must always pass the gate")
	}
	s.lastEmitted = s.latest

	// ~14m of drift: under the 50m gate
	s.observe(Fix{Lat: 40.7129, Lng: -74.0061, SpeedMS: 2, At: at.Add(time.Minute)})
	if s.shouldEmit() {
		t.Fatal("jitter under the gate must not emit")
	}

	// several km away: well past the gate
	s.observe(Fix{Lat: 40.7600, Lng: -74.0060, SpeedMS: 2, At: at.Add(2 * time.Minute)})
	if !s.shouldEmit() {
		t.Fatal("real movement must pass the gate")
	}
}

func TestSampler_PushFailure_RetriedNextTick(t *testing.T) {
	t.Parallel()

	sink := &stubSink{failing: true}
	s := newTestSampler(&stubSource{}, sink)
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	s.observe(Fix{Lat: 40.7128, Lng: -74.0060, SpeedMS: 2, At: at})
	s.emit(context.Background())

	if s.lastEmitted != nil {
		t.Fatal("failed delivery must not advance lastEmitted")
	}
	if !s.shouldEmit() {
		t.Fatal("the same fix must be eligible again on the next tick")
	}

	sink.mu.Lock()
	sink.failing = false
	sink.mu.Unlock()

	s.emit(context.Background())
	if sink.count() != 1 {
		t.Fatalf("expected 1 delivered sample, got %d", sink.count())
	}
	if s.lastEmitted == nil {
		t.Fatal("successful delivery must advance lastEmitted")
	}
}

func TestSampler_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	source := &stubSource{ch: make(chan Fix)}
	s := newTestSampler(source, &stubSink{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestSampler_RunStopsWhenSourceCloses(t *testing.T) {
	t.Parallel()

	source := &stubSource{ch: make(chan Fix)}
	s := newTestSampler(source, &stubSink{})

	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background())
	}()

	close(source.ch)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after source closed")
	}
}
