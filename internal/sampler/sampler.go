package sampler

import (
	"context"
	"time"

	"log/slog"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/config"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/geo"

	"github.com/google/uuid"
)

type Mode string

const (
	ModeFast   Mode = "fast"
	ModeSlow   Mode = "slow"
	ModePaused Mode = "paused"
)

// Fix is one raw position reading from the device.
type Fix struct {
	Lat       float64
	Lng       float64
	SpeedMS   float64
	AccuracyM *float64
	At        time.Time
}

// Source streams raw position fixes. The returned channel is closed when
// the source shuts down.
type Source interface {
	Subscribe(ctx context.Context) (<-chan Fix, error)
}

// Sink receives the sampled positions, normally the proximity engine.
type Sink interface {
	Push(ctx context.Context, sample *domain.LocationSample) error
}

// Sampler adapts its emission rate to how fast the user is moving: a fast
// interval while in motion, a slow one while walking, and full suspension
// after a sustained stationary period. A movement gate keeps GPS jitter
// from producing a stream of near-identical samples.
type Sampler struct {
	logger *slog.Logger
	cfg    config.SamplerConfig
	userID uuid.UUID
	source Source
	sink   Sink
	now    func() time.Time

	mode            Mode
	stationarySince time.Time // zero while moving
	latest          *Fix
	lastEmitted     *Fix
}

func New(logger *slog.Logger, cfg config.SamplerConfig, userID uuid.UUID, source Source, sink Sink) *Sampler {
	return &Sampler{
		logger: logger,
		cfg:    cfg,
		userID: userID,
		source: source,
		sink:   sink,
		now:    time.Now,
		mode:   ModeSlow,
	}
}

// Run consumes fixes and emits samples until ctx is canceled or the source
// channel closes. Delivery failures are logged and swallowed; the sample is
// retried implicitly on the next tick because lastEmitted never advances.
func (s *Sampler) Run(ctx context.Context) error {
	fixes, err := s.source.Subscribe(ctx)
	if err != nil {
		return err
	}

	timer := time.NewTimer(s.interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case fix, ok := <-fixes:
			if !ok {
				return nil
			}
			prev := s.mode
			s.observe(fix)
			if prev != s.mode {
				s.logger.Debug("sampler mode change",
					slog.String("user_id", s.userID.String()),
					slog.String("from", string(prev)),
					slog.String("to", string(s.mode)),
				)
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.interval())
			}

		case <-timer.C:
			if s.shouldEmit() {
				s.emit(ctx)
			}
			timer.Reset(s.interval())
		}
	}
}

// observe runs the mode transition for one fix. Any speed above the slow
// threshold resets the stationary clock to zero.
func (s *Sampler) observe(fix Fix) Mode {
	s.latest = &fix

	switch {
	case fix.SpeedMS > s.cfg.FastSpeedMS:
		s.stationarySince = time.Time{}
		s.mode = ModeFast
	case fix.SpeedMS > s.cfg.SlowSpeedMS:
		s.stationarySince = time.Time{}
		s.mode = ModeSlow
	default:
		if s.stationarySince.IsZero() {
			s.stationarySince = fix.At
		}
		if fix.At.Sub(s.stationarySince) >= s.cfg.StationaryAfter {
			s.mode = ModePaused
		} else {
			s.mode = ModeSlow
		}
	}
	return s.mode
}

// interval returns the tick period for the current mode. Paused keeps
// ticking at the slow interval; the tick just emits nothing until a moving
// fix flips the mode back.
func (s *Sampler) interval() time.Duration {
	if s.mode == ModeFast {
		return s.cfg.FastInterval
	}
	return s.cfg.SlowInterval
}

// shouldEmit applies the movement gate: the latest fix must sit at least
// MinMovementM from the previously emitted position.
func (s *Sampler) shouldEmit() bool {
	if s.mode == ModePaused || s.latest == nil {
		return false
	}
	if s.lastEmitted == nil {
		return true
	}
	moved := geo.DistanceM(s.lastEmitted.Lat, s.lastEmitted.Lng, s.latest.Lat, s.latest.Lng)
	return moved >= s.cfg.MinMovementM
}

func (s *Sampler) emit(ctx context.Context) {
	fix := *s.latest
	speed := fix.SpeedMS
	sample := &domain.LocationSample{
		UserID:     s.userID,
		Lat:        fix.Lat,
		Lng:        fix.Lng,
		AccuracyM:  fix.AccuracyM,
		SpeedMS:    &speed,
		RecordedAt: s.now().UTC(),
	}

	if err := s.sink.Push(ctx, sample); err != nil {
		// no queue of missed samples; the next tick tries again
		s.logger.Warn("sample delivery failed",
			slog.String("user_id", s.userID.String()),
			slog.Any("error", err),
		)
		return
	}
	s.lastEmitted = &fix
}
