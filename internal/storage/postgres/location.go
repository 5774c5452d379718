package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewLocationRepo(pool *pgxpool.Pool, logger *slog.Logger) *LocationRepo {
	return &LocationRepo{pool: pool, logger: logger}
}

func (p *LocationRepo) Upsert(ctx context.Context, sample *domain.LocationSample) error {
	const op = "postgres.Location.Upsert"

	if sample == nil || sample.UserID == uuid.Nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if sample.Lat < -90 || sample.Lat > 90 || sample.Lng < -180 || sample.Lng > 180 {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}
	if sample.RecordedAt.IsZero() {
		sample.RecordedAt = time.Now().UTC()
	}

	// Last-write-wins keyed by user_id. The WHERE clause on the conflict
	// branch is the out-of-order delivery guard: an older sample must not
	// overwrite a newer one.
	const query = `
INSERT INTO location_samples (user_id, lat, lng, accuracy_m, altitude_m, speed_ms, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id) DO UPDATE
SET lat = EXCLUDED.lat,
    lng = EXCLUDED.lng,
    accuracy_m = EXCLUDED.accuracy_m,
    altitude_m = EXCLUDED.altitude_m,
    speed_ms = EXCLUDED.speed_ms,
    recorded_at = EXCLUDED.recorded_at
WHERE location_samples.recorded_at <= EXCLUDED.recorded_at
`

	tag, err := p.pool.Exec(ctx, query,
		sample.UserID,
		sample.Lat,
		sample.Lng,
		sample.AccuracyM,
		sample.AltitudeM,
		sample.SpeedMS,
		sample.RecordedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("user_id", sample.UserID.String()),
		)
		return e.WrapError(ctx, op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrStaleSample)
	}

	return nil
}

func (p *LocationRepo) Get(ctx context.Context, userID uuid.UUID) (*domain.LocationSample, error) {
	const op = "postgres.Location.Get"

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
SELECT user_id, lat, lng, accuracy_m, altitude_m, speed_ms, recorded_at
FROM location_samples
WHERE user_id = $1
`

	var s domain.LocationSample
	err := p.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.Lat, &s.Lng, &s.AccuracyM, &s.AltitudeM, &s.SpeedMS, &s.RecordedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return &s, nil
}

func (p *LocationRepo) GetMany(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*domain.LocationSample, error) {
	const op = "postgres.Location.GetMany"

	out := make(map[uuid.UUID]*domain.LocationSample, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	const query = `
SELECT user_id, lat, lng, accuracy_m, altitude_m, speed_ms, recorded_at
FROM location_samples
WHERE user_id = ANY($1)
`

	rows, err := p.pool.Query(ctx, query, userIDs)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.LocationSample
		if err := rows.Scan(&s.UserID, &s.Lat, &s.Lng, &s.AccuracyM, &s.AltitudeM, &s.SpeedMS, &s.RecordedAt); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		sample := s
		out[s.UserID] = &sample
	}

	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return out, nil
}
