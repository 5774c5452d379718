package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStats(pool *pgxpool.Pool, logger *slog.Logger) *StatsRepo {
	return &StatsRepo{pool: pool, logger: logger}
}

func (p *StatsRepo) CountActiveUsers(ctx context.Context, minutes int) (int64, error) {
	const op = "postgres.Stats.CountActiveUsers"

	if minutes <= 0 {
		return 0, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
SELECT COUNT(*)
FROM location_samples
WHERE recorded_at >= NOW() - ($1 * INTERVAL '1 minute')
`

	var count int64
	if err := p.pool.QueryRow(ctx, query, minutes).Scan(&count); err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}
	return count, nil
}

func (p *StatsRepo) CountMeetingsClosed(ctx context.Context, minutes int) (int64, error) {
	const op = "postgres.Stats.CountMeetingsClosed"

	if minutes <= 0 {
		return 0, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
SELECT COUNT(*)
FROM meeting_history
WHERE ended_at >= NOW() - ($1 * INTERVAL '1 minute')
`

	var count int64
	if err := p.pool.QueryRow(ctx, query, minutes).Scan(&count); err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}
	return count, nil
}

func (p *StatsRepo) CountActiveAlerts(ctx context.Context) (int64, error) {
	const op = "postgres.Stats.CountActiveAlerts"

	const query = `SELECT COUNT(*) FROM sos_alerts WHERE status = 'active'`

	var count int64
	if err := p.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}
	return count, nil
}
