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

type SOSRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewSOSRepo(pool *pgxpool.Pool, logger *slog.Logger) *SOSRepo {
	return &SOSRepo{pool: pool, logger: logger}
}

func (p *SOSRepo) Create(ctx context.Context, alert *domain.SOSAlert) error {
	const op = "postgres.SOS.Create"

	if alert == nil || alert.SenderID == uuid.Nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if alert.Lat < -90 || alert.Lat > 90 || alert.Lng < -180 || alert.Lng > 180 {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}

	const query = `
INSERT INTO sos_alerts (id, sender_id, lat, lng, battery_level, message, notified_users, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	if alert.Status == "" {
		alert.Status = domain.SOSActive
	}

	_, err := p.pool.Exec(ctx, query,
		alert.ID,
		alert.SenderID,
		alert.Lat,
		alert.Lng,
		alert.BatteryLevel,
		alert.Message,
		alert.NotifiedUsers,
		alert.Status,
		alert.CreatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("sender_id", alert.SenderID.String()),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *SOSRepo) Get(ctx context.Context, id uuid.UUID) (*domain.SOSAlert, error) {
	const op = "postgres.SOS.Get"

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
SELECT id, sender_id, lat, lng, battery_level, message, notified_users, status, created_at, resolved_at
FROM sos_alerts
WHERE id = $1
`

	var a domain.SOSAlert
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.SenderID, &a.Lat, &a.Lng, &a.BatteryLevel, &a.Message,
		&a.NotifiedUsers, &a.Status, &a.CreatedAt, &a.ResolvedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return &a, nil
}

// MarkResolved flips an Active alert to Resolved. The status guard in the
// WHERE clause makes the transition atomic; when another resolve already
// won, zero rows flip and ErrAlreadyResolved tells the caller it lost.
func (p *SOSRepo) MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error {
	const op = "postgres.SOS.MarkResolved"

	if id == uuid.Nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
UPDATE sos_alerts
SET status = $2, resolved_at = $3
WHERE id = $1 AND status = $4
`

	tag, err := p.pool.Exec(ctx, query, id, domain.SOSResolved, at, domain.SOSActive)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrAlreadyResolved)
	}

	return nil
}

func (p *SOSRepo) ListActive(ctx context.Context) ([]*domain.SOSAlert, error) {
	const op = "postgres.SOS.ListActive"

	const query = `
SELECT id, sender_id, lat, lng, battery_level, message, notified_users, status, created_at, resolved_at
FROM sos_alerts
WHERE status = $1
ORDER BY created_at DESC
`

	rows, err := p.pool.Query(ctx, query, domain.SOSActive)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	alerts := make([]*domain.SOSAlert, 0, 8)
	for rows.Next() {
		var a domain.SOSAlert
		if err := rows.Scan(&a.ID, &a.SenderID, &a.Lat, &a.Lng, &a.BatteryLevel, &a.Message,
			&a.NotifiedUsers, &a.Status, &a.CreatedAt, &a.ResolvedAt); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		alert := a
		alerts = append(alerts, &alert)
	}

	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return alerts, nil
}
