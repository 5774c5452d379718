package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MeetingRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewMeetingRepo(pool *pgxpool.Pool, logger *slog.Logger) *MeetingRepo {
	return &MeetingRepo{pool: pool, logger: logger}
}

func (p *MeetingRepo) Append(ctx context.Context, session *domain.MeetingSession) error {
	const op = "postgres.Meeting.Append"

	if session == nil || session.UserA == uuid.Nil || session.UserB == uuid.Nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if session.EndedAt == nil {
		return fmt.Errorf("%s: open session cannot be appended to history: %w", op, e.ErrInvalidInput)
	}
	if session.DurationMin < 0 {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
INSERT INTO meeting_history (id, user_a, user_b, started_at, ended_at, centroid_lat, centroid_lng, place_name, duration_min)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	_, err := p.pool.Exec(ctx, query,
		session.ID,
		session.UserA,
		session.UserB,
		session.StartedAt,
		session.EndedAt,
		session.CentroidLat,
		session.CentroidLng,
		session.PlaceName,
		session.DurationMin,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("pair", session.Pair().String()),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *MeetingRepo) HistoryForPair(ctx context.Context, userA, userB uuid.UUID, minDurationMin int) ([]*domain.MeetingSession, error) {
	const op = "postgres.Meeting.HistoryForPair"

	if userA == uuid.Nil || userB == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	// Rows are stored in canonical order (user_a < user_b), but callers may
	// pass the pair either way around.
	const query = `
SELECT id, user_a, user_b, started_at, ended_at, centroid_lat, centroid_lng, place_name, duration_min
FROM meeting_history
WHERE ((user_a = $1 AND user_b = $2) OR (user_a = $2 AND user_b = $1))
  AND duration_min >= $3
ORDER BY started_at DESC
`

	rows, err := p.pool.Query(ctx, query, userA, userB, minDurationMin)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	sessions := make([]*domain.MeetingSession, 0, 8)
	for rows.Next() {
		var s domain.MeetingSession
		var endedAt time.Time
		if err := rows.Scan(&s.ID, &s.UserA, &s.UserB, &s.StartedAt, &endedAt, &s.CentroidLat, &s.CentroidLng, &s.PlaceName, &s.DurationMin); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		s.EndedAt = &endedAt
		sessions = append(sessions, &s)
	}

	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return sessions, nil
}
