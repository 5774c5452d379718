package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendRepo stores the friendship graph as a single bidirectional edge per
// pair (user_a < user_b lexicographically). Adding or removing touches one
// row, so there is no window where A lists B but B does not list A.
type FriendRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewFriendRepo(pool *pgxpool.Pool, logger *slog.Logger) *FriendRepo {
	return &FriendRepo{pool: pool, logger: logger}
}

func orderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if b.String() < a.String() {
		return b, a
	}
	return a, b
}

func (p *FriendRepo) Friends(ctx context.Context, userID uuid.UUID) ([]domain.Friend, error) {
	const op = "postgres.Friend.Friends"

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidUserID)
	}

	const query = `
SELECT CASE WHEN f.user_a = $1 THEN f.user_b ELSE f.user_a END AS friend_id,
       u.ghost_mode
FROM friendships f
JOIN users u ON u.id = CASE WHEN f.user_a = $1 THEN f.user_b ELSE f.user_a END
WHERE f.user_a = $1 OR f.user_b = $1
`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	friends := make([]domain.Friend, 0, 8)
	for rows.Next() {
		var f domain.Friend
		if err := rows.Scan(&f.UserID, &f.GhostMode); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		friends = append(friends, f)
	}

	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return friends, nil
}

func (p *FriendRepo) Add(ctx context.Context, a, b uuid.UUID) error {
	const op = "postgres.Friend.Add"

	if a == uuid.Nil || b == uuid.Nil || a == b {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	a, b = orderPair(a, b)

	const query = `
INSERT INTO friendships (user_a, user_b)
VALUES ($1, $2)
ON CONFLICT (user_a, user_b) DO NOTHING
`

	if _, err := p.pool.Exec(ctx, query, a, b); err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (p *FriendRepo) Remove(ctx context.Context, a, b uuid.UUID) error {
	const op = "postgres.Friend.Remove"

	if a == uuid.Nil || b == uuid.Nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	a, b = orderPair(a, b)

	const query = `DELETE FROM friendships WHERE user_a = $1 AND user_b = $2`

	if _, err := p.pool.Exec(ctx, query, a, b); err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}
