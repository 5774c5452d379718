package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewUserRepo(pool *pgxpool.Pool, logger *slog.Logger) *UserRepo {
	return &UserRepo{pool: pool, logger: logger}
}

func (p *UserRepo) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "postgres.User.Get"

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidUserID)
	}

	const query = `
SELECT id, ghost_mode, battery_level, created_at
FROM users
WHERE id = $1
`

	var u domain.User
	err := p.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.GhostMode, &u.BatteryLevel, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return &u, nil
}

func (p *UserRepo) SetBattery(ctx context.Context, id uuid.UUID, level int) error {
	const op = "postgres.User.SetBattery"

	if id == uuid.Nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidUserID)
	}
	if level < 0 || level > 100 {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `UPDATE users SET battery_level = $2 WHERE id = $1`

	tag, err := p.pool.Exec(ctx, query, id, level)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("user_id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}
