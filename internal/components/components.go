package components

import (
	"context"
	"fmt"
	"os"
	"time"

	"log/slog"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/api"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/config"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/realtime"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/service"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/storage/postgres"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/storage/redis"
	"github.com/TorikulIslamHira/geofranzy-sub002/pkg/logger"
)

type Components struct {
	logger      *slog.Logger
	HttpServer  *api.Server
	Postgres    *postgres.Postgres
	Redis       *redis.Redis
	Broadcaster *realtime.Broadcaster
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("initializing postgres")
	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init postgres", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("initializing redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		storage.Pool.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	sampleCache := redis.NewSampleCache(redisClient)
	eventQueue := redis.NewEventQueue(redisClient.Client)

	broadcaster := realtime.NewBroadcaster(logger, eventQueue)

	meetingSvc := service.NewMeetingTracker(logger, cfg.Meeting, storage.Meetings())
	proximitySvc := service.NewProximityService(
		logger,
		cfg.Proximity,
		storage.FriendGraph(),
		storage.Users(),
		storage.Locations(),
		sampleCache,
		meetingSvc,
		broadcaster,
	)
	sosSvc := service.NewSOSService(logger, storage.Alerts(), storage.FriendGraph(), broadcaster)
	shareSvc := service.NewShareService(logger, storage.FriendGraph(), storage.Users(), broadcaster)
	statsSvc := service.NewStatsService(logger, storage.Stats())

	srv := service.NewService(proximitySvc, meetingSvc, sosSvc, shareSvc, statsSvc)

	httpServer := api.NewServer(cfg, logger, srv, broadcaster)
	logger.Info("initialized server")

	return &Components{
		logger:      logger,
		HttpServer:  httpServer,
		Postgres:    storage,
		Redis:       redisClient,
		Broadcaster: broadcaster,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("component shutdown started")

	// closing the broadcaster first drops every live websocket, so no
	// emit races the storage teardown below
	c.Broadcaster.Close()

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("all components shut down",
		slog.Duration("latency", time.Since(start)))
}
