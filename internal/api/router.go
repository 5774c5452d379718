package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/api/handlers/http/admin"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/api/handlers/http/presence"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/api/handlers/http/share"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/api/handlers/http/sos"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/api/handlers/http/system"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/config"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/middleware"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/realtime"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service, broadcaster *realtime.Broadcaster) *Server {
	presenceHandler := presence.NewHandler(logger, svc.Proximity, svc.Meetings, broadcaster)
	sosHandler := sos.NewHandler(logger, svc.SOS)
	shareHandler := share.NewHandler(logger, svc.Share)
	adminHandler := admin.NewHandler(logger, svc.Stats, svc.SOS)
	systemHandler := system.NewHandler(logger)

	r := InitRouter(cfg, presenceHandler, sosHandler, shareHandler, adminHandler, systemHandler, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(
	cfg *config.Config,
	presenceHandler *presence.Handler,
	sosHandler *sos.Handler,
	shareHandler *share.Handler,
	adminHandler *admin.Handler,
	systemHandler *system.Handler,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		// location reports arrive every 30-60s per device, keep the
		// limiter generous
		api.Route("/location", func(lr chi.Router) {
			lr.Use(middleware.Limit(10, 20, 5*time.Minute, logger))
			lr.Post("/report", presenceHandler.ReportLocation)
		})

		api.Get("/meetings", presenceHandler.MeetingHistory)

		api.Route("/sos", func(sr chi.Router) {
			sr.Post("/", sosHandler.Send)
			sr.Route("/{id}", func(ir chi.Router) {
				ir.Get("/", sosHandler.Get)
				ir.Post("/resolve", sosHandler.Resolve)
			})
		})

		api.Route("/share", func(shr chi.Router) {
			shr.Use(middleware.Limit(5, 10, 5*time.Minute, logger))
			shr.Post("/onmyway", shareHandler.OnMyWay)
			shr.Post("/weather", shareHandler.Weather)
			shr.Post("/battery", shareHandler.Battery)
		})

		api.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.APIKeyMiddleware(cfg.APIKey))
			ar.Use(middleware.Limit(2, 5, 10*time.Minute, logger))
			ar.Get("/stats", adminHandler.AdminStats)
			ar.Get("/sos/active", adminHandler.AdminActiveAlerts)
		})

		api.Get("/health", systemHandler.SystemHealth)
	})

	// websocket endpoint stays outside the versioned tree
	r.Get("/ws", presenceHandler.Subscribe)

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
