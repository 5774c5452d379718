package admin

import (
	"context"
	"net/http"

	"log/slog"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type StatsGetter interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.PresenceStats, error)
}

type ActiveAlertLister interface {
	ListActive(ctx context.Context) ([]*domain.SOSAlert, error)
}

type Handler struct {
	logger *slog.Logger
	Stats  StatsGetter
	Alerts ActiveAlertLister
}

func NewHandler(logger *slog.Logger, stats StatsGetter, alerts ActiveAlertLister) *Handler {
	return &Handler{
		logger: logger,
		Stats:  stats,
		Alerts: alerts,
	}
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AdminStats", slog.String("query", r.URL.RawQuery), slog.String("remote", r.RemoteAddr))

	req := domain.StatsRequest{
		Minutes: parseInt(r.URL.Query().Get("minutes"), 0),
	}

	stats, err := h.Stats.GetStats(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) AdminActiveAlerts(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AdminActiveAlerts", slog.String("remote", r.RemoteAddr))

	alerts, err := h.Alerts.ListActive(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("active alerts listed", slog.Int("count", len(alerts)))
	h.writeJSON(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"total":  len(alerts),
	})
}
