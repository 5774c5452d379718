package share

import (
	"context"
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type ShareService interface {
	OnMyWay(ctx context.Context, req domain.OnMyWayRequest) error
	ShareWeather(ctx context.Context, req domain.WeatherShareRequest) error
	UpdateBattery(ctx context.Context, req domain.BatteryUpdateRequest) error
}

type Handler struct {
	logger *slog.Logger
	Shares ShareService
}

func NewHandler(logger *slog.Logger, shares ShareService) *Handler {
	return &Handler{logger: logger, Shares: shares}
}

func (h *Handler) OnMyWay(w http.ResponseWriter, r *http.Request) {
	var req domain.OnMyWayRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.Shares.OnMyWay(r.Context(), req); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Weather(w http.ResponseWriter, r *http.Request) {
	var req domain.WeatherShareRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.Shares.ShareWeather(r.Context(), req); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Battery(w http.ResponseWriter, r *http.Request) {
	var req domain.BatteryUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.Shares.UpdateBattery(r.Context(), req); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		h.log(r).Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return false
	}
	return true
}
