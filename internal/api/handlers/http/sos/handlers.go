package sos

import (
	"context"
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type AlertService interface {
	Send(ctx context.Context, req domain.SendSOSRequest) (uuid.UUID, error)
	Resolve(ctx context.Context, alertID, requesterID uuid.UUID, message string) error
	Get(ctx context.Context, id uuid.UUID) (*domain.SOSAlert, error)
}

type Handler struct {
	logger *slog.Logger
	Alerts AlertService
}

func NewHandler(logger *slog.Logger, alerts AlertService) *Handler {
	return &Handler{logger: logger, Alerts: alerts}
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req domain.SendSOSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	id, err := h.Alerts.Send(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("sos alert accepted", slog.String("alert_id", id.String()))
	h.writeJSON(w, http.StatusCreated, domain.SendSOSResponse{AlertID: id.String()})
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	alertID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req domain.ResolveSOSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	requesterID, err := uuid.Parse(req.RequesterID)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid requester_id"})
		return
	}

	if err := h.Alerts.Resolve(r.Context(), alertID, requesterID, req.Message); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("sos alert resolved", slog.String("alert_id", alertID.String()))
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	alert, err := h.Alerts.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, alert)
}
