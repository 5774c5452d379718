package presence

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"
	"github.com/TorikulIslamHira/geofranzy-sub002/internal/realtime"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type LocationReporter interface {
	ReportLocation(ctx context.Context, req domain.ReportLocationRequest) (domain.ReportLocationResponse, error)
}

type MeetingHistoryReader interface {
	History(ctx context.Context, req domain.MeetingHistoryRequest) (domain.MeetingHistoryResponse, error)
}

// Registry is the join/leave side of the presence broadcaster.
type Registry interface {
	Join(ctx context.Context, userID uuid.UUID, ch realtime.Channel) error
	Leave(userID uuid.UUID, ch realtime.Channel)
}

type Handler struct {
	logger   *slog.Logger
	Reporter LocationReporter
	Meetings MeetingHistoryReader
	Registry Registry
	upgrader websocket.Upgrader
}

func NewHandler(logger *slog.Logger, reporter LocationReporter, meetings MeetingHistoryReader, registry Registry) *Handler {
	return &Handler{
		logger:   logger,
		Reporter: reporter,
		Meetings: meetings,
		Registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ReportLocation(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req domain.ReportLocationRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	resp, err := h.Reporter.ReportLocation(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Debug("location reported",
		slog.String("user_id", req.UserID),
		slog.Int("crossings", len(resp.Crossings)),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) MeetingHistory(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	q := r.URL.Query()
	req := domain.MeetingHistoryRequest{
		UserA:          q.Get("user_a"),
		UserB:          q.Get("user_b"),
		MinDurationMin: parseInt(q.Get("min_duration_min"), 0),
	}

	resp, err := h.Meetings.History(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Debug("meeting history served", slog.Int("total", resp.Total))
	h.writeJSON(w, http.StatusOK, resp)
}

// Subscribe upgrades to a websocket and joins the user's presence room.
// The read loop exists only to notice the peer going away; all events flow
// in the other direction through the joined channel.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user_id"})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	ch := realtime.NewWSChannel(conn, h.logger)
	if err := h.Registry.Join(r.Context(), userID, ch); err != nil {
		l.Error("presence join failed", slog.Any("error", err))
		_ = ch.Close()
		return
	}

	l.Info("presence channel joined", slog.String("user_id", userID.String()))

	go func() {
		defer func() {
			h.Registry.Leave(userID, ch)
			_ = ch.Close()
			l.Info("presence channel left", slog.String("user_id", userID.String()))
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			select {
			case <-ch.Done():
				return
			default:
			}
		}
	}()
}
