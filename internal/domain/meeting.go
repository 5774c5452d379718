package domain

import (
	"time"

	"github.com/google/uuid"
)

// MeetingSession tracks an interval during which two friends stayed within
// the nearby threshold. UserA < UserB lexicographically (same canonical
// order as PairKey). EndedAt is nil while the session is open; at most one
// open session exists per unordered pair at any instant.
type MeetingSession struct {
	ID          uuid.UUID  `json:"id"`
	UserA       uuid.UUID  `json:"user_a"`
	UserB       uuid.UUID  `json:"user_b"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	CentroidLat float64    `json:"centroid_lat"`
	CentroidLng float64    `json:"centroid_lng"`
	PlaceName   *string    `json:"place_name,omitempty"`
	DurationMin int        `json:"duration_min"`
}

func (m *MeetingSession) Pair() PairKey {
	return NewPairKey(m.UserA, m.UserB)
}

type MeetingHistoryRequest struct {
	UserA          string `json:"user_a" validate:"required,uuid"`
	UserB          string `json:"user_b" validate:"required,uuid"`
	MinDurationMin int    `json:"min_duration_min" validate:"min=0"`
}

type MeetingHistoryResponse struct {
	Meetings []*MeetingSession `json:"meetings"`
	Total    int               `json:"total"`
}
