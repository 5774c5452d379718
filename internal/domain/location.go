package domain

import (
	"time"

	"github.com/google/uuid"
)

// LocationSample is the single current position of a user. Exactly one row
// per user is kept: a newer sample overwrites the previous one, and a sample
// older than the stored RecordedAt is rejected so out-of-order delivery can
// never regress the position.
type LocationSample struct {
	UserID     uuid.UUID `json:"user_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	AccuracyM  *float64  `json:"accuracy_m,omitempty"`
	AltitudeM  *float64  `json:"altitude_m,omitempty"`
	SpeedMS    *float64  `json:"speed_ms,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type ReportLocationRequest struct {
	UserID     string     `json:"user_id" validate:"required,uuid"`
	Lat        float64    `json:"lat" validate:"lat"`
	Lng        float64    `json:"lng" validate:"lng"`
	AccuracyM  *float64   `json:"accuracy_m,omitempty" validate:"omitempty,min=0"`
	AltitudeM  *float64   `json:"altitude_m,omitempty"`
	SpeedMS    *float64   `json:"speed_ms,omitempty" validate:"omitempty,min=0"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

type ReportLocationResponse struct {
	Crossings []EdgeCrossing `json:"crossings"`
}
