package domain

import (
	"time"

	"github.com/google/uuid"
)

type SOSStatus string

const (
	SOSActive   SOSStatus = "active"
	SOSResolved SOSStatus = "resolved"
)

// SOSAlert is an emergency broadcast. Created once, resolved at most once,
// never deleted (audit trail). NotifiedUsers snapshots the sender's friend
// set at send time so the resolve broadcast reaches exactly the same people
// even if the friend graph changed in between.
type SOSAlert struct {
	ID            uuid.UUID   `json:"id"`
	SenderID      uuid.UUID   `json:"sender_id"`
	Lat           float64     `json:"lat"`
	Lng           float64     `json:"lng"`
	BatteryLevel  *int        `json:"battery_level,omitempty"`
	Message       string      `json:"message,omitempty"`
	NotifiedUsers []uuid.UUID `json:"notified_users"`
	Status        SOSStatus   `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	ResolvedAt    *time.Time  `json:"resolved_at,omitempty"`
}

type SendSOSRequest struct {
	UserID       string  `json:"user_id" validate:"required,uuid"`
	Lat          float64 `json:"lat" validate:"lat"`
	Lng          float64 `json:"lng" validate:"lng"`
	BatteryLevel *int    `json:"battery_level,omitempty" validate:"omitempty,battery"`
	Message      string  `json:"message,omitempty" validate:"max=500"`
}

type SendSOSResponse struct {
	AlertID string `json:"alert_id"`
}

type ResolveSOSRequest struct {
	RequesterID string `json:"requester_id" validate:"required,uuid"`
	Message     string `json:"message,omitempty" validate:"max=500"`
}
