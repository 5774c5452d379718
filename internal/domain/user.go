package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is owned and mutated by the account side of the application; the
// presence core only reads it.
type User struct {
	ID           uuid.UUID `json:"id"`
	GhostMode    bool      `json:"ghost_mode"`
	BatteryLevel *int      `json:"battery_level,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Friend is one endpoint of a bidirectional friendship edge as seen from
// the other endpoint. GhostMode suppresses visibility without removing the
// friendship.
type Friend struct {
	UserID    uuid.UUID `json:"user_id"`
	GhostMode bool      `json:"ghost_mode"`
}
