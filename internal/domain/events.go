package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Named events delivered through the presence broadcaster. The wire names
// are part of the client contract and must not change.
const (
	EventNearbyAlert         = "nearbyAlert"
	EventWeatherShare        = "weatherShare"
	EventSOSAlert            = "sosAlert"
	EventSOSResolved         = "sosResolved"
	EventFriendOnMyWay       = "friendOnMyWay"
	EventFriendBatteryUpdate = "friendBatteryUpdate"
)

// Event is the envelope written to a presence channel and parked in the
// pending queue for offline users.
type Event struct {
	Name      string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	EmittedAt time.Time       `json:"emitted_at"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type NearbyAlertPayload struct {
	Friend    uuid.UUID `json:"friend"`
	DistanceM float64   `json:"distance"`
}

type WeatherSharePayload struct {
	From    uuid.UUID       `json:"from"`
	Weather json.RawMessage `json:"weather"`
}

type SOSAlertPayload struct {
	From         uuid.UUID `json:"from"`
	Location     Location  `json:"location"`
	BatteryLevel *int      `json:"batteryLevel,omitempty"`
	Message      string    `json:"message,omitempty"`
}

type SOSResolvedPayload struct {
	Message string `json:"message"`
}

type FriendOnMyWayPayload struct {
	From        uuid.UUID `json:"from"`
	Location    Location  `json:"location"`
	Destination string    `json:"destination"`
}

type FriendBatteryUpdatePayload struct {
	UserID       uuid.UUID `json:"userId"`
	BatteryLevel int       `json:"batteryLevel"`
}
