package domain

type PresenceStats struct {
	ActiveUsers    int64 `json:"active_users"`
	MeetingsClosed int64 `json:"meetings_closed"`
	ActiveAlerts   int64 `json:"active_alerts"`
	Minutes        int   `json:"minutes"`
}

type StatsRequest struct {
	Minutes int `query:"minutes" validate:"min=0,max=1440"` // one day max
}
