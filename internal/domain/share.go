package domain

import "encoding/json"

type OnMyWayRequest struct {
	UserID      string  `json:"user_id" validate:"required,uuid"`
	Lat         float64 `json:"lat" validate:"lat"`
	Lng         float64 `json:"lng" validate:"lng"`
	Destination string  `json:"destination" validate:"required,max=200"`
}

type WeatherShareRequest struct {
	UserID  string          `json:"user_id" validate:"required,uuid"`
	Weather json.RawMessage `json:"weather" validate:"required"`
}

type BatteryUpdateRequest struct {
	UserID       string `json:"user_id" validate:"required,uuid"`
	BatteryLevel int    `json:"battery_level" validate:"battery"`
}
