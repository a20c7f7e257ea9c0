package types

import (
	"time"
)

// BoardStatus is a point-in-time copy of what the board is showing
type BoardStatus struct {
	Mode        string     `json:"mode"`
	LineCode    string     `json:"line_code,omitempty"`
	Destination string     `json:"destination,omitempty"`
	TripID      string     `json:"trip_id,omitempty"`
	Departure   string     `json:"departure,omitempty"`
	Countdown   string     `json:"countdown"`
	Clock       string     `json:"clock"`
	Stops       int        `json:"stops"`
	Redraws     int        `json:"redraws"`
	LastFetch   *time.Time `json:"last_fetch,omitempty"`
	LastFetchOK bool       `json:"last_fetch_ok"`
}

// PanelConfig represents the GPIO wiring of the HUB75 panel. Pin numbers are
// line offsets on Chip; a negative pin is not connected.
type PanelConfig struct {
	Enabled bool   `json:"enabled"`
	Chip    string `json:"chip"`
	R1Pin   int    `json:"r1"`
	G1Pin   int    `json:"g1"`
	B1Pin   int    `json:"b1"`
	R2Pin   int    `json:"r2"`
	G2Pin   int    `json:"g2"`
	B2Pin   int    `json:"b2"`
	CLKPin  int    `json:"clk"`
	OEPin   int    `json:"oe"`
	LATPin  int    `json:"lat"`
	APin    int    `json:"a"`
	BPin    int    `json:"b"`
	CPin    int    `json:"c"`
	DPin    int    `json:"d"`
	EPin    int    `json:"e"`
}

// DisplayConfig represents the configuration for the display
type DisplayConfig struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	Brightness int `json:"brightness"`
}

// TransitConfig represents the configuration for the transit API
type TransitConfig struct {
	BaseURL          string `json:"base_url"`
	APIKey           string `json:"api_key"`
	StopID           string `json:"stop_id"`
	Station          string `json:"station"`
	Platform         string `json:"platform"`
	RequestTimeoutMS int    `json:"request_timeout_ms"`
}

// RequestTimeout returns the per-request timeout
func (c TransitConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// ScheduleConfig represents the tick cadence of the main loop. Real refresh
// periods are TickMS times the thresholds plus any blocking fetch time.
type ScheduleConfig struct {
	TickMS            int `json:"tick_ms"`
	ClockRefreshTicks int `json:"clock_refresh_ticks"`
	DataRefreshTicks  int `json:"data_refresh_ticks"`
}

// Tick returns the tick period
func (c ScheduleConfig) Tick() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}

// ClockConfig holds the fixed UTC offsets used for the wall clock. No
// timezone database is consulted, so DST must be toggled by hand.
type ClockConfig struct {
	UTCOffsetHours int  `json:"utc_offset_hours"`
	DSTOffsetHours int  `json:"dst_offset_hours"`
	UsesDST        bool `json:"uses_dst"`
}
