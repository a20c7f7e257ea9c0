package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/fkcurrie/transit-led-golang/internal/types"
)

var (
	ErrMissingAPIKey   = errors.New("transit api key is required")
	ErrMissingStop     = errors.New("either a stop id or a station name is required")
	ErrMissingPlatform = errors.New("platform is required")
)

// LogConfig selects the log level and handler format
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// StatusConfig configures the HTTP status server. An empty address disables it.
type StatusConfig struct {
	Addr string `json:"addr"`
}

// Config represents the application configuration
type Config struct {
	Display  types.DisplayConfig  `json:"display"`
	Panel    types.PanelConfig    `json:"panel"`
	Transit  types.TransitConfig  `json:"transit"`
	Schedule types.ScheduleConfig `json:"schedule"`
	Clock    types.ClockConfig    `json:"clock"`
	Status   StatusConfig         `json:"status"`
	Log      LogConfig            `json:"log"`
}

// LoadConfig loads the configuration from a file over the defaults
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return config, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Display: types.DisplayConfig{
			Width:      64,
			Height:     32,
			Brightness: 255,
		},
		Panel: DefaultPanel(),
		Transit: types.TransitConfig{
			BaseURL:          "https://api.transport.nsw.gov.au/v1/tp",
			RequestTimeoutMS: 10000,
		},
		Schedule: types.ScheduleConfig{
			TickMS:            100,
			ClockRefreshTicks: 50,
			DataRefreshTicks:  200,
		},
		Clock: types.ClockConfig{
			UTCOffsetHours: 10,
			DSTOffsetHours: 11,
			UsesDST:        true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultPanel returns the Adafruit RGB Matrix Bonnet pinout for a 64x32
// panel. The E line is only wired on 64-row panels.
func DefaultPanel() types.PanelConfig {
	return types.PanelConfig{
		Enabled: true,
		Chip:    "gpiochip0",
		R1Pin:   5,
		G1Pin:   13,
		B1Pin:   6,
		R2Pin:   12,
		G2Pin:   16,
		B2Pin:   23,
		CLKPin:  17,
		OEPin:   4,
		LATPin:  21,
		APin:    22,
		BPin:    26,
		CPin:    27,
		DPin:    20,
		EPin:    -1,
	}
}

// ApplyEnv loads envFile (if present) into the environment and overlays the
// recognised variables onto c. A missing env file is not an error.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	setString(&c.Transit.APIKey, "TRANSIT_API_KEY")
	setString(&c.Transit.BaseURL, "TRANSIT_BASE_URL")
	setString(&c.Transit.StopID, "TRANSIT_STOP_ID")
	setString(&c.Transit.Station, "TRANSIT_STATION")
	setString(&c.Transit.Platform, "TRANSIT_PLATFORM")
	setString(&c.Status.Addr, "STATUS_ADDR")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	ints := []struct {
		dst *int
		key string
	}{
		{&c.Transit.RequestTimeoutMS, "TRANSIT_REQUEST_TIMEOUT_MS"},
		{&c.Schedule.TickMS, "BOARD_TICK_MS"},
		{&c.Schedule.ClockRefreshTicks, "BOARD_CLOCK_REFRESH_TICKS"},
		{&c.Schedule.DataRefreshTicks, "BOARD_DATA_REFRESH_TICKS"},
		{&c.Clock.UTCOffsetHours, "CLOCK_UTC_OFFSET"},
		{&c.Clock.DSTOffsetHours, "CLOCK_DST_OFFSET"},
		{&c.Display.Brightness, "DISPLAY_BRIGHTNESS"},
	}
	for _, v := range ints {
		if err := setInt(v.dst, v.key); err != nil {
			return err
		}
	}

	if v := os.Getenv("CLOCK_USES_DST"); v != "" {
		c.Clock.UsesDST = parseBool(v)
	}
	if v := os.Getenv("PANEL_ENABLED"); v != "" {
		c.Panel.Enabled = parseBool(v)
	}

	return nil
}

// Validate checks the configuration before the render loop starts
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Transit.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Transit.StopID == "" && c.Transit.Station == "" {
		return ErrMissingStop
	}
	if c.Transit.Platform == "" {
		return ErrMissingPlatform
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.Brightness < 0 || c.Display.Brightness > 255 {
		return fmt.Errorf("brightness must be between 0 and 255")
	}
	if c.Schedule.TickMS <= 0 {
		return fmt.Errorf("invalid tick_ms: %d", c.Schedule.TickMS)
	}
	if c.Schedule.ClockRefreshTicks <= 0 || c.Schedule.DataRefreshTicks <= 0 {
		return fmt.Errorf("refresh thresholds must be positive (clock %d, data %d)",
			c.Schedule.ClockRefreshTicks, c.Schedule.DataRefreshTicks)
	}
	if c.Transit.RequestTimeoutMS <= 0 {
		return fmt.Errorf("invalid request_timeout_ms: %d", c.Transit.RequestTimeoutMS)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	*dst = n
	return nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
