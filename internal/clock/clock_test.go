package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkcurrie/transit-led-golang/internal/types"
)

func TestTimeUntil(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		target      string
		wantHours   int
		wantMinutes int
	}{
		{name: "in the past", target: "2024-05-01T07:59:00Z", wantHours: 0, wantMinutes: 0},
		{name: "exactly now", target: "2024-05-01T08:00:00Z", wantHours: 0, wantMinutes: 0},
		{name: "hour and a half", target: "2024-05-01T09:30:00Z", wantHours: 1, wantMinutes: 30},
		{name: "forty five minutes", target: "2024-05-01T08:45:00Z", wantHours: 0, wantMinutes: 45},
		{name: "seconds are truncated", target: "2024-05-01T08:04:59Z", wantHours: 0, wantMinutes: 4},
		{name: "under a minute", target: "2024-05-01T08:00:40Z", wantHours: 0, wantMinutes: 0},
		{name: "explicit offset", target: "2024-05-01T18:10:00+10:00", wantHours: 0, wantMinutes: 10},
		{name: "no zone designator is UTC", target: "2024-05-01T08:20:00", wantHours: 0, wantMinutes: 20},
		{name: "more than a day", target: "2024-05-02T10:05:00Z", wantHours: 26, wantMinutes: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, minutes, err := TimeUntil(tt.target, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHours, hours)
			assert.Equal(t, tt.wantMinutes, minutes)
		})
	}
}

func TestTimeUntilMalformed(t *testing.T) {
	for _, in := range []string{"", "soon", "2024-13-45T99:00:00Z"} {
		hours, minutes, err := TimeUntil(in, time.Now())
		assert.ErrorIs(t, err, ErrMalformedTimestamp, "input %q", in)
		assert.Zero(t, hours)
		assert.Zero(t, minutes)
	}
}

func TestFormatClock(t *testing.T) {
	midnight := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	dst := NewService(types.ClockConfig{UTCOffsetHours: 10, DSTOffsetHours: 11, UsesDST: true})
	assert.Equal(t, 11, dst.Offset())
	assert.Equal(t, "11:00", dst.FormatClock(midnight))

	standard := NewService(types.ClockConfig{UTCOffsetHours: 10, DSTOffsetHours: 11, UsesDST: false})
	assert.Equal(t, 10, standard.Offset())
	assert.Equal(t, "10:00", standard.FormatClock(midnight))

	// input location must not matter
	sydney := time.FixedZone("AEST", 10*3600)
	assert.Equal(t, "10:00", FormatClock(midnight.In(sydney), 10))
	assert.Equal(t, "05:07", FormatClock(time.Date(2024, 1, 1, 19, 7, 0, 0, time.UTC), 10))
}

func TestCountdown(t *testing.T) {
	assert.Equal(t, "1 hr 30 min", Countdown(1, 30))
	assert.Equal(t, "2 hr 0 min", Countdown(2, 0))
	assert.Equal(t, "45 min", Countdown(0, 45))
	assert.Equal(t, "", Countdown(0, 0))
}
