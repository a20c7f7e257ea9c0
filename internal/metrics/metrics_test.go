package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkcurrie/transit-led-golang/internal/types"
)

func newTestCollector() *Collector {
	return NewCollector(types.ScheduleConfig{TickMS: 100, ClockRefreshTicks: 50, DataRefreshTicks: 200})
}

func TestScheduleGauges(t *testing.T) {
	c := newTestCollector()
	assert.InDelta(t, 0.1, testutil.ToFloat64(c.TickInterval), 1e-9)
	assert.InDelta(t, 5, testutil.ToFloat64(c.ClockRefreshSeconds), 1e-9)
	assert.InDelta(t, 20, testutil.ToFloat64(c.DataRefreshSeconds), 1e-9)
}

func TestObserveFetch(t *testing.T) {
	c := newTestCollector()
	c.ObserveFetch("departure_mon", "ok", 120*time.Millisecond)
	c.ObserveFetch("departure_mon", "ok", 80*time.Millisecond)
	c.ObserveFetch("trip", "error", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Fetches.WithLabelValues("departure_mon", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Fetches.WithLabelValues("trip", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.FetchDuration))
}

func TestBoardMetrics(t *testing.T) {
	c := newTestCollector()
	c.RedrawInc()
	c.RedrawInc()
	c.ScrollWrapInc()
	c.ObserveTick(100 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Redraws))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ScrollWraps))

	c.SetMode("splash")
	c.SetMode("board")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Mode.WithLabelValues("board")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Mode.WithLabelValues("splash")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Mode.WithLabelValues("no_data")))
}

func TestHandler(t *testing.T) {
	c := newTestCollector()
	c.RedrawInc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "board_redraws_total 1")
	assert.Contains(t, string(body), `board_mode{mode="no_data"} 0`)
}
