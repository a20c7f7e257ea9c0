package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkcurrie/transit-led-golang/internal/board"
	"github.com/fkcurrie/transit-led-golang/internal/clock"
	"github.com/fkcurrie/transit-led-golang/internal/transit"
	"github.com/fkcurrie/transit-led-golang/internal/types"
)

var start = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

type result struct {
	ev  *types.DepartureEvent
	err error
}

// fakeFetcher replays results in order, then reports no match
type fakeFetcher struct {
	results []result
	calls   int
}

func (f *fakeFetcher) NextDeparture(_ context.Context, stopID, platform string) (*types.DepartureEvent, error) {
	f.calls++
	if len(f.results) == 0 {
		return nil, transit.ErrNoMatch
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.ev, r.err
}

type fakeStops struct{}

func (fakeStops) StopSequence(context.Context, string, string, string) (types.StopList, error) {
	return types.StopList{"Redfern", "Strathfield"}, nil
}

type fakePresenter struct {
	mu     sync.Mutex
	scenes []*types.Scene
	err    error
}

func (p *fakePresenter) Present(scene *types.Scene) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scenes = append(p.scenes, scene)
	return p.err
}

type fakeMetrics struct{ ticks int }

func (m *fakeMetrics) ObserveTick(time.Duration) { m.ticks++ }

func departure(trip string) *types.DepartureEvent {
	return &types.DepartureEvent{
		LineCode:         "T1",
		DestinationName:  "Hornsby",
		DestinationID:    "2077",
		PlannedDeparture: "2024-05-01T08:05:00Z",
		TripID:           trip,
	}
}

type harness struct {
	s         *Scheduler
	board     *board.Board
	fetcher   *fakeFetcher
	presenter *fakePresenter
	metrics   *fakeMetrics
	now       time.Time
	slept     []time.Duration
}

func newHarness(sched types.ScheduleConfig, results ...result) *harness {
	h := &harness{
		fetcher:   &fakeFetcher{results: results},
		presenter: &fakePresenter{},
		metrics:   &fakeMetrics{},
		now:       start,
	}
	h.board = board.New(board.Config{OriginStopID: "200060", Layout: board.DefaultLayout(64, 32)},
		fakeStops{}, nil, &clock.Service{StandardOffset: 10}, nil, nil)
	h.s = New(Config{StopID: "200060", Platform: "2", Schedule: sched}, h.board, h.fetcher, h.presenter, nil, h.metrics)
	h.s.now = func() time.Time { return h.now }
	h.s.sleep = func(ctx context.Context, d time.Duration) error {
		h.slept = append(h.slept, d)
		return ctx.Err()
	}
	return h
}

func (h *harness) tick(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, h.s.Tick(context.Background()))
	}
}

var everyTick = types.ScheduleConfig{TickMS: 100, ClockRefreshTicks: 1, DataRefreshTicks: 1}

func TestBoot(t *testing.T) {
	h := newHarness(everyTick, result{ev: departure("a")})
	assert.Equal(t, "splash", h.s.Status().Mode)

	h.s.Boot(context.Background(), "v1.0")

	require.Len(t, h.presenter.scenes, 3)
	splash := h.presenter.scenes[0]
	require.Len(t, splash.Elements, 1)
	assert.IsType(t, &types.Icon{}, splash.Elements[0])

	version := h.presenter.scenes[1]
	require.Len(t, version.Elements, 1)
	assert.Equal(t, "v1.0", version.Elements[0].(*types.Label).Text)

	assert.Len(t, h.presenter.scenes[2].Elements, 7)
	assert.Equal(t, board.ModeBoard, h.board.Mode())

	st := h.s.Status()
	assert.Equal(t, "board", st.Mode)
	assert.Equal(t, "a", st.TripID)
	require.NotNil(t, st.LastFetch)
	assert.Equal(t, start, *st.LastFetch)
	assert.True(t, st.LastFetchOK)
}

func TestBootWithoutDeparture(t *testing.T) {
	h := newHarness(everyTick, result{err: errors.New("dial tcp: timeout")})
	h.s.Boot(context.Background(), "v1.0")

	assert.Equal(t, board.ModeNoData, h.board.Mode())
	st := h.s.Status()
	assert.Equal(t, "no_data", st.Mode)
	assert.False(t, st.LastFetchOK)
}

func TestRedrawGating(t *testing.T) {
	h := newHarness(everyTick,
		result{ev: departure("a")},
		result{ev: departure("a")},
		result{ev: departure("b")},
		result{ev: departure("a")},
	)
	h.s.Boot(context.Background(), "v1.0")

	// data counter starts at zero so the first tick does not fetch
	h.tick(t, 4)

	assert.Equal(t, 4, h.fetcher.calls)
	assert.Equal(t, 3, h.board.Redraws())
	assert.Equal(t, "a", h.s.Status().TripID)
}

func TestTransientFailureKeepsBoard(t *testing.T) {
	h := newHarness(everyTick,
		result{ev: departure("a")},
		result{err: errors.New("connection reset")},
	)
	h.s.Boot(context.Background(), "v1.0")
	h.tick(t, 2)

	assert.Equal(t, 2, h.fetcher.calls)
	assert.Equal(t, board.ModeBoard, h.board.Mode())
	assert.Equal(t, 1, h.board.Redraws())
	assert.False(t, h.s.Status().LastFetchOK)
}

func TestClockRefreshCadence(t *testing.T) {
	h := newHarness(types.ScheduleConfig{TickMS: 100, ClockRefreshTicks: 2, DataRefreshTicks: 1000},
		result{ev: departure("a")})
	h.s.Boot(context.Background(), "v1.0")
	assert.Equal(t, "5 min", h.s.Status().Countdown)

	h.now = start.Add(2 * time.Minute)
	h.tick(t, 2)
	assert.Equal(t, "5 min", h.s.Status().Countdown, "not refreshed before the threshold")

	h.tick(t, 1)
	assert.Equal(t, "3 min", h.s.Status().Countdown)
}

func TestScrollAdvancesEveryTick(t *testing.T) {
	h := newHarness(types.ScheduleConfig{TickMS: 100, ClockRefreshTicks: 50, DataRefreshTicks: 200},
		result{ev: departure("a")})
	h.s.Boot(context.Background(), "v1.0")

	h.tick(t, 5)
	assert.Equal(t, 11-5, h.board.Scroll().Offset)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond,
		100 * time.Millisecond, 100 * time.Millisecond}, h.slept)
	assert.Len(t, h.presenter.scenes, 3+5)
	assert.Equal(t, 5, h.metrics.ticks)
}

func TestNoDataRetries(t *testing.T) {
	h := newHarness(types.ScheduleConfig{TickMS: 100, ClockRefreshTicks: 1, DataRefreshTicks: 2},
		result{err: transit.ErrNoMatch},
		result{err: transit.ErrNoMatch},
		result{ev: departure("a")},
	)
	h.s.Boot(context.Background(), "v1.0")
	require.Equal(t, board.ModeNoData, h.board.Mode())
	scene := h.board.Scene()

	h.tick(t, 3)
	assert.Equal(t, 2, h.fetcher.calls)
	assert.Equal(t, board.ModeNoData, h.board.Mode())
	assert.Same(t, scene, h.board.Scene(), "idle screen is static")
	assert.True(t, h.s.Status().LastFetchOK, "no match is not a fetch failure")

	h.tick(t, 1)
	assert.Equal(t, 3, h.fetcher.calls)
	assert.Equal(t, board.ModeBoard, h.board.Mode())
	assert.Equal(t, 1, h.board.Redraws())
}

func TestPresentErrorIsAbsorbed(t *testing.T) {
	h := newHarness(everyTick, result{ev: departure("a")})
	h.presenter.err = errors.New("panel unplugged")
	h.s.Boot(context.Background(), "v1.0")

	assert.NoError(t, h.s.Tick(context.Background()))
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness(everyTick, result{ev: departure("a")})
	h.s.Boot(context.Background(), "v1.0")
	h.s.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Minute), context.DeadlineExceeded)
}
