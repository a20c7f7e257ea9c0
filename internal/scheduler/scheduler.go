// Package scheduler drives the board from a fixed-period tick loop.
//
// Everything the board owns is touched only from the goroutine running Boot
// and Run. Other goroutines read the published Status snapshot.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fkcurrie/transit-led-golang/internal/board"
	"github.com/fkcurrie/transit-led-golang/internal/logging"
	"github.com/fkcurrie/transit-led-golang/internal/transit"
	"github.com/fkcurrie/transit-led-golang/internal/types"
)

// Fetcher returns the next departure from a platform
type Fetcher interface {
	NextDeparture(ctx context.Context, stopID, platform string) (*types.DepartureEvent, error)
}

// Presenter pushes a scene to the panel
type Presenter interface {
	Present(scene *types.Scene) error
}

// Metrics receives loop timings
type Metrics interface {
	ObserveTick(d time.Duration)
}

// Config holds the station being watched and the tick cadence
type Config struct {
	StopID   string
	Platform string
	Schedule types.ScheduleConfig
}

// Scheduler runs the board loop
type Scheduler struct {
	cfg       Config
	board     *board.Board
	fetcher   Fetcher
	presenter Presenter
	logger    *slog.Logger
	metrics   Metrics

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	clockTicks int
	dataTicks  int
	idleTicks  int

	lastFetch   time.Time
	lastFetchOK bool

	status atomic.Pointer[types.BoardStatus]
}

// New creates a scheduler. metrics may be nil.
func New(cfg Config, b *board.Board, fetcher Fetcher, presenter Presenter, logger *slog.Logger, metrics Metrics) *Scheduler {
	s := &Scheduler{
		cfg:       cfg,
		board:     b,
		fetcher:   fetcher,
		presenter: presenter,
		logger:    logging.Component(logger, "scheduler"),
		metrics:   metrics,
		now:       time.Now,
		sleep:     sleepContext,
	}
	s.publish()
	return s
}

// Boot shows the splash, performs the first fetch, shows the version once
// and settles on the board or the no data screen
func (s *Scheduler) Boot(ctx context.Context, version string) {
	s.board.ShowSplash()
	s.present()

	ev := s.fetch(ctx)

	s.board.ShowVersion(version)
	s.present()

	s.board.Apply(ctx, ev, s.now())
	s.present()
	s.publish()

	s.logger.Info("board started",
		slog.String("version", version),
		slog.String("mode", s.board.Mode().String()))
}

// Run ticks until ctx is cancelled and returns its error
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := s.Tick(ctx); err != nil {
			return err
		}
	}
}

// Tick runs one iteration of the loop. Only a cancelled context is returned
// as an error; fetch and display failures are logged and absorbed.
func (s *Scheduler) Tick(ctx context.Context) error {
	start := time.Now()
	sched := s.cfg.Schedule

	if s.board.Mode() == board.ModeBoard {
		if s.clockTicks >= sched.ClockRefreshTicks {
			s.board.RefreshClock(s.now())
			s.clockTicks = 0
		}

		if s.dataTicks >= sched.DataRefreshTicks {
			s.board.Apply(ctx, s.fetch(ctx), s.now())
			s.dataTicks = 0
		}

		s.board.Advance()
		s.clockTicks++
		s.dataTicks++
	} else {
		// counters stay frozen while idle; retry on a separate count
		s.idleTicks++
		if s.idleTicks >= sched.DataRefreshTicks {
			s.idleTicks = 0
			s.board.Apply(ctx, s.fetch(ctx), s.now())
		}
	}

	if err := s.sleep(ctx, sched.Tick()); err != nil {
		return err
	}

	s.present()
	s.publish()

	if s.metrics != nil {
		s.metrics.ObserveTick(time.Since(start))
	}
	return nil
}

// Status returns the last published snapshot
func (s *Scheduler) Status() types.BoardStatus {
	return *s.status.Load()
}

// fetch returns the next departure or nil. A platform with no departures is
// not a failure.
func (s *Scheduler) fetch(ctx context.Context) *types.DepartureEvent {
	ev, err := s.fetcher.NextDeparture(ctx, s.cfg.StopID, s.cfg.Platform)
	s.lastFetch = s.now()
	s.lastFetchOK = err == nil || errors.Is(err, transit.ErrNoMatch)

	switch {
	case err == nil:
		return ev
	case errors.Is(err, transit.ErrNoMatch):
		s.logger.Debug("no departure on platform", slog.String("platform", s.cfg.Platform))
	default:
		logging.LogError(s.logger, "departure fetch failed", err,
			slog.String("stop_id", s.cfg.StopID),
			slog.String("platform", s.cfg.Platform))
	}
	return nil
}

func (s *Scheduler) present() {
	if err := s.presenter.Present(s.board.Scene()); err != nil {
		logging.LogError(s.logger, "failed to present frame", err,
			slog.String("mode", s.board.Mode().String()))
	}
}

func (s *Scheduler) publish() {
	st := s.board.Snapshot()
	if !s.lastFetch.IsZero() {
		at := s.lastFetch
		st.LastFetch = &at
	}
	st.LastFetchOK = s.lastFetchOK
	s.status.Store(&st)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
