// Package board is the render state machine of the departure board.
//
// A Board owns the displayed departure, its stop list, the scroll position
// and a retained scene. The scene is rebuilt only when a different trip is
// shown; clock, countdown and scroll updates mutate it in place so nothing
// else on the panel is redrawn.
package board

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fkcurrie/transit-led-golang/internal/clock"
	"github.com/fkcurrie/transit-led-golang/internal/logging"
	"github.com/fkcurrie/transit-led-golang/internal/transit"
	"github.com/fkcurrie/transit-led-golang/internal/types"
)

// CountdownUnknown is shown when the departure timestamp cannot be parsed
const CountdownUnknown = "--"

// StopFetcher resolves the stop list of a trip
type StopFetcher interface {
	StopSequence(ctx context.Context, originID, destinationID, lineCode string) (types.StopList, error)
}

// IconSet reports which line codes have a dedicated glyph
type IconSet interface {
	Has(lineCode string) bool
}

// Metrics receives board events. Implementations must accept calls from the
// loop goroutine only.
type Metrics interface {
	RedrawInc()
	ScrollWrapInc()
	SetMode(mode string)
}

// Config holds what the board needs to know about its station
type Config struct {
	OriginStopID string
	Layout       Layout
}

// Board is the render state machine
type Board struct {
	cfg     Config
	stops   StopFetcher
	icons   IconSet
	clock   *clock.Service
	logger  *slog.Logger
	metrics Metrics

	mode     Mode
	event    *types.DepartureEvent
	stopList types.StopList
	scroll   ScrollState
	scene    *types.Scene

	// retained elements updated between full redraws
	countdownLabel *types.Label
	clockLabel     *types.Label
	stopGroup      *types.StopGroup
	bottomBand     *types.Band

	redraws int
}

// New creates a board in splash mode. icons and metrics may be nil.
func New(cfg Config, stops StopFetcher, icons IconSet, clk *clock.Service, logger *slog.Logger, metrics Metrics) *Board {
	b := &Board{
		cfg:     cfg,
		stops:   stops,
		icons:   icons,
		clock:   clk,
		logger:  logging.Component(logger, "board"),
		metrics: metrics,
	}
	b.ShowSplash()
	return b
}

// Mode returns the active display mode
func (b *Board) Mode() Mode { return b.mode }

// Event returns the displayed departure, or nil
func (b *Board) Event() *types.DepartureEvent { return b.event }

// Stops returns the displayed stop list
func (b *Board) Stops() types.StopList { return b.stopList }

// Scroll returns the current scroll state
func (b *Board) Scroll() ScrollState { return b.scroll }

// Scene returns the retained scene to present
func (b *Board) Scene() *types.Scene { return b.scene }

// Redraws returns how many full board redraws have happened
func (b *Board) Redraws() int { return b.redraws }

func (b *Board) setMode(m Mode) {
	b.mode = m
	if b.metrics != nil {
		b.metrics.SetMode(m.String())
	}
}

// ShowSplash switches to the boot splash
func (b *Board) ShowSplash() {
	b.scene = b.cfg.Layout.splashScene()
	b.setMode(ModeSplash)
}

// ShowVersion switches to the version splash
func (b *Board) ShowVersion(version string) {
	b.scene = b.cfg.Layout.versionScene(version)
	b.setMode(ModeVersionSplash)
}

// Apply takes the result of a departure fetch. A different trip triggers a
// full redraw and a stop list fetch; the same trip only refreshes the
// countdown. A nil event never clears a departure already on the board; with
// nothing shown yet the board falls back to NoData. It reports whether a
// full redraw happened.
func (b *Board) Apply(ctx context.Context, ev *types.DepartureEvent, now time.Time) bool {
	if !HasDeparture(ev) {
		if HasDeparture(b.event) {
			return false
		}
		if b.mode != ModeNoData {
			b.scene = b.cfg.Layout.noDataScene()
			b.setMode(ModeNoData)
			b.logger.Info("no departure found")
		}
		return false
	}

	if HasDeparture(b.event) && IsSameTrip(b.event, ev) {
		b.event = ev
		b.RefreshClock(now)
		return false
	}

	b.event = ev
	b.redraw(ctx, now)
	return true
}

// redraw rebuilds the whole board for the current event
func (b *Board) redraw(ctx context.Context, now time.Time) {
	ev := b.event
	l := b.cfg.Layout

	stops, err := b.stops.StopSequence(ctx, b.cfg.OriginStopID, ev.DestinationID, ev.LineCode)
	if err != nil {
		if errors.Is(err, transit.ErrNoJourney) {
			b.logger.Info("no stop list for trip", slog.String("trip_id", ev.TripID), slog.String("line", ev.LineCode))
		} else {
			logging.LogError(b.logger, "failed to fetch stop list", err, slog.String("trip_id", ev.TripID))
		}
		stops = nil
	}
	b.stopList = stops
	b.scroll = NewScrollState(len(stops), l.LineHeight, l.StopsStart, l.StopsRestart)

	b.stopGroup = &types.StopGroup{
		Lines:   stops,
		X:       l.StopsX,
		Y:       b.scroll.Offset,
		Spacing: l.LineHeight,
		Color:   StopGrey,
	}
	topBand := &types.Band{Width: l.Width, Height: l.TopBandHeight, Color: Black}
	b.bottomBand = &types.Band{Y: l.BottomBandTop, Width: l.Width, Height: l.BottomBandHeight, Color: Black}
	destination := &types.Label{Text: ev.DestinationName, X: l.Destination.X, Y: l.Destination.Y, Color: White}
	icon := &types.Icon{LineCode: b.iconFor(ev.LineCode), X: l.Icon.X, Y: l.Icon.Y}
	b.countdownLabel = &types.Label{X: l.Countdown.X, Y: l.Countdown.Y, Anchor: types.AnchorRight, Color: White}
	b.clockLabel = &types.Label{X: l.Clock.X, Y: l.Clock.Y, Color: White}

	scene := &types.Scene{}
	scene.Add(b.stopGroup, topBand, b.bottomBand, destination, icon, b.countdownLabel, b.clockLabel)
	b.scene = scene
	b.setMode(ModeBoard)
	b.RefreshClock(now)

	b.redraws++
	if b.metrics != nil {
		b.metrics.RedrawInc()
	}
	logging.LogOperation(b.logger, "board redrawn",
		slog.String("trip_id", ev.TripID),
		slog.String("line", ev.LineCode),
		slog.String("destination", ev.DestinationName),
		slog.Int("stops", len(stops)))
}

// iconFor returns the catalog key for a line, falling back to the generic glyph
func (b *Board) iconFor(lineCode string) string {
	if b.icons != nil && b.icons.Has(lineCode) {
		return lineCode
	}
	b.logger.Info("no icon for line, using generic", slog.String("line", lineCode))
	return GenericIcon
}

// RefreshClock recomputes the countdown and clock text. The clock is shown
// only while there is no countdown, since both share the bottom row.
func (b *Board) RefreshClock(now time.Time) {
	if b.mode != ModeBoard || b.event == nil {
		return
	}

	countdown := b.countdownText(now)
	b.countdownLabel.Text = countdown
	b.countdownLabel.Hidden = countdown == ""

	b.clockLabel.Text = b.clock.FormatClock(now)
	b.clockLabel.Hidden = countdown != ""

	b.bottomBand.Hidden = b.countdownLabel.Hidden && b.clockLabel.Hidden
}

func (b *Board) countdownText(now time.Time) string {
	hours, minutes, err := clock.TimeUntil(b.event.DepartureTime(), now)
	if err != nil {
		b.logger.Warn("unreadable departure time",
			slog.String("trip_id", b.event.TripID),
			slog.String("error", err.Error()))
		return CountdownUnknown
	}
	return clock.Countdown(hours, minutes)
}

// Advance scrolls the stop list one row
func (b *Board) Advance() {
	if b.mode != ModeBoard {
		return
	}
	if b.scroll.Advance() && b.metrics != nil {
		b.metrics.ScrollWrapInc()
	}
	b.stopGroup.Y = b.scroll.Offset
}

// Snapshot returns a copy of what is on the panel
func (b *Board) Snapshot() types.BoardStatus {
	s := types.BoardStatus{
		Mode:    b.mode.String(),
		Stops:   len(b.stopList),
		Redraws: b.redraws,
	}
	if b.mode != ModeBoard || b.event == nil {
		return s
	}
	s.LineCode = b.event.LineCode
	s.Destination = b.event.DestinationName
	s.TripID = b.event.TripID
	s.Departure = b.event.DepartureTime()
	if !b.countdownLabel.Hidden {
		s.Countdown = b.countdownLabel.Text
	}
	if !b.clockLabel.Hidden {
		s.Clock = b.clockLabel.Text
	}
	return s
}
