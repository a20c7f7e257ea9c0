// Command panel-test drives the panel without network access: solid colour
// fills, a checkerboard, then the splash, version and a canned departure
// board, for checking wiring and layout.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkcurrie/transit-led-golang/internal/board"
	"github.com/fkcurrie/transit-led-golang/internal/clock"
	"github.com/fkcurrie/transit-led-golang/internal/config"
	"github.com/fkcurrie/transit-led-golang/internal/display"
	"github.com/fkcurrie/transit-led-golang/internal/logging"
	"github.com/fkcurrie/transit-led-golang/internal/types"
	"github.com/fkcurrie/transit-led-golang/pkg/matrix"
)

// cannedStops stands in for the trip planner
type cannedStops types.StopList

func (s cannedStops) StopSequence(context.Context, string, string, string) (types.StopList, error) {
	return types.StopList(s), nil
}

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	line := flag.String("line", "T1", "Line code for the canned departure")
	destination := flag.String("destination", "Hornsby", "Destination for the canned departure")
	hold := flag.Duration("hold", 2*time.Second, "How long each test screen is shown")
	headless := flag.Bool("headless", false, "Do not open the GPIO panel")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelDebug, "text")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Info("using default configuration", slog.String("reason", err.Error()))
		cfg = config.DefaultConfig()
	}
	cfg.Panel.Enabled = !*headless

	panel, err := display.OpenPanel(cfg.Panel, cfg.Display, logger)
	if err != nil {
		logging.LogError(logger, "failed to open panel", err)
		os.Exit(1)
	}
	defer logging.SafeCloseWithLogging(panel, logger, "panel")

	catalog, err := display.NewCatalog(logger)
	if err != nil {
		logging.LogError(logger, "failed to load icons", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := display.NewRenderer(panel, catalog, logger)
	b := board.New(board.Config{Layout: board.DefaultLayout(cfg.Display.Width, cfg.Display.Height)},
		cannedStops{"Redfern", "Strathfield", "Epping", "Hornsby"}, catalog, clock.NewService(cfg.Clock), logger, nil)

	ev := &types.DepartureEvent{
		LineCode:        *line,
		DestinationName: *destination,
		TripID:          "panel-test",
	}

	for ctx.Err() == nil {
		if err := patterns(ctx, panel, *hold); err != nil {
			break
		}

		b.ShowSplash()
		show(ctx, renderer, b, *hold)
		b.ShowVersion("panel-test")
		show(ctx, renderer, b, *hold)

		// a fresh trip each cycle so the countdown starts from six minutes
		now := time.Now()
		ev.PlannedDeparture = now.Add(6 * time.Minute).UTC().Format(time.RFC3339)
		ev.TripID = fmt.Sprintf("panel-test-%d", now.Unix())
		b.Apply(ctx, ev, now)
		scroll(ctx, renderer, b, cfg.Schedule.Tick(), 2*cfg.Display.Height+40)
	}
	logger.Info("panel test stopped")
}

// patterns shows solid fills and a checkerboard
func patterns(ctx context.Context, panel *matrix.Matrix, hold time.Duration) error {
	fills := []color.Color{
		color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 255, 0, 255},
		color.RGBA{0, 0, 255, 255},
		color.White,
	}
	for _, c := range fills {
		if err := panel.Fill(c); err != nil {
			return err
		}
		if !wait(ctx, hold) {
			return ctx.Err()
		}
	}

	w, h := panel.GetDimensions()
	const cellSize = 4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.Color(color.Black)
			if (x/cellSize+y/cellSize)%2 == 0 {
				c = color.RGBA{255, 255, 0, 255}
			}
			if err := panel.SetPixel(x, y, c); err != nil {
				return err
			}
		}
	}
	if err := panel.Show(); err != nil {
		return err
	}
	if !wait(ctx, hold) {
		return ctx.Err()
	}
	return nil
}

func show(ctx context.Context, r *display.Renderer, b *board.Board, hold time.Duration) {
	if err := r.Present(b.Scene()); err != nil {
		logging.LogError(slog.Default(), "failed to present", err)
	}
	wait(ctx, hold)
}

// scroll runs the stop list for the given number of ticks
func scroll(ctx context.Context, r *display.Renderer, b *board.Board, tick time.Duration, ticks int) {
	for i := 0; i < ticks; i++ {
		b.Advance()
		if i%50 == 0 {
			b.RefreshClock(time.Now())
		}
		if err := r.Present(b.Scene()); err != nil {
			logging.LogError(slog.Default(), "failed to present", err)
		}
		if !wait(ctx, tick) {
			return
		}
	}
}

func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
