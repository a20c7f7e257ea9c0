package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fkcurrie/transit-led-golang/internal/board"
	"github.com/fkcurrie/transit-led-golang/internal/clock"
	"github.com/fkcurrie/transit-led-golang/internal/config"
	"github.com/fkcurrie/transit-led-golang/internal/display"
	"github.com/fkcurrie/transit-led-golang/internal/logging"
	"github.com/fkcurrie/transit-led-golang/internal/metrics"
	"github.com/fkcurrie/transit-led-golang/internal/scheduler"
	"github.com/fkcurrie/transit-led-golang/internal/status"
	"github.com/fkcurrie/transit-led-golang/internal/transit"
)

// version is shown on the version splash; set with -ldflags "-X main.version=..."
var version = "v1.0"

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to an optional .env file")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	if err := run(*configPath, *envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return err
	}

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return logging.Fatal(logger, "invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector(cfg.Schedule)
	client := transit.NewClient(cfg.Transit, logger, collector)

	stopID := cfg.Transit.StopID
	if stopID == "" {
		stopID, err = client.ResolveStop(ctx, cfg.Transit.Station)
		if err != nil {
			return logging.Fatal(logger, "failed to resolve station", err)
		}
	}

	catalog, err := display.NewCatalog(logger)
	if err != nil {
		return logging.Fatal(logger, "failed to load icons", err)
	}

	panel, err := display.OpenPanel(cfg.Panel, cfg.Display, logger)
	if err != nil {
		return logging.Fatal(logger, "failed to open panel", err)
	}
	defer logging.SafeCloseWithLogging(panel, logger, "panel")

	renderer := display.NewRenderer(panel, catalog, logger)

	b := board.New(board.Config{
		OriginStopID: stopID,
		Layout:       board.DefaultLayout(cfg.Display.Width, cfg.Display.Height),
	}, client, catalog, clock.NewService(cfg.Clock), logger, collector)

	sched := scheduler.New(scheduler.Config{
		StopID:   stopID,
		Platform: cfg.Transit.Platform,
		Schedule: cfg.Schedule,
	}, b, client, renderer, logger, collector)

	statusDone := make(chan struct{})
	if cfg.Status.Addr != "" {
		srv := status.New(cfg.Status.Addr, version, sched, renderer, collector.Handler(), logger)
		go func() {
			defer close(statusDone)
			if err := srv.Run(ctx); err != nil {
				logging.LogError(logger, "status server stopped", err)
			}
		}()
	} else {
		close(statusDone)
	}

	logger.Info("starting departure board",
		slog.String("version", version),
		slog.String("stop_id", stopID),
		slog.String("platform", cfg.Transit.Platform),
		slog.Bool("panel", cfg.Panel.Enabled))

	sched.Boot(ctx, version)
	err = sched.Run(ctx)
	<-statusDone

	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	return err
}

// loadConfig reads path over the defaults. A missing file is fine; the
// environment can carry the whole configuration.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
