package display

import (
	"fmt"
	"log/slog"

	"github.com/fkcurrie/transit-led-golang/internal/logging"
	"github.com/fkcurrie/transit-led-golang/internal/types"
	"github.com/fkcurrie/transit-led-golang/pkg/hub75"
	"github.com/fkcurrie/transit-led-golang/pkg/matrix"
)

// OpenPanel creates the framebuffer matrix for the board. When the panel is
// disabled the matrix runs headless, which is how the board runs off-device.
func OpenPanel(panel types.PanelConfig, disp types.DisplayConfig, logger *slog.Logger) (*matrix.Matrix, error) {
	logger = logging.Component(logger, "panel")

	var driver matrix.Driver
	if panel.Enabled {
		ctrl, err := hub75.NewController(HUB75Config(panel, disp), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize HUB75 controller: %w", err)
		}
		driver = ctrl
	} else {
		logger.Info("panel disabled, running headless")
	}

	m, err := matrix.NewMatrix(&matrix.Config{
		Width:      disp.Width,
		Height:     disp.Height,
		Brightness: disp.Brightness,
	}, driver)
	if err != nil {
		if driver != nil {
			logging.SafeCloseWithLogging(driver, logger, "hub75_controller")
		}
		return nil, err
	}
	return m, nil
}

// HUB75Config maps the configured wiring onto the controller config
func HUB75Config(panel types.PanelConfig, disp types.DisplayConfig) hub75.Config {
	return hub75.Config{
		Chip:   panel.Chip,
		Width:  disp.Width,
		Height: disp.Height,
		R1Pin:  panel.R1Pin,
		G1Pin:  panel.G1Pin,
		B1Pin:  panel.B1Pin,
		R2Pin:  panel.R2Pin,
		G2Pin:  panel.G2Pin,
		B2Pin:  panel.B2Pin,
		CLKPin: panel.CLKPin,
		OEPin:  panel.OEPin,
		LATPin: panel.LATPin,
		APin:   panel.APin,
		BPin:   panel.BPin,
		CPin:   panel.CPin,
		DPin:   panel.DPin,
		EPin:   panel.EPin,
	}
}
