// Package hub75 drives a HUB75 RGB LED panel by bit-banging GPIO character
// device lines.
//
// A frame is Height/2 rows of Width*6 bytes. Each pixel column carries the
// R1 G1 B1 values for the upper half and R2 G2 B2 for the lower half, one
// byte per line, 0 or 1. The panel only holds one row pair at a time, so a
// background goroutine scans the current frame out continuously.
package hub75

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/fkcurrie/transit-led-golang/internal/logging"
)

// BytesPerColumn is the size of one column in a frame row
const BytesPerColumn = 6

// rowPeriod is how long a row pair is lit at full brightness
const rowPeriod = 100 * time.Microsecond

// ErrClosed is returned when rendering to a closed controller
var ErrClosed = errors.New("hub75: controller closed")

// Config is the panel wiring. Pin numbers are line offsets on Chip; a
// negative pin is not connected and is skipped.
type Config struct {
	Chip   string
	Width  int
	Height int

	R1Pin  int // Red data for upper half
	G1Pin  int // Green data for upper half
	B1Pin  int // Blue data for upper half
	R2Pin  int // Red data for lower half
	G2Pin  int // Green data for lower half
	B2Pin  int // Blue data for lower half
	CLKPin int // Clock signal
	OEPin  int // Output enable, active low
	LATPin int // Latch signal
	APin   int // Address bit A
	BPin   int // Address bit B
	CPin   int // Address bit C
	DPin   int // Address bit D
	EPin   int // Address bit E, only on 1/32 scan panels
}

// Rows returns the number of addressable row pairs
func (c Config) Rows() int { return c.Height / 2 }

func (c Config) pins() []int {
	return []int{
		c.R1Pin, c.G1Pin, c.B1Pin,
		c.R2Pin, c.G2Pin, c.B2Pin,
		c.CLKPin, c.OEPin, c.LATPin,
		c.APin, c.BPin, c.CPin, c.DPin, c.EPin,
	}
}

// line is the part of *gpiocdev.Line the controller uses
type line interface {
	SetValue(value int) error
	Close() error
}

// Controller manages the pins for the HUB75 LED matrix
type Controller struct {
	config Config
	lines  map[int]line
	logger *slog.Logger
	sleep  func(time.Duration)

	mu         sync.Mutex
	frame      [][]byte
	brightness int
	closed     bool

	stop chan struct{}
	done chan struct{}
}

// NewController requests the panel's GPIO lines and starts scanning out a
// blank frame
func NewController(config Config, logger *slog.Logger) (*Controller, error) {
	if config.Width <= 0 || config.Height <= 0 || config.Height%2 != 0 {
		return nil, fmt.Errorf("invalid panel size %dx%d", config.Width, config.Height)
	}

	logger = logging.Component(logger, "hub75")
	lines := make(map[int]line)
	for _, pin := range config.pins() {
		if pin < 0 {
			continue
		}
		l, err := gpiocdev.RequestLine(config.Chip, pin, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("transit-led"))
		if err != nil {
			closeLines(lines, logger)
			return nil, fmt.Errorf("failed to request GPIO line %d on %s: %w", pin, config.Chip, err)
		}
		lines[pin] = l
	}
	logger.Info("GPIO lines requested", slog.String("chip", config.Chip), slog.Int("lines", len(lines)))

	c := newController(config, lines, logger)
	go c.scan()
	return c, nil
}

func newController(config Config, lines map[int]line, logger *slog.Logger) *Controller {
	frame := make([][]byte, config.Rows())
	for i := range frame {
		frame[i] = make([]byte, config.Width*BytesPerColumn)
	}
	return &Controller{
		config:     config,
		lines:      lines,
		logger:     logger,
		sleep:      time.Sleep,
		frame:      frame,
		brightness: 255,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// RenderFrame replaces the frame being scanned out. Rows beyond the panel
// height and bytes beyond its width are ignored.
func (c *Controller) RenderFrame(frame [][]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	for i := range c.frame {
		if i < len(frame) {
			n := copy(c.frame[i], frame[i])
			clear(c.frame[i][n:])
		} else {
			clear(c.frame[i])
		}
	}
	return nil
}

// SetBrightness sets the share of each row period the LEDs are lit, 0-255
func (c *Controller) SetBrightness(brightness int) error {
	if brightness < 0 || brightness > 255 {
		return fmt.Errorf("brightness must be between 0 and 255")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brightness = brightness
	return nil
}

// Close stops scanning, blanks the panel and releases all GPIO lines
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done

	// blank
	_ = c.setPin(c.config.OEPin, 1)
	closeLines(c.lines, c.logger)
	c.lines = make(map[int]line)
	return nil
}

// scan writes the frame out row by row until Close
func (c *Controller) scan() {
	defer close(c.done)

	buf := make([][]byte, c.config.Rows())
	for i := range buf {
		buf[i] = make([]byte, c.config.Width*BytesPerColumn)
	}

	for {
		select {
		case <-c.stop:
			return
		default:
		}

		c.mu.Lock()
		for i := range buf {
			copy(buf[i], c.frame[i])
		}
		onTime := rowPeriod * time.Duration(c.brightness) / 255
		c.mu.Unlock()

		if err := c.scanFrame(buf, onTime); err != nil {
			logging.LogError(c.logger, "scan failed", err)
			c.sleep(10 * time.Millisecond)
		}
	}
}

func (c *Controller) scanFrame(frame [][]byte, onTime time.Duration) error {
	for rowIdx, rowData := range frame {
		if err := c.updateRow(rowIdx, rowData); err != nil {
			return err
		}
		if onTime > 0 {
			if err := c.setPin(c.config.OEPin, 0); err != nil {
				return err
			}
			c.sleep(onTime)
		}
		if err := c.setPin(c.config.OEPin, 1); err != nil {
			return err
		}
	}
	return nil
}

// updateRow shifts one row pair into the panel and latches it with output
// disabled
func (c *Controller) updateRow(rowIdx int, rowData []byte) error {
	if err := c.setPin(c.config.OEPin, 1); err != nil {
		return err
	}

	addr := rowIdx & 0x1F
	for bit, pin := range []int{c.config.APin, c.config.BPin, c.config.CPin, c.config.DPin, c.config.EPin} {
		if err := c.setPin(pin, (addr>>bit)&1); err != nil {
			return err
		}
	}

	data := []int{c.config.R1Pin, c.config.G1Pin, c.config.B1Pin, c.config.R2Pin, c.config.G2Pin, c.config.B2Pin}
	for col := 0; col < c.config.Width; col++ {
		idx := col * BytesPerColumn
		if idx+BytesPerColumn > len(rowData) {
			break
		}
		for i, pin := range data {
			if err := c.setPin(pin, int(rowData[idx+i]&1)); err != nil {
				return err
			}
		}
		if err := c.pulse(c.config.CLKPin); err != nil {
			return err
		}
	}

	return c.pulse(c.config.LATPin)
}

func (c *Controller) pulse(pin int) error {
	if err := c.setPin(pin, 1); err != nil {
		return err
	}
	c.sleep(time.Microsecond)
	return c.setPin(pin, 0)
}

// setPin sets the value of a GPIO pin. Unconnected pins are ignored.
func (c *Controller) setPin(pin int, value int) error {
	l, ok := c.lines[pin]
	if !ok {
		return nil
	}
	return l.SetValue(value)
}

func closeLines(lines map[int]line, logger *slog.Logger) {
	for pin, l := range lines {
		if err := l.Close(); err != nil {
			logging.LogError(logger, "failed to close GPIO line", err, slog.Int("pin", pin))
		}
	}
}
