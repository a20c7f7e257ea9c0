// Package matrix is a framebuffer LED matrix. Pixels are buffered as RGBA and
// converted to HUB75 row data on Show.
package matrix

import (
	"fmt"
	"image"
	"image/color"
	"sync"
)

// onThreshold is the channel level at which a 1-bit LED is lit
const onThreshold = 0x80

// Driver receives frames in HUB75 row layout: Height/2 rows of Width*6
// bytes, R1 G1 B1 R2 G2 B2 per column
type Driver interface {
	RenderFrame(frame [][]byte) error
	SetBrightness(brightness int) error
	Close() error
}

// Config holds the configuration for the LED matrix
type Config struct {
	Width      int
	Height     int
	Brightness int
}

// Matrix represents an RGB LED matrix display. With no driver attached it
// runs headless and only keeps the buffer.
type Matrix struct {
	width      int
	height     int
	brightness int
	buffer     []color.RGBA
	frame      [][]byte
	driver     Driver
	mu         sync.RWMutex
}

// NewMatrix creates a new LED matrix display. driver may be nil.
func NewMatrix(cfg *Config, driver Driver) (*Matrix, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Height%2 != 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", cfg.Width, cfg.Height)
	}

	if cfg.Brightness < 0 || cfg.Brightness > 255 {
		return nil, fmt.Errorf("brightness must be between 0 and 255")
	}

	if driver != nil {
		if err := driver.SetBrightness(cfg.Brightness); err != nil {
			return nil, fmt.Errorf("failed to set brightness: %w", err)
		}
	}

	frame := make([][]byte, cfg.Height/2)
	for i := range frame {
		frame[i] = make([]byte, cfg.Width*6)
	}

	return &Matrix{
		width:      cfg.Width,
		height:     cfg.Height,
		brightness: cfg.Brightness,
		buffer:     make([]color.RGBA, cfg.Width*cfg.Height),
		frame:      frame,
		driver:     driver,
	}, nil
}

// Close closes the LED matrix
func (m *Matrix) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver != nil {
		return m.driver.Close()
	}
	return nil
}

// Clear blanks the buffer and the panel
func (m *Matrix) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.buffer)
	return m.show()
}

// SetPixel sets a pixel at the given coordinates to the given color
func (m *Matrix) SetPixel(x, y int, c color.Color) error {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.buffer[y*m.width+x] = color.RGBAModel.Convert(c).(color.RGBA)
	return nil
}

// Show updates the display with the current buffer
func (m *Matrix) Show() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.show()
}

// show converts the buffer to row data; the caller holds the lock
func (m *Matrix) show() error {
	half := m.height / 2
	for row := 0; row < half; row++ {
		data := m.frame[row]
		for x := 0; x < m.width; x++ {
			upper := m.buffer[row*m.width+x]
			lower := m.buffer[(row+half)*m.width+x]
			idx := x * 6
			data[idx+0] = bit(upper.R)
			data[idx+1] = bit(upper.G)
			data[idx+2] = bit(upper.B)
			data[idx+3] = bit(lower.R)
			data[idx+4] = bit(lower.G)
			data[idx+5] = bit(lower.B)
		}
	}

	if m.driver == nil {
		return nil
	}
	return m.driver.RenderFrame(m.frame)
}

func bit(v uint8) byte {
	if v >= onThreshold {
		return 1
	}
	return 0
}

// SetBrightness sets the brightness of the LED matrix
func (m *Matrix) SetBrightness(brightness int) error {
	if brightness < 0 || brightness > 255 {
		return fmt.Errorf("brightness must be between 0 and 255")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver != nil {
		if err := m.driver.SetBrightness(brightness); err != nil {
			return fmt.Errorf("failed to set brightness: %w", err)
		}
	}

	m.brightness = brightness
	return nil
}

// GetBrightness returns the current brightness of the LED matrix
func (m *Matrix) GetBrightness() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.brightness
}

// GetDimensions returns the dimensions of the LED matrix
func (m *Matrix) GetDimensions() (width, height int) {
	return m.width, m.height
}

// Fill fills the entire matrix with a color and shows it
func (m *Matrix) Fill(c color.Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	for i := range m.buffer {
		m.buffer[i] = rgba
	}
	return m.show()
}

// SetImage copies img into the buffer and shows it
func (m *Matrix) SetImage(img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() != m.width || bounds.Dy() != m.height {
		return fmt.Errorf("image dimensions (%dx%d) do not match matrix dimensions (%dx%d)",
			bounds.Dx(), bounds.Dy(), m.width, m.height)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			m.buffer[y*m.width+x] = color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
		}
	}
	return m.show()
}

// Frame returns a copy of the last row data produced by Show
func (m *Matrix) Frame() [][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([][]byte, len(m.frame))
	for i, row := range m.frame {
		out[i] = append([]byte(nil), row...)
	}
	return out
}
