package types

import "image/color"

// Matrix is the pixel sink a rendered frame is pushed to
type Matrix interface {
	// Clear blanks the buffer and the panel
	Clear() error
	// SetPixel sets a buffered pixel at the given coordinates
	SetPixel(x, y int, c color.Color) error
	// Show pushes the buffer to the panel
	Show() error
	// GetDimensions returns the panel size in pixels
	GetDimensions() (width, height int)
	// Close releases the panel
	Close() error
}
