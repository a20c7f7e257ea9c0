package matrix_test

import (
	"fmt"
	"image/color"

	"github.com/fkcurrie/transit-led-golang/pkg/matrix"
)

func Example() {
	// Headless 4x2 matrix; pass a hub75.Controller to drive a real panel
	m, err := matrix.NewMatrix(&matrix.Config{Width: 4, Height: 2, Brightness: 128}, nil)
	if err != nil {
		fmt.Printf("Failed to create matrix: %v\n", err)
		return
	}
	defer m.Close()

	colors := []color.Color{
		color.RGBA{255, 0, 0, 255},   // Red
		color.RGBA{0, 255, 0, 255},   // Green
		color.RGBA{0, 0, 255, 255},   // Blue
		color.RGBA{255, 255, 0, 255}, // Yellow
	}
	for i, c := range colors {
		if err := m.SetPixel(i, 0, c); err != nil {
			fmt.Printf("Failed to set pixel: %v\n", err)
			return
		}
	}

	if err := m.Show(); err != nil {
		fmt.Printf("Failed to show matrix: %v\n", err)
		return
	}

	fmt.Println(m.Frame()[0])
	// Output: [1 0 0 0 0 0 0 1 0 0 0 0 0 0 1 0 0 0 1 1 0 0 0 0]
}
