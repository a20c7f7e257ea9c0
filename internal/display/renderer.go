// Package display rasterises board scenes onto an LED matrix.
package display

import (
	"errors"
	"image"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/fkcurrie/transit-led-golang/internal/logging"
	"github.com/fkcurrie/transit-led-golang/internal/types"
)

// Glyphs looks up line icons by line code
type Glyphs interface {
	Glyph(code string) (*image.RGBA, error)
}

// imageSetter is implemented by matrices that take a whole frame at once
type imageSetter interface {
	SetImage(img image.Image) error
}

// Renderer handles the display rendering logic. Every Present rasterises the
// whole scene and pushes the whole frame; there is no frame rate limiting.
type Renderer struct {
	matrix types.Matrix
	icons  Glyphs
	logger *slog.Logger

	mu    sync.RWMutex
	frame *image.RGBA
}

// NewRenderer creates a renderer for matrix. icons may be nil, in which case
// icons are not drawn.
func NewRenderer(matrix types.Matrix, icons Glyphs, logger *slog.Logger) *Renderer {
	w, h := matrix.GetDimensions()
	return &Renderer{
		matrix: matrix,
		icons:  icons,
		logger: logging.Component(logger, "renderer"),
		frame:  image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

// Present draws scene and shows it on the matrix
func (r *Renderer) Present(scene *types.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.draw(r.frame, scene)

	if m, ok := r.matrix.(imageSetter); ok {
		return m.SetImage(r.frame)
	}

	b := r.frame.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if err := r.matrix.SetPixel(x, y, r.frame.RGBAAt(x, y)); err != nil {
				return err
			}
		}
	}
	return r.matrix.Show()
}

// Frame returns a copy of the last presented frame
func (r *Renderer) Frame() *image.RGBA {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := image.NewRGBA(r.frame.Bounds())
	copy(out.Pix, r.frame.Pix)
	return out
}

// Render rasterises scene into a new image of the given size
func (r *Renderer) Render(scene *types.Scene, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	r.draw(img, scene)
	return img
}

// draw clears dst and paints the scene elements in order
func (r *Renderer) draw(dst *image.RGBA, scene *types.Scene) {
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
	if scene == nil {
		return
	}

	for _, el := range scene.Elements {
		switch e := el.(type) {
		case *types.Label:
			if e.Hidden || e.Text == "" {
				continue
			}
			drawText(dst, e.Text, anchorX(e.Text, e.X, e.Anchor), e.Y, image.NewUniform(e.Color))
		case *types.StopGroup:
			src := image.NewUniform(e.Color)
			for i, line := range e.Lines {
				y := e.Y + i*e.Spacing
				if y+GlyphHeight < 0 || y >= dst.Bounds().Max.Y {
					continue
				}
				drawText(dst, line, e.X, y, src)
			}
		case *types.Band:
			if e.Hidden {
				continue
			}
			rect := image.Rect(e.X, e.Y, e.X+e.Width, e.Y+e.Height)
			draw.Draw(dst, rect, image.NewUniform(e.Color), image.Point{}, draw.Src)
		case *types.Icon:
			r.drawIcon(dst, e)
		}
	}
}

func (r *Renderer) drawIcon(dst *image.RGBA, icon *types.Icon) {
	if r.icons == nil {
		return
	}
	glyph, err := r.icons.Glyph(icon.LineCode)
	if err != nil {
		if !errors.Is(err, ErrUnknownIcon) {
			logging.LogError(r.logger, "failed to load icon", err, slog.String("line", icon.LineCode))
		}
		return
	}
	rect := glyph.Bounds().Add(image.Pt(icon.X, icon.Y))
	draw.Draw(dst, rect, glyph, glyph.Bounds().Min, draw.Over)
}

// anchorX returns the left edge for text drawn against x
func anchorX(text string, x int, anchor types.Anchor) int {
	switch anchor {
	case types.AnchorRight:
		return x - TextWidth(text) + 1
	case types.AnchorCenter:
		return x - TextWidth(text)/2
	default:
		return x
	}
}
