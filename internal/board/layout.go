package board

import (
	"image/color"

	"github.com/fkcurrie/transit-led-golang/internal/types"
)

// GenericIcon is the catalog key of the fallback line glyph
const GenericIcon = "T"

var (
	White    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	StopGrey = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 255}
	Black    = color.RGBA{A: 255}
)

// Point is a pixel position. For labels Y is the top row of the glyph cell.
type Point struct {
	X int
	Y int
}

// Layout positions every element of every mode. All coordinates assume
// the 5x7 face with a 9 row line pitch.
type Layout struct {
	Width  int
	Height int

	SplashIcon Point
	Version    Point

	Icon        Point
	Destination Point
	Clock       Point
	Countdown   Point

	StopsX       int
	StopsStart   int
	StopsRestart int
	LineHeight   int

	TopBandHeight    int
	BottomBandTop    int
	BottomBandHeight int

	NoDataIcon  Point
	NoDataLabel Point
}

// DefaultLayout returns the layout for a width x height panel. Positions are
// tuned for 64x32 and scale with the panel edges elsewhere.
func DefaultLayout(width, height int) Layout {
	return Layout{
		Width:  width,
		Height: height,

		SplashIcon: Point{X: width/2 - 4, Y: height/2 - 4},
		Version:    Point{X: width / 2, Y: height/2 - 4},

		Icon:        Point{X: 1, Y: 1},
		Destination: Point{X: 9, Y: 1},
		Clock:       Point{X: 0, Y: height - 7},
		Countdown:   Point{X: width - 1, Y: height - 7},

		StopsX:       0,
		StopsStart:   11,
		StopsRestart: height * 2,
		LineHeight:   9,

		TopBandHeight:    10,
		BottomBandTop:    height - 8,
		BottomBandHeight: 8,

		NoDataIcon:  Point{X: width - 8, Y: height - 8},
		NoDataLabel: Point{X: 0, Y: height - 7},
	}
}

// splashScene is the boot screen: the generic line glyph alone
func (l Layout) splashScene() *types.Scene {
	scene := &types.Scene{}
	scene.Add(&types.Icon{LineCode: GenericIcon, X: l.SplashIcon.X, Y: l.SplashIcon.Y})
	return scene
}

// versionScene centres the build version on the panel
func (l Layout) versionScene(version string) *types.Scene {
	scene := &types.Scene{}
	scene.Add(&types.Label{
		Text:   version,
		X:      l.Version.X,
		Y:      l.Version.Y,
		Anchor: types.AnchorCenter,
		Color:  White,
	})
	return scene
}

// noDataScene is the static screen used when no departure was ever found
func (l Layout) noDataScene() *types.Scene {
	scene := &types.Scene{}
	scene.Add(
		&types.Icon{LineCode: GenericIcon, X: l.NoDataIcon.X, Y: l.NoDataIcon.Y},
		&types.Label{Text: "No Data", X: l.NoDataLabel.X, Y: l.NoDataLabel.Y, Color: White},
	)
	return scene
}
