package display

import (
	"embed"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/bluele/gcache"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/fkcurrie/transit-led-golang/internal/logging"
)

// IconSize is the edge length of a line glyph in pixels
const IconSize = 7

const iconDir = "assets/icons"

// ErrUnknownIcon is returned for a line code with no icon in the catalog
var ErrUnknownIcon = errors.New("unknown icon")

//go:embed assets/icons/*.svg
var iconFiles embed.FS

// Catalog maps line codes to glyphs rasterised from SVG icons. Glyphs are
// rasterised on first use and kept in an LRU cache.
type Catalog struct {
	size   int
	files  fs.FS
	codes  map[string]string
	glyphs gcache.Cache
	logger *slog.Logger
}

// NewCatalog loads the embedded line icons
func NewCatalog(logger *slog.Logger) (*Catalog, error) {
	return newCatalog(iconFiles, iconDir, IconSize, logger)
}

func newCatalog(files fs.FS, dir string, size int, logger *slog.Logger) (*Catalog, error) {
	names, err := fs.Glob(files, dir+"/*.svg")
	if err != nil {
		return nil, fmt.Errorf("failed to list icons: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no icons found in %s", dir)
	}

	c := &Catalog{
		size:   size,
		files:  files,
		codes:  make(map[string]string, len(names)),
		logger: logging.Component(logger, "icons"),
	}
	for _, name := range names {
		code := strings.TrimSuffix(path.Base(name), ".svg")
		c.codes[code] = name
	}

	c.glyphs = gcache.New(len(c.codes)).
		LRU().
		LoaderFunc(func(key interface{}) (interface{}, error) {
			return c.rasterize(key.(string))
		}).
		Build()

	c.logger.Debug("icon catalog loaded", slog.Int("icons", len(c.codes)))
	return c, nil
}

// Has reports whether code has a dedicated icon
func (c *Catalog) Has(code string) bool {
	_, ok := c.codes[code]
	return ok
}

// Codes returns the line codes in the catalog in sorted order
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.codes))
	for code := range c.codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Glyph returns the rasterised icon for code. The returned image is shared
// and must not be modified.
func (c *Catalog) Glyph(code string) (*image.RGBA, error) {
	if !c.Has(code) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIcon, code)
	}
	v, err := c.glyphs.Get(code)
	if err != nil {
		return nil, err
	}
	return v.(*image.RGBA), nil
}

func (c *Catalog) rasterize(code string) (*image.RGBA, error) {
	f, err := c.files.Open(c.codes[code])
	if err != nil {
		return nil, fmt.Errorf("failed to open icon %s: %w", code, err)
	}
	defer logging.SafeCloseWithLogging(f, c.logger, "icon_read")

	icon, err := oksvg.ReadIconStream(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse icon %s: %w", code, err)
	}

	w, h := c.size, c.size
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	c.logger.Debug("icon rasterised", slog.String("line", code))
	return img, nil
}
