package display

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"T", "T1", "T2", "T4", "T5", "T6", "T7", "T8", "T9"}, c.Codes())
	assert.True(t, c.Has("T1"))
	assert.False(t, c.Has("T3"))

	glyph, err := c.Glyph("T1")
	require.NoError(t, err)
	assert.Equal(t, IconSize, glyph.Bounds().Dx())
	assert.Equal(t, IconSize, glyph.Bounds().Dy())

	// line colour at the left edge, white stem in the middle
	edge := glyph.RGBAAt(0, 4)
	assert.InDelta(t, 0xF9, int(edge.R), 2)
	assert.InDelta(t, 0x9D, int(edge.G), 2)
	assert.InDelta(t, 0x1C, int(edge.B), 2)
	assert.Equal(t, uint8(0xff), edge.A)

	stem := glyph.RGBAAt(3, 4)
	assert.InDelta(t, 0xff, int(stem.R), 2)
	assert.InDelta(t, 0xff, int(stem.B), 2)

	again, err := c.Glyph("T1")
	require.NoError(t, err)
	assert.Same(t, glyph, again, "glyphs are cached")
}

func TestCatalogUnknownIcon(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)

	_, err = c.Glyph("T3")
	assert.ErrorIs(t, err, ErrUnknownIcon)
}

func TestCatalogFromFS(t *testing.T) {
	files := fstest.MapFS{
		"icons/M.svg":      {Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4" viewBox="0 0 4 4"><rect width="4" height="4" fill="#00FF00"/></svg>`)},
		"icons/readme.txt": {Data: []byte("ignored")},
	}

	c, err := newCatalog(files, "icons", 4, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"M"}, c.Codes())

	glyph, err := c.Glyph("M")
	require.NoError(t, err)
	assert.Equal(t, 4, glyph.Bounds().Dx())
	assert.InDelta(t, 0xff, int(glyph.RGBAAt(2, 2).G), 2)

	_, err = newCatalog(fstest.MapFS{}, "icons", 4, nil)
	assert.Error(t, err)
}
