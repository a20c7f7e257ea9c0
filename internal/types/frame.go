package types

import "image/color"

// Anchor selects which point of a label its X coordinate refers to
type Anchor int

const (
	AnchorLeft Anchor = iota
	AnchorCenter
	AnchorRight
)

// Element is one positioned item of a Scene. Elements are drawn in scene order.
type Element interface {
	element()
}

// Label is a single line of text. Y is the top row of the glyph cell.
type Label struct {
	Text   string
	X      int
	Y      int
	Anchor Anchor
	Color  color.RGBA
	Hidden bool
}

// Icon is a line glyph looked up by line code in the icon catalog
type Icon struct {
	LineCode string
	X        int
	Y        int
}

// StopGroup is the vertically scrolling list of stop names
type StopGroup struct {
	Lines   []string
	X       int
	Y       int
	Spacing int
	Color   color.RGBA
}

// Band is a solid rectangle used to mask scrolled content outside the
// departure board window
type Band struct {
	X      int
	Y      int
	Width  int
	Height int
	Color  color.RGBA
	Hidden bool
}

func (*Label) element()     {}
func (*Icon) element()      {}
func (*StopGroup) element() {}
func (*Band) element()      {}

// Scene is the retained description of what the panel shows. The board
// mutates elements in place for partial updates and builds a new Scene only
// on a full redraw.
type Scene struct {
	Elements []Element
}

// Add appends elements in draw order
func (s *Scene) Add(elements ...Element) {
	s.Elements = append(s.Elements, elements...)
}
