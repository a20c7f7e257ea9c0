package board

// ScrollState is the vertical position of the stop list. Offset is the row
// the first stop is drawn at.
type ScrollState struct {
	Offset        int
	ContentHeight int
	restart       int
}

// NewScrollState returns a scroll state for lines rows of lineHeight pixels,
// starting at row start. After scrolling off the top the list re-enters at
// restart, or lower if the content is taller than that.
func NewScrollState(lines, lineHeight, start, restart int) ScrollState {
	return ScrollState{
		Offset:        start,
		ContentHeight: lines * lineHeight,
		restart:       restart,
	}
}

// Advance scrolls the list up one row and reports whether it wrapped
func (s *ScrollState) Advance() bool {
	s.Offset--
	if -s.Offset > s.ContentHeight {
		s.Offset = max(s.restart, s.ContentHeight)
		return true
	}
	return false
}
