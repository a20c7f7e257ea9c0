package board

// Mode is the display mode of the board. Exactly one is active at a time.
type Mode int

const (
	// ModeSplash is shown at boot before any fetch has completed
	ModeSplash Mode = iota
	// ModeVersionSplash shows the build version once after the splash
	ModeVersionSplash
	// ModeBoard is the steady-state departure board
	ModeBoard
	// ModeNoData is shown when no departure has ever been found
	ModeNoData
)

func (m Mode) String() string {
	switch m {
	case ModeSplash:
		return "splash"
	case ModeVersionSplash:
		return "version"
	case ModeBoard:
		return "board"
	case ModeNoData:
		return "no_data"
	default:
		return "unknown"
	}
}
