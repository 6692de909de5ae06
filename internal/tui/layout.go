package tui

// Minimum terminal size for the dashboard.
const (
	MinWidth  = 60
	MinHeight = 16
)

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed panel geometry for a given terminal size.
type Layout struct {
	Header, Footer Rect
	Status         Rect
	Controls       Rect
	Toasts         Rect
	Activity       Rect
	TooSmall       bool // true when terminal is below MinWidth×MinHeight
}

// Fixed panel heights, borders included.
const (
	statusHeight   = 5
	controlsHeight = 5
)

// Calculate computes the panel layout for a terminal of the given dimensions.
//
//   - Header: full width, 1 row at top
//   - Footer: full width, 1 row at bottom
//   - Left column: 45% of width, clamped to [40, 56]; status, controls and
//     toasts stacked top to bottom, toasts taking the remaining rows
//   - Activity: the rest of the width, full body height
func Calculate(width, height int) Layout {
	if width < MinWidth || height < MinHeight {
		return Layout{TooSmall: true}
	}

	bodyH := height - 2

	leftW := width * 45 / 100
	if leftW < 40 {
		leftW = 40
	}
	if leftW > 56 {
		leftW = 56
	}
	if leftW > width-20 {
		leftW = width - 20
	}
	rightW := width - leftW

	toastsH := bodyH - statusHeight - controlsHeight
	if toastsH < 3 {
		toastsH = 3
	}

	return Layout{
		Header:   Rect{X: 0, Y: 0, Width: width, Height: 1},
		Footer:   Rect{X: 0, Y: height - 1, Width: width, Height: 1},
		Status:   Rect{X: 0, Y: 1, Width: leftW, Height: statusHeight},
		Controls: Rect{X: 0, Y: 1 + statusHeight, Width: leftW, Height: controlsHeight},
		Toasts:   Rect{X: 0, Y: 1 + statusHeight + controlsHeight, Width: leftW, Height: toastsH},
		Activity: Rect{X: leftW, Y: 1, Width: rightW, Height: bodyH},
	}
}

// innerDims returns the content dimensions for a panel rect accounting for
// the 1-character border on each side (2 total per dimension).
func innerDims(r Rect) (w, h int) {
	w = r.Width - 2
	if w < 1 {
		w = 1
	}
	h = r.Height - 2
	if h < 1 {
		h = 1
	}
	return
}
