package viewport

// Direction is the order in which items are arranged on screen. The engine
// works along a single axis in content space; the direction only tells the
// host how to map an item's offset onto the screen.
type Direction string

const (
	TopToBottom Direction = "top_to_bottom"
	BottomToTop Direction = "bottom_to_top"
	LeftToRight Direction = "left_to_right"
	RightToLeft Direction = "right_to_left"
)

// Valid reports whether d is a known direction. The empty direction is
// treated as TopToBottom.
func (d Direction) Valid() bool {
	switch d {
	case "", TopToBottom, BottomToTop, LeftToRight, RightToLeft:
		return true
	}
	return false
}

// Vertical reports whether items are stacked along the vertical axis.
func (d Direction) Vertical() bool {
	return d == "" || d == TopToBottom || d == BottomToTop
}

// Reversed reports whether offsets grow against the screen axis, that is
// upwards or leftwards.
func (d Direction) Reversed() bool {
	return d == BottomToTop || d == RightToLeft
}

// ScreenPosition maps an offset from the viewport's leading edge to a
// coordinate measured from the top (or left) of a viewport of the given size.
func (d Direction) ScreenPosition(offset, size, viewportSize float64) float64 {
	if d.Reversed() {
		return viewportSize - offset - size
	}
	return offset
}
