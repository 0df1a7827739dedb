package patchmatch

// Direction is the raster order of one refinement round.
type Direction int

const (
	// Forward visits rows top to bottom and columns left to right.
	Forward Direction = iota
	// Backward visits rows bottom to top and columns right to left.
	Backward
)

// directionOf returns the scan direction of round r.
func directionOf(round int) Direction {
	if round%2 == 0 {
		return Forward
	}
	return Backward
}

// String returns the direction name.
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Scan holds the loop bounds of one traversal. End is exclusive.
type Scan struct {
	YBegin, YEnd, YDelta int
	XBegin, XEnd, XDelta int
}

// Scan returns the traversal bounds of a height×width grid.
func (d Direction) Scan(height, width int) Scan {
	if d == Backward {
		return Scan{
			YBegin: height - 1, YEnd: -1, YDelta: -1,
			XBegin: width - 1, XEnd: -1, XDelta: -1,
		}
	}
	return Scan{
		YBegin: 0, YEnd: height, YDelta: 1,
		XBegin: 0, XEnd: width, XDelta: 1,
	}
}
