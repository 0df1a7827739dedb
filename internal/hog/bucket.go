package hog

import "math"

// bucketer maps a gradient vector to an orientation bin and a magnitude.
type bucketer struct {
	width    float64
	bins     int
	isSigned bool
}

func newBucketer(opts Options) bucketer {
	span := math.Pi
	if opts.SignedOrientation {
		span = 2 * math.Pi
	}
	return bucketer{
		width:    span / float64(opts.Bins),
		bins:     opts.Bins,
		isSigned: opts.SignedOrientation,
	}
}

// position returns the orientation of (y, x) on the bucketed circle:
// [0, 2π] when signed, [0, π] otherwise.
func (b bucketer) position(y, x float64) float64 {
	angle := math.Atan2(y, x)
	if b.isSigned {
		return math.Abs(angle + math.Pi)
	}
	if angle < 0 {
		return math.Abs(angle + math.Pi)
	}
	return angle
}

// vote returns the bin and magnitude of the gradient (y, x). Positions at the
// top of the range describe the same orientation as 0 and wrap to bin 0.
func (b bucketer) vote(y, x float64) (int, float64) {
	bin := int(b.position(y, x)/b.width) % b.bins
	return bin, math.Hypot(y, x)
}
