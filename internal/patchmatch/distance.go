package patchmatch

import (
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/iconfit/internal/feature"
)

// Distance compares two patches of equal dimension. It must be non-negative.
type Distance func(a, b feature.Patch) float64

// SquaredL2 is the sum of squared sample differences.
func SquaredL2(a, b feature.Patch) float64 {
	var sum float64
	for k := 0; k < a.Dimension(); k++ {
		d := float64(a.At(k)) - float64(b.At(k))
		sum += d * d
	}
	return sum
}

// AbsoluteL1 is the sum of absolute sample differences.
func AbsoluteL1(a, b feature.Patch) float64 {
	var sum float64
	for k := 0; k < a.Dimension(); k++ {
		sum += math.Abs(float64(a.At(k)) - float64(b.At(k)))
	}
	return sum
}

// Metric names a built-in Distance.
type Metric int

const (
	MetricSSD Metric = iota
	MetricSAD
)

// String returns the metric name.
func (m Metric) String() string {
	switch m {
	case MetricSSD:
		return "ssd"
	case MetricSAD:
		return "sad"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseMetric accepts "ssd"/"l2" and "sad"/"l1", case-insensitively. The
// empty string selects MetricSSD.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ssd", "l2":
		return MetricSSD, nil
	case "sad", "l1":
		return MetricSAD, nil
	default:
		return 0, fmt.Errorf("%w: unknown metric %q", ErrInvalidOptions, name)
	}
}

// Provider returns the Distance for m.
func Provider(m Metric) (Distance, error) {
	switch m {
	case MetricSSD:
		return SquaredL2, nil
	case MetricSAD:
		return AbsoluteL1, nil
	default:
		return nil, fmt.Errorf("%w: unsupported metric %v", ErrInvalidOptions, m)
	}
}
