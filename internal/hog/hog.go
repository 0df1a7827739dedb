// Package hog extracts dense gradient-orientation histograms.
//
// Every output pixel carries a histogram of the gradient orientations found
// in the CellSize×CellSize window below and to the right of it. Votes are
// spread over overlapping windows with bilinear weights, and every histogram
// is L2-normalised afterwards.
package hog

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/iconfit/internal/feature"
	"github.com/ironsheep/iconfit/internal/imaging"
)

// ErrInvalidOptions reports non-positive cell sizes or bin counts.
var ErrInvalidOptions = errors.New("hog: invalid options")

// Options configures the extractor.
type Options struct {
	// CellSize is the side of the pooling window in pixels.
	CellSize int `yaml:"cell_size" json:"cell_size"`

	// Bins is the number of orientation buckets, and the depth of the output.
	Bins int `yaml:"bins" json:"bins"`

	// SignedOrientation distinguishes gradients pointing in opposite
	// directions (bins cover 2π instead of π).
	SignedOrientation bool `yaml:"signed_orientation" json:"signed_orientation"`
}

// DefaultOptions returns 6 pixel cells with 9 unsigned bins.
func DefaultOptions() Options {
	return Options{CellSize: 6, Bins: 9}
}

// Validate reports non-positive sizes.
func (o Options) Validate() error {
	if o.CellSize <= 0 {
		return fmt.Errorf("%w: cell size %d must be positive", ErrInvalidOptions, o.CellSize)
	}
	if o.Bins <= 0 {
		return fmt.Errorf("%w: bin count %d must be positive", ErrInvalidOptions, o.Bins)
	}
	return nil
}

// Extract builds the normalised orientation-histogram image of g.
func Extract(g *imaging.Gradient, opts Options) (*feature.Image, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: nil gradient", ErrInvalidOptions)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	out, err := feature.NewImage(g.Height, g.Width, opts.Bins)
	if err != nil {
		return nil, err
	}

	bucket := newBucketer(opts)
	cell := opts.CellSize
	half := float64(cell) * 0.5
	size := float64(cell)

	// Kernel weights depend only on the offset between voter and receiver.
	kernel := make([]float64, cell)
	for d := 0; d < cell; d++ {
		kernel[d] = 1 - math.Abs(float64(d)-half)/size
	}

	for i := 0; i < g.Height; i++ {
		for j := 0; j < g.Width; j++ {
			gx, gy := g.At(j, i)
			bin, magnitude := bucket.vote(float64(gy), float64(gx))
			if magnitude == 0 {
				continue
			}
			for y := max(i-cell+1, 0); y <= i; y++ {
				wy := kernel[i-y]
				for x := max(j-cell+1, 0); x <= j; x++ {
					out.Feature(y, x)[bin] += float32(wy * kernel[j-x] * magnitude)
				}
			}
		}
	}

	out.Normalize()
	return out, nil
}

// Describe returns a copy of the descriptor at pixel (y, x).
func Describe(img *feature.Image, y, x int) ([]float32, error) {
	if y < 0 || y >= img.Height || x < 0 || x >= img.Width {
		return nil, fmt.Errorf("coordinates (%d,%d) outside feature image %dx%d", x, y, img.Width, img.Height)
	}
	return append([]float32(nil), img.Feature(y, x)...), nil
}
