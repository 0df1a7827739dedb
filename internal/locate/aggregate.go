package locate

import (
	"fmt"
	"image"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/iconfit/internal/patchmatch"
)

// Options controls how a displacement field is reduced to a placement.
type Options struct {
	// InlierRadius is the distance, in pixels, within which a vote counts
	// as agreeing with the chosen placement.
	InlierRadius float64 `yaml:"inlier_radius" json:"inlier_radius"`
}

// DefaultOptions returns a two pixel inlier radius.
func DefaultOptions() Options {
	return Options{InlierRadius: 2}
}

// Validate reports a negative inlier radius.
func (o Options) Validate() error {
	if o.InlierRadius < 0 || math.IsNaN(o.InlierRadius) {
		return fmt.Errorf("%w: inlier radius %v must be non-negative", ErrInvalidOptions, o.InlierRadius)
	}
	return nil
}

// Placement is where the icon was found in the scene.
type Placement struct {
	// X and Y are the scene coordinates of the icon's top-left pixel.
	X int `json:"x"`
	Y int `json:"y"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Spread is the weighted standard deviation, in pixels, of the origin
	// votes around their mean.
	Spread float64 `json:"spread"`

	// Support is the weighted share of votes within InlierRadius of (X, Y).
	Support float64 `json:"support"`

	// MeanScore is the mean patch distance over the whole field.
	MeanScore float64 `json:"mean_score"`
}

// Box returns the placement as a rectangle in scene coordinates.
func (p Placement) Box() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// vote is one field cell's opinion on the icon origin along one axis.
type vote struct {
	value  float64
	weight float64
}

// Aggregate reduces f to a placement. Every cell proposes its displacement
// as the icon origin with weight 1/(1+score); the weighted median is taken
// per axis.
func Aggregate(f *patchmatch.Field, opts Options) Placement {
	n := f.Height * f.Width
	p := Placement{Width: f.Width, Height: f.Height}
	if n == 0 {
		return p
	}

	dys := make([]float64, n)
	dxs := make([]float64, n)
	weights := make([]float64, n)
	for i, d := range f.Displacements() {
		dys[i] = float64(d.DY)
		dxs[i] = float64(d.DX)
	}
	for i, s := range f.Scores() {
		weights[i] = 1 / (1 + s)
	}

	p.Y = int(weightedMedian(dys, weights))
	p.X = int(weightedMedian(dxs, weights))

	varY := stat.Moment(2, dys, weights)
	varX := stat.Moment(2, dxs, weights)
	p.Spread = math.Sqrt(varY + varX)

	inliers := make([]float64, 0, n)
	for i := range weights {
		if math.Hypot(dys[i]-float64(p.Y), dxs[i]-float64(p.X)) <= opts.InlierRadius {
			inliers = append(inliers, weights[i])
		}
	}
	p.Support = floats.Sum(inliers) / floats.Sum(weights)
	p.MeanScore = f.MeanScore()
	return p
}

// weightedMedian returns the smallest value whose cumulative weight reaches
// half of the total.
func weightedMedian(values, weights []float64) float64 {
	votes := make([]vote, len(values))
	for i := range values {
		votes[i] = vote{value: values[i], weight: weights[i]}
	}
	slices.SortFunc(votes, func(a, b vote) int {
		switch {
		case a.value < b.value:
			return -1
		case a.value > b.value:
			return 1
		}
		return 0
	})

	x := make([]float64, len(votes))
	w := make([]float64, len(votes))
	for i, v := range votes {
		x[i] = v.value
		w[i] = v.weight
	}
	return stat.Quantile(0.5, stat.Empirical, x, w)
}
