package patchmatch

import "slices"

// Displacement points from a target pixel to its matched source pixel.
type Displacement struct {
	DY int `json:"dy"`
	DX int `json:"dx"`
}

// Field is a dense displacement field with one score per target pixel.
// Solve does not modify a field after returning it.
type Field struct {
	Height int
	Width  int

	disp   []Displacement
	scores []float64
}

// NewField returns a height×width field of zero displacements and scores.
func NewField(height, width int) *Field {
	return &Field{
		Height: height,
		Width:  width,
		disp:   make([]Displacement, height*width),
		scores: make([]float64, height*width),
	}
}

// InBounds reports whether (y, x) is a cell of the field.
func (f *Field) InBounds(y, x int) bool {
	return 0 <= y && y < f.Height && 0 <= x && x < f.Width
}

// At returns the displacement of target pixel (y, x).
func (f *Field) At(y, x int) Displacement {
	return f.disp[y*f.Width+x]
}

// Score returns the distance of the current match of (y, x).
func (f *Field) Score(y, x int) float64 {
	return f.scores[y*f.Width+x]
}

// Set stores a displacement and score for (y, x).
func (f *Field) Set(y, x int, d Displacement, score float64) {
	f.disp[y*f.Width+x] = d
	f.scores[y*f.Width+x] = score
}

// Source returns the matched source pixel of target pixel (y, x).
func (f *Field) Source(y, x int) (int, int) {
	d := f.At(y, x)
	return y + d.DY, x + d.DX
}

// Displacements returns a row-major copy of all displacements.
func (f *Field) Displacements() []Displacement {
	return slices.Clone(f.disp)
}

// Scores returns a row-major copy of all scores.
func (f *Field) Scores() []float64 {
	return slices.Clone(f.scores)
}

// MeanScore returns the average match distance.
func (f *Field) MeanScore() float64 {
	if len(f.scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range f.scores {
		sum += s
	}
	return sum / float64(len(f.scores))
}
