package feature

import (
	"fmt"
	"math"

	"github.com/viterin/vek/vek32"
)

// NormEpsilon is added to the squared norm before the square root in
// Normalize so that all-zero vectors stay finite.
const NormEpsilon = 1e-4

// Image is a dense grid of fixed-length feature vectors, one per pixel.
type Image struct {
	Height int
	Width  int
	Depth  int

	data []float32
}

// NewImage allocates a zeroed feature image.
func NewImage(height, width, depth int) (*Image, error) {
	if height <= 0 || width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: image dimensions %dx%dx%d must be positive",
			ErrInvalidOptions, height, width, depth)
	}
	return &Image{
		Height: height,
		Width:  width,
		Depth:  depth,
		data:   make([]float32, height*width*depth),
	}, nil
}

// Size returns the number of pixels.
func (m *Image) Size() int {
	return m.Height * m.Width
}

// Feature returns the vector of pixel (y, x). The slice aliases the image
// storage; writes to it modify the image.
func (m *Image) Feature(y, x int) []float32 {
	return m.FeatureAt(y*m.Width + x)
}

// FeatureAt returns the vector of the pixel with flat index id.
func (m *Image) FeatureAt(id int) []float32 {
	start := id * m.Depth
	return m.data[start : start+m.Depth : start+m.Depth]
}

// Data returns the backing storage.
func (m *Image) Data() []float32 {
	return m.data
}

// Normalize scales every pixel vector to unit L2 norm in place.
func (m *Image) Normalize() {
	for id := 0; id < m.Size(); id++ {
		NormalizeVector(m.FeatureAt(id))
	}
}

// NormalizeVector scales v by 1/sqrt(|v|² + NormEpsilon).
func NormalizeVector(v []float32) {
	sum := float64(vek32.Dot(v, v)) + NormEpsilon
	vek32.MulNumber_Inplace(v, float32(1/math.Sqrt(sum)))
}
