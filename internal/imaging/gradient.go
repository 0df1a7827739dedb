package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// GradientOptions controls how an image is turned into gradient planes.
type GradientOptions struct {
	// BlurSigma applies a Gaussian blur before differentiation when > 0.
	BlurSigma float64 `yaml:"blur_sigma" json:"blur_sigma"`

	// Normalize stretches the grayscale intensities to the full 0-255 range
	// before differentiation.
	Normalize bool `yaml:"normalize" json:"normalize"`
}

// DefaultGradientOptions returns contrast normalisation without blur.
func DefaultGradientOptions() GradientOptions {
	return GradientOptions{Normalize: true}
}

// Gradient holds the horizontal and vertical first derivatives of a
// grayscale image. Both planes are row-major with Width*Height entries.
type Gradient struct {
	Width  int
	Height int
	X      []float32
	Y      []float32
}

// NewGradient allocates zeroed gradient planes.
func NewGradient(width, height int) *Gradient {
	return &Gradient{
		Width:  width,
		Height: height,
		X:      make([]float32, width*height),
		Y:      make([]float32, width*height),
	}
}

// At returns the (gx, gy) pair at pixel (x, y).
func (g *Gradient) At(x, y int) (float32, float32) {
	i := y*g.Width + x
	return g.X[i], g.Y[i]
}

// Validate reports planes that do not match the declared dimensions.
func (g *Gradient) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("gradient dimensions %dx%d must be positive", g.Width, g.Height)
	}
	n := g.Width * g.Height
	if len(g.X) != n || len(g.Y) != n {
		return fmt.Errorf("gradient planes have %d and %d entries, want %d", len(g.X), len(g.Y), n)
	}
	return nil
}

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// ComputeGradient converts img to grayscale and differentiates it with 3x3
// Sobel operators.
//
// # Algorithm
//
//  1. Optional Gaussian blur (opts.BlurSigma > 0)
//  2. Grayscale conversion (bild effect.Grayscale, read from its R channel;
//     *image.Gray input is used as is)
//  3. Optional min-max stretch of intensities to 0-255
//  4. Sobel X and Y, with replicated border pixels
//
// Rows are processed in parallel. The returned planes have the same size as
// img; gradient values are in intensity units (up to ±1020 per axis).
func ComputeGradient(img image.Image, opts GradientOptions) (*Gradient, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("cannot compute gradient of empty image")
	}

	if opts.BlurSigma > 0 {
		img = imaging.Blur(img, opts.BlurSigma)
	}

	intensity := make([]float64, width*height)
	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			row := gray.Pix[y*gray.Stride : y*gray.Stride+width]
			for x, v := range row {
				intensity[y*width+x] = float64(v)
			}
		}
	} else {
		// effect.Grayscale writes the luminance into R, G and B alike.
		rgba := effect.Grayscale(img)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				intensity[y*width+x] = float64(rgba.Pix[y*rgba.Stride+4*x])
			}
		}
	}
	if opts.Normalize {
		stretchRange(intensity)
	}

	g := NewGradient(width, height)
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				var gx, gy float64
				for ky := -1; ky <= 1; ky++ {
					py := clamp(y+ky, 0, height-1)
					for kx := -1; kx <= 1; kx++ {
						px := clamp(x+kx, 0, width-1)
						v := intensity[py*width+px]
						gx += v * sobelX[ky+1][kx+1]
						gy += v * sobelY[ky+1][kx+1]
					}
				}
				g.X[y*width+x] = float32(gx)
				g.Y[y*width+x] = float32(gy)
			}
		}
	})

	return g, nil
}

// stretchRange linearly maps values onto [0, 255]. A constant plane is left
// unchanged.
func stretchRange(values []float64) {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return
	}
	scale := 255 / (hi - lo)
	for i, v := range values {
		values[i] = (v - lo) * scale
	}
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
