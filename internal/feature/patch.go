package feature

import (
	"fmt"
	"slices"
)

// Options configures a BlockImage.
type Options struct {
	// BlockSize is the patch side length in sampled pixels.
	BlockSize int `yaml:"block_size" json:"block_size"`

	// Stride is the pixel step between two sampled positions of a block.
	Stride int `yaml:"stride" json:"stride"`
}

// Validate reports non-positive block sizes or strides.
func (o Options) Validate() error {
	if o.BlockSize <= 0 {
		return fmt.Errorf("%w: block size %d must be positive", ErrInvalidOptions, o.BlockSize)
	}
	if o.Stride <= 0 {
		return fmt.Errorf("%w: stride %d must be positive", ErrInvalidOptions, o.Stride)
	}
	return nil
}

// BlockImage exposes every pixel of an Image as a Patch of
// BlockSize×BlockSize sampled feature vectors.
//
// The offset table is computed once by NewBlockImage and shared by all
// patches. Entry k of the table is the distance, in float32 elements, from a
// pixel's own vector start to the k-th sampled value of its block. Entries
// are enumerated block row first, then block column, then channel.
type BlockImage struct {
	BlockSize int
	Stride    int

	image     *Image
	data      []float32
	offsets   []int
	dimension int

	// reach is how far, in pixels, a block extends below and right of its
	// anchor pixel.
	reach int
}

// NewBlockImage builds the patch indirection layer for img.
func NewBlockImage(img *Image, opts Options) (*BlockImage, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidOptions)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := &BlockImage{
		BlockSize: opts.BlockSize,
		Stride:    opts.Stride,
		image:     img,
		data:      img.data,
		dimension: opts.BlockSize * opts.BlockSize * img.Depth,
		reach:     (opts.BlockSize - 1) * opts.Stride,
	}

	b.offsets = make([]int, 0, b.dimension)
	for r := 0; r < b.BlockSize; r++ {
		for c := 0; c < b.BlockSize; c++ {
			base := (r*b.Stride*img.Width + c*b.Stride) * img.Depth
			for k := 0; k < img.Depth; k++ {
				b.offsets = append(b.offsets, base+k)
			}
		}
	}
	return b, nil
}

// CheckCompatible returns ErrDimensionMismatch unless patches of a and b can
// be compared sample by sample.
func CheckCompatible(a, b *BlockImage) error {
	if a.dimension != b.dimension {
		return fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, a.dimension, b.dimension)
	}
	return nil
}

// Height returns the number of pixel rows of the underlying image.
func (b *BlockImage) Height() int { return b.image.Height }

// Width returns the number of pixel columns of the underlying image.
func (b *BlockImage) Width() int { return b.image.Width }

// Depth returns the number of channels per pixel.
func (b *BlockImage) Depth() int { return b.image.Depth }

// Dimension returns BlockSize*BlockSize*Depth, the length of every patch.
func (b *BlockImage) Dimension() int { return b.dimension }

// Image returns the feature image the patches read from.
func (b *BlockImage) Image() *Image { return b.image }

// Offsets returns a copy of the offset table.
func (b *BlockImage) Offsets() []int {
	return slices.Clone(b.offsets)
}

// InBounds reports whether (y, x) is a pixel of the underlying image.
func (b *BlockImage) InBounds(y, x int) bool {
	return 0 <= y && y < b.image.Height && 0 <= x && x < b.image.Width
}

// PatchAt returns the patch anchored at pixel (y, x).
func (b *BlockImage) PatchAt(y, x int) Patch {
	return Patch{
		layer: b,
		base:  (y*b.image.Width + x) * b.image.Depth,
		y:     y,
		x:     x,
		edge:  y+b.reach >= b.image.Height || x+b.reach >= b.image.Width,
	}
}

// PatchAtIndex returns the patch anchored at the pixel with flat index id.
func (b *BlockImage) PatchAtIndex(id int) Patch {
	return b.PatchAt(id/b.image.Width, id%b.image.Width)
}

// Patch is a non-owning view of one block of a BlockImage. It is only valid
// while its BlockImage and Image are alive and unchanged.
type Patch struct {
	layer *BlockImage
	base  int
	y, x  int
	edge  bool
}

// Dimension returns the number of sampled values in the patch.
func (p Patch) Dimension() int {
	return p.layer.dimension
}

// At returns the k-th sampled value, 0 <= k < Dimension().
func (p Patch) At(k int) float32 {
	if !p.edge {
		return p.layer.data[p.base+p.layer.offsets[k]]
	}
	return p.clipped(k)
}

// clipped reads sample k of a block that crosses the image edge; samples
// outside the image are zero.
func (p Patch) clipped(k int) float32 {
	b := p.layer
	cell := k / b.image.Depth
	y := p.y + (cell/b.BlockSize)*b.Stride
	x := p.x + (cell%b.BlockSize)*b.Stride
	if y >= b.image.Height || x >= b.image.Width {
		return 0
	}
	return b.data[p.base+b.offsets[k]]
}

// Values copies the patch samples into dst, growing it if needed, and
// returns it.
func (p Patch) Values(dst []float32) []float32 {
	dst = slices.Grow(dst[:0], p.Dimension())
	for k := 0; k < p.Dimension(); k++ {
		dst = append(dst, p.At(k))
	}
	return dst
}
