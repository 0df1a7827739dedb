// Package feature holds dense per-pixel descriptor images and the patch
// indirection layer used to compare square neighbourhoods of them.
//
// # Layout
//
// An Image stores Height*Width vectors of Depth float32 values in one slice,
// row-major, pixel-major and channel-minor: the vector of pixel (y, x) starts
// at (y*Width+x)*Depth.
//
// # Patches
//
// A BlockImage wraps an Image with a block size and a sampling stride and
// precomputes an offset table once. A Patch is a small value (layer pointer
// plus base index) that reads through that shared table, so comparing two
// patches never copies the BlockSize²·Depth samples they cover.
//
// Patches whose block reaches past the bottom or right edge of the image are
// still valid: samples that fall outside the image read as zero.
//
// # Lifetime
//
// A BlockImage keeps a reference to its Image's storage and every Patch keeps
// a reference to its BlockImage. Neither copies, so an Image must not be
// mutated while patches of it are being compared.
package feature
