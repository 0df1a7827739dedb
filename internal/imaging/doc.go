// Package imaging provides the pixel-level operations around icon location.
//
// This package loads and caches images, turns them into gradient planes for
// feature extraction, and renders match results back into images: the match
// box on the target, the displacement field as a colour flow map, and the
// match scores as a heat map. All operations work with standard Go
// image.Image types and use a coordinate system where (0,0) is at the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left), Max is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Match boxes that miss the image entirely
//   - Empty images
//   - File I/O errors during image loading
//   - Encoding errors during image output
//
// # Performance Considerations
//
// For repeated operations on the same image, use ImageCache to avoid redundant
// disk reads. Large images may consume significant memory when cached.
// Consider using Evict() or Clear() to manage memory for long-running processes.
package imaging
