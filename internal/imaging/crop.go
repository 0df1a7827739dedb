package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropMatch extracts the part of img covered by box, optionally rescaled.
//
// A match box may overhang the image when the icon was placed near an edge;
// only the overlapping part is returned. A box that misses the image entirely
// is an error.
func CropMatch(img image.Image, box image.Rectangle, scale float64) (image.Image, error) {
	region := box.Intersect(img.Bounds())
	if region.Empty() {
		return nil, fmt.Errorf("match box (%d,%d)-(%d,%d) does not overlap image bounds (%d,%d)-(%d,%d)",
			box.Min.X, box.Min.Y, box.Max.X, box.Max.Y,
			img.Bounds().Min.X, img.Bounds().Min.Y, img.Bounds().Max.X, img.Bounds().Max.Y)
	}

	cropped := imaging.Crop(img, region)
	if scale != 1.0 && scale > 0 {
		newWidth := max(int(float64(cropped.Bounds().Dx())*scale), 1)
		newHeight := max(int(float64(cropped.Bounds().Dy())*scale), 1)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}
	return cropped, nil
}
