package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodedImage is a rendered image returned to MCP clients.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// EncodeScaledPNG resizes img by scale with nearest-neighbour sampling, so
// that field cells stay sharp, and encodes the result as a base64 PNG.
func EncodeScaledPNG(img image.Image, scale float64) (*EncodedImage, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("scale %v must be positive", scale)
	}
	if scale != 1.0 {
		width := max(int(float64(img.Bounds().Dx())*scale), 1)
		height := max(int(float64(img.Bounds().Dy())*scale), 1)
		img = imaging.Resize(img, width, height, imaging.NearestNeighbor)
	}
	return EncodePNG(img)
}
