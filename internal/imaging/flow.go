package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/iconfit/internal/patchmatch"
)

// RenderFlow colours every cell of a displacement field: hue encodes the
// displacement direction, brightness its length relative to maxMagnitude.
// A non-positive maxMagnitude uses the longest displacement in the field.
func RenderFlow(field *patchmatch.Field, maxMagnitude float64) *image.NRGBA {
	if maxMagnitude <= 0 {
		for y := 0; y < field.Height; y++ {
			for x := 0; x < field.Width; x++ {
				d := field.At(y, x)
				maxMagnitude = math.Max(maxMagnitude, math.Hypot(float64(d.DY), float64(d.DX)))
			}
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, field.Width, field.Height))
	for y := 0; y < field.Height; y++ {
		for x := 0; x < field.Width; x++ {
			d := field.At(y, x)
			mag := math.Hypot(float64(d.DY), float64(d.DX))
			if mag == 0 || maxMagnitude == 0 {
				out.Set(x, y, color.Black)
				continue
			}
			hue := math.Atan2(float64(d.DY), float64(d.DX)) * 180 / math.Pi
			if hue < 0 {
				hue += 360
			}
			out.Set(x, y, colorful.Hsv(hue, 1, math.Min(mag/maxMagnitude, 1)).Clamped())
		}
	}
	return out
}

// RenderScores draws the score grid of a field as a grayscale heat map:
// perfect matches are white, the worst score in the field is black.
func RenderScores(field *patchmatch.Field) *image.Gray {
	scores := field.Scores()
	worst := 0.0
	for _, s := range scores {
		worst = math.Max(worst, s)
	}

	out := image.NewGray(image.Rect(0, 0, field.Width, field.Height))
	for i, s := range scores {
		v := 255.0
		if worst > 0 {
			v = 255 * (1 - s/worst)
		}
		out.Pix[i/field.Width*out.Stride+i%field.Width] = uint8(math.Round(v))
	}
	return out
}
