package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
)

// DrawMatchBox returns a copy of img with the outline of box drawn on it and,
// when label is non-empty, a small label at the box's top-left corner.
// Parts of the box outside the image are skipped.
//
// boxColorHex accepts "#RRGGBB" or "#RRGGBBAA"; an unparsable value falls
// back to opaque green.
func DrawMatchBox(img image.Image, box image.Rectangle, boxColorHex, label string) *image.RGBA {
	boxColor, err := parseHexColor(boxColorHex)
	if err != nil {
		boxColor = color.RGBA{0, 255, 0, 255}
	}

	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	set := func(x, y int) {
		if image.Pt(x, y).In(bounds) {
			result.Set(x, y, boxColor)
		}
	}
	for x := box.Min.X; x < box.Max.X; x++ {
		set(x, box.Min.Y)
		set(x, box.Max.Y-1)
	}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		set(box.Min.X, y)
		set(box.Max.X-1, y)
	}

	if label != "" {
		drawLabel(result, box.Min.X+2, box.Min.Y+2, label, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
	}
	return result
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// labelGlyphs is a 3x5 pixel font for digits, comma and minus.
var labelGlyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
	'-': {"000", "000", "111", "000", "000"},
}

// drawLabel draws text on a filled background at (x, y). Characters without
// a glyph are rendered as blanks.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if p := image.Pt(x+dx, y+dy); p.In(bounds) {
				img.Set(p.X, p.Y, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := labelGlyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				if p := image.Pt(cx+col, y+row); p.In(bounds) {
					img.Set(p.X, p.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}
