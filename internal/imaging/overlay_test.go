package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestDrawMatchBox(t *testing.T) {
	img := createInMemoryImage(40, 40, color.RGBA{0, 0, 0, 255})

	out := DrawMatchBox(img, image.Rect(10, 10, 20, 25), "#FF0000", "")

	red := color.RGBA{255, 0, 0, 255}
	for _, p := range []image.Point{{10, 10}, {19, 10}, {10, 24}, {19, 24}, {15, 10}, {10, 17}} {
		if got := out.RGBAAt(p.X, p.Y); got != red {
			t.Errorf("outline pixel %v: got %v, want red", p, got)
		}
	}
	if got := out.RGBAAt(15, 17); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("interior pixel should be untouched, got %v", got)
	}

	// The source image is not modified.
	if r, _, _, _ := img.At(10, 10).RGBA(); r != 0 {
		t.Error("DrawMatchBox modified its input")
	}
}

func TestDrawMatchBox_OverhangAndDefaultColor(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{0, 0, 0, 255})

	out := DrawMatchBox(img, image.Rect(15, 15, 30, 30), "not-a-color", "")
	if got := out.RGBAAt(15, 19); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("left edge pixel: got %v, want default green", got)
	}
}

func TestDrawMatchBox_Label(t *testing.T) {
	img := createInMemoryImage(60, 40, color.RGBA{0, 0, 0, 255})

	out := DrawMatchBox(img, image.Rect(5, 5, 50, 35), "#00FF00", "12,-3")

	white := 0
	for y := 7; y < 14; y++ {
		for x := 7; x < 7+5*4; x++ {
			if out.RGBAAt(x, y) == (color.RGBA{255, 255, 255, 255}) {
				white++
			}
		}
	}
	if white == 0 {
		t.Error("label glyphs were not drawn")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00FF00", color.RGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.RGBA{0, 0, 255, 128}, false},
		{"", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
