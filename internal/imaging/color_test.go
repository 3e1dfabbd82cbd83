package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"white", color.NRGBA{255, 255, 255, 255}},
		{"Black", color.NRGBA{0, 0, 0, 255}},
		{"#FF8040", color.NRGBA{255, 128, 64, 255}},
		{"ff8040", color.NRGBA{255, 128, 64, 255}},
		{"#00FF0080", color.NRGBA{0, 255, 0, 128}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q): got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#GGGGGG", "chartreuse-ish", "#1234567"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) should fail", in)
		}
	}
}

func TestSampleColor(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 128, 64, 255})

	result, err := SampleColor(img, 50, 50)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGBA != (color.NRGBA{255, 128, 64, 255}) {
		t.Errorf("RGBA: got %v", result.RGBA)
	}

	if _, err := SampleColor(img, 100, 0); err == nil {
		t.Error("SampleColor should fail outside bounds")
	}
}

func TestColorDistance(t *testing.T) {
	if d := ColorDistance(color.White, color.White); d != 0 {
		t.Errorf("distance to self: got %f, want 0", d)
	}
	if d := ColorDistance(color.White, color.Black); d < 1.7 {
		t.Errorf("white/black distance: got %f, want ~1.73", d)
	}
}

func TestRegionIsUniform(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)
	if !RegionIsUniform(img, img.Bounds(), color.White, 0.01) {
		t.Error("solid white image should be uniform white")
	}

	img.Set(5, 5, color.Black)
	if RegionIsUniform(img, img.Bounds(), color.White, 0.01) {
		t.Error("image with a black pixel should not be uniform")
	}
	if !RegionIsUniform(img, image.Rect(10, 10, 20, 20), color.White, 0.01) {
		t.Error("region away from the black pixel should be uniform")
	}
}
