package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]color.NRGBA{
	"white": {R: 255, G: 255, B: 255, A: 255},
	"black": {R: 0, G: 0, B: 0, A: 255},
	"red":   {R: 255, G: 0, B: 0, A: 255},
	"green": {R: 0, G: 128, B: 0, A: 255},
	"blue":  {R: 0, G: 0, B: 255, A: 255},
	"gray":  {R: 128, G: 128, B: 128, A: 255},
}

// ParseColor accepts a color name ("white", "black", ...), "#RRGGBB" or
// "#RRGGBBAA".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	alpha := uint8(255)
	switch len(s) {
	case 7:
	case 9:
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = a
		s = s[:7]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want a name, #RRGGBB or #RRGGBBAA", s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// MustParseColor is ParseColor for compile-time constants.
func MustParseColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HexColor formats c as "#RRGGBB", dropping alpha.
func HexColor(c color.Color) string {
	cf, _ := colorful.MakeColor(opaque(c))
	return strings.ToUpper(cf.Hex())
}

// ColorResult is a sampled pixel.
type ColorResult struct {
	Hex  string      `json:"hex"`
	RGBA color.NRGBA `json:"rgba"`
}

// SampleColor returns the color at (x, y).
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return &ColorResult{
		Hex:  HexColor(c),
		RGBA: c,
	}, nil
}

// ColorDistance is the Euclidean RGB distance between a and b, in 0..~1.73.
func ColorDistance(a, b color.Color) float64 {
	ca, _ := colorful.MakeColor(opaque(a))
	cb, _ := colorful.MakeColor(opaque(b))
	return ca.DistanceRgb(cb)
}

// RegionIsUniform reports whether every pixel of r is within tolerance of want.
// Points of r outside img are ignored.
func RegionIsUniform(img image.Image, r image.Rectangle, want color.Color, tolerance float64) bool {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if ColorDistance(img.At(x, y), want) > tolerance {
				return false
			}
		}
	}
	return true
}

// opaque drops alpha so colorful (which rejects transparent colors) can
// convert any pixel.
func opaque(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 255
	return n
}
