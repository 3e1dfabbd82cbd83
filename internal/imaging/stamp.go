package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Label is a point inside a tile where the card number is centered.
//
// X and Y are relative to the tile size (0..1). OffsetY nudges the point
// by whole pixels after scaling.
type Label struct {
	X           float64 `json:"x" toml:"x" yaml:"x"`
	Y           float64 `json:"y" toml:"y" yaml:"y"`
	OffsetY     int     `json:"offset_y,omitempty" toml:"offset_y" yaml:"offset_y"`
	StrokeWidth int     `json:"stroke_width,omitempty" toml:"stroke_width" yaml:"stroke_width"`
}

// Point returns the label center in pixels for a tile of size w x h.
func (l Label) Point(w, h int) image.Point {
	return image.Point{
		X: int(float64(w) * l.X),
		Y: int(float64(h)*l.Y) + l.OffsetY,
	}
}

// TextStyle controls how a label is drawn.
type TextStyle struct {
	Face   font.Face
	Fill   color.Color
	Stroke color.Color
}

// TextBox returns the ink rectangle text would occupy when centered at
// center. The rectangle is what Stamp paints, excluding the stroke.
func TextBox(face font.Face, text string, center image.Point) image.Rectangle {
	b, _ := font.BoundString(face, text)
	w := (b.Max.X - b.Min.X).Ceil()
	h := (b.Max.Y - b.Min.Y).Ceil()
	min := image.Pt(center.X-w/2, center.Y-h/2)
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(w, h))}
}

// Stamp returns a copy of tile with text drawn at every label.
//
// The text's ink box is centered on each label point. When a label has a
// positive StrokeWidth, the glyph mask is dilated by that many pixels and
// painted in the stroke color under the fill, which keeps numbers readable
// on any background. The source tile is not modified.
func Stamp(tile image.Image, text string, labels []Label, style TextStyle) *image.NRGBA {
	dst := imaging.Clone(tile)
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()

	fill := style.Fill
	if fill == nil {
		fill = color.Black
	}
	stroke := style.Stroke
	if stroke == nil {
		stroke = color.White
	}

	for _, l := range labels {
		drawCentered(dst, style.Face, text, l.Point(w, h), l.StrokeWidth, fill, stroke)
	}
	return dst
}

func drawCentered(dst draw.Image, face font.Face, text string, center image.Point, strokeWidth int, fill, stroke color.Color) {
	b, _ := font.BoundString(face, text)
	w := (b.Max.X - b.Min.X).Ceil()
	h := (b.Max.Y - b.Min.Y).Ceil()
	if w <= 0 || h <= 0 {
		return
	}

	pad := 1
	if strokeWidth > 0 {
		pad += strokeWidth
	}

	// Render glyphs into a small mask so the dilation below only touches
	// the pixels around the text.
	mask := image.NewRGBA(image.Rect(0, 0, w+2*pad, h+2*pad))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(pad) - b.Min.X,
			Y: fixed.I(pad) - b.Min.Y,
		},
	}
	d.DrawString(text)

	origin := dst.Bounds().Min.Add(image.Pt(center.X-w/2-pad, center.Y-h/2-pad))
	target := mask.Bounds().Add(origin)

	if strokeWidth > 0 {
		outline := effect.Dilate(mask, float64(strokeWidth))
		draw.DrawMask(dst, target, image.NewUniform(stroke), image.Point{}, outline, outline.Bounds().Min, draw.Over)
	}
	draw.DrawMask(dst, target, image.NewUniform(fill), image.Point{}, mask, image.Point{}, draw.Over)
}
