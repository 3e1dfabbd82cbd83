package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop extracts r from img and optionally rescales it.
//
// A scale of 1 (or <= 0) keeps the crop at its native size. Label proofing
// upscales small number boxes before OCR.
func Crop(img image.Image, r image.Rectangle, scale float64) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %v", r)
	}

	cropped := imaging.Crop(img, r)
	if scale > 0 && scale != 1.0 {
		w := int(float64(cropped.Bounds().Dx()) * scale)
		h := int(float64(cropped.Bounds().Dy()) * scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %.2f collapses region %v", scale, r)
		}
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}
	return cropped, nil
}

// Fit shrinks img to fit inside box, preserving aspect ratio. Images that
// already fit are returned unchanged.
func Fit(img image.Image, box image.Point) image.Image {
	b := img.Bounds()
	if b.Dx() <= box.X && b.Dy() <= box.Y {
		return img
	}
	return imaging.Fit(img, box.X, box.Y, imaging.Lanczos)
}
