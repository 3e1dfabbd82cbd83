package imaging

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Format is an output encoding for page images.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
)

// ParseFormat normalizes a user-supplied format name. The empty string
// selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", s)
	}
}

// Ext returns the file extension, with the leading dot.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPDF:
		return ".pdf"
	default:
		return ".png"
	}
}

// Raster reports whether f is written by Save rather than a document writer.
func (f Format) Raster() bool {
	return f == FormatPNG || f == FormatJPEG
}

// Save encodes img to path as PNG or JPEG, creating parent directories.
// quality applies to JPEG only; zero selects 95.
func Save(img image.Image, path string, format Format, quality int) error {
	if !format.Raster() {
		return fmt.Errorf("cannot save %s as a raster image", format)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if quality <= 0 || quality > 100 {
		quality = 95
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	imgFormat := imaging.PNG
	if format == FormatJPEG {
		imgFormat = imaging.JPEG
	}
	if err := imaging.Encode(f, img, imgFormat, imaging.JPEGQuality(quality)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Flatten composites img onto an opaque background. Document writers and
// JPEG both want pages without alpha.
func Flatten(img image.Image, bg color.Color) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(canvas, img, image.Point{}, 1.0)
}
