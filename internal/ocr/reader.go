package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Digits is the default character whitelist for card numbers.
const Digits = "0123456789"

// Reader recognizes short numeric labels.
type Reader struct {
	client *gosseract.Client
}

// NewReader creates a reader restricted to whitelist characters, treating
// every image as one line of text. An empty whitelist selects Digits.
func NewReader(language, whitelist string) (*Reader, error) {
	if language == "" {
		language = "eng"
	}
	if whitelist == "" {
		whitelist = Digits
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetWhitelist(whitelist); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation: %w", err)
	}
	return &Reader{client: client}, nil
}

// Close releases the Tesseract client.
func (r *Reader) Close() error {
	return r.client.Close()
}

// ReadText returns the text in img with surrounding whitespace removed and
// the mean word confidence in 0..1.
//
// The crop is converted to grayscale before recognition; outlined numbers
// on busy artwork read more reliably without color.
func (r *Reader) ReadText(img image.Image) (string, float64, error) {
	if img.Bounds().Empty() {
		return "", 0, fmt.Errorf("empty image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.Grayscale(img)); err != nil {
		return "", 0, fmt.Errorf("failed to encode image: %w", err)
	}
	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := r.client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("OCR failed: %w", err)
	}

	// Confidence is informational; a failure here still leaves the text.
	conf := 0.0
	if boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_WORD); err == nil {
		conf = meanConfidence(boxes)
	}
	return Normalize(text), conf, nil
}

// Normalize strips whitespace, including spaces Tesseract sometimes inserts
// between digits.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), "")
}

func meanConfidence(boxes []gosseract.BoundingBox) float64 {
	var sum float64
	var n int
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) == "" {
			continue
		}
		sum += b.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / 100.0
}

// Version returns the linked Tesseract version.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
