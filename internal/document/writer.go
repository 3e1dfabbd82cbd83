package document

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/ironsheep/cardsheet/internal/imaging"
)

// DefaultDPI maps page pixels to PDF points when none is configured. Letter
// paper at this resolution is 2550x3300 pixels.
const DefaultDPI = 300

// Writer assembles raster pages into a PDF, one image per page. Each page is
// sized to its image at the writer's DPI, so pages of different sizes can
// share a document.
type Writer struct {
	pdf   *fpdf.Fpdf
	dpi   float64
	pages int
}

// NewWriter creates an empty document. A non-positive dpi selects DefaultDPI.
func NewWriter(dpi float64) *Writer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: 612, Ht: 792},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("cardsheet", true)
	return &Writer{pdf: pdf, dpi: dpi}
}

// AddImage appends img as a new page. Transparent pixels are flattened onto
// white.
func (w *Writer) AddImage(img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("page %d: empty image", w.pages+1)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.Flatten(img, color.White)); err != nil {
		return fmt.Errorf("page %d: encode: %w", w.pages+1, err)
	}

	wd := float64(b.Dx()) * 72 / w.dpi
	ht := float64(b.Dy()) * 72 / w.dpi

	name := "page" + strconv.Itoa(w.pages+1)
	opts := fpdf.ImageOptions{ImageType: "PNG"}

	w.pdf.AddPageFormat("P", fpdf.SizeType{Wd: wd, Ht: ht})
	w.pdf.RegisterImageOptionsReader(name, opts, &buf)
	w.pdf.ImageOptions(name, 0, 0, wd, ht, false, opts, 0, "")
	if err := w.pdf.Error(); err != nil {
		return fmt.Errorf("page %d: %w", w.pages+1, err)
	}

	w.pages++
	return nil
}

// PageCount returns the number of pages added so far.
func (w *Writer) PageCount() int {
	return w.pages
}

// WriteFile writes the document to path, creating parent directories. The
// writer cannot be reused afterwards.
func (w *Writer) WriteFile(path string) error {
	if w.pages == 0 {
		return fmt.Errorf("document has no pages")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := w.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WritePDF writes images to path as a multi-page document in slice order.
func WritePDF(path string, images []image.Image, dpi float64) error {
	w := NewWriter(dpi)
	for _, img := range images {
		if err := w.AddImage(img); err != nil {
			return err
		}
	}
	return w.WriteFile(path)
}
