package cards

import (
	"context"
	"fmt"
	"image"
	"strings"

	"go.uber.org/zap"

	"github.com/ironsheep/cardsheet/internal/imaging"
	"github.com/ironsheep/cardsheet/internal/layout"
)

// LabelReader reads the number printed in a small image. The ocr package
// provides a Tesseract-backed implementation.
type LabelReader interface {
	ReadText(img image.Image) (text string, confidence float64, err error)
}

// blankTolerance is the RGB distance a blank cell may drift from the
// background after encoding.
const blankTolerance = 0.04

// Finding is the check of one label, or of one blank cell.
type Finding struct {
	Cell  int    `json:"cell"`
	Label int    `json:"label,omitempty"`
	Want  string `json:"want,omitempty"`
	Got   string `json:"got,omitempty"`

	// Blank marks a cell past the end of the range.
	Blank      bool    `json:"blank,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	OK         bool    `json:"ok"`
}

// VerifyResult summarizes a proofing pass over one sheet.
type VerifyResult struct {
	Page       string    `json:"page"`
	Start      int       `json:"start"`
	End        int       `json:"end"`
	Findings   []Finding `json:"findings"`
	Mismatches int       `json:"mismatches"`
}

// Verify proofs a written sheet against the numbers it should carry.
//
// The sheet is laid out again from tilePath and the labeler's options, so
// both must match the run that wrote it. Each stamped label is cropped
// around its expected text box and read back with reader; cells past
// c.End must match the background color.
func (l *Labeler) Verify(ctx context.Context, pagePath, tilePath string, c layout.Chunk, reader LabelReader) (*VerifyResult, error) {
	if l.opts.Unnumbered {
		return nil, fmt.Errorf("%w: unnumbered sheets carry no labels to verify", ErrInvalidOptions)
	}
	page, err := l.cache.Load(pagePath)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	tile, err := l.cache.Load(tilePath)
	if err != nil {
		return nil, fmt.Errorf("load tile: %w", err)
	}

	s := l.newSheet(tile, true)
	pb := page.Bounds()
	if pb.Dx() != s.geom.Canvas.X || pb.Dy() != s.geom.Canvas.Y {
		return nil, fmt.Errorf("page is %dx%d, layout expects %dx%d",
			pb.Dx(), pb.Dy(), s.geom.Canvas.X, s.geom.Canvas.Y)
	}

	res := &VerifyResult{Page: pagePath, Start: c.Start, End: c.End, Findings: []Finding{}}
	n := c.Start
	for i := 0; i < s.geom.Grid.Capacity(); i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		cell := s.geom.CellRect(i).Add(pb.Min)
		if n > c.End {
			ok := imaging.RegionIsUniform(page, cell, l.opts.Background, blankTolerance)
			res.add(Finding{Cell: i + 1, Blank: true, OK: ok})
			continue
		}

		want := layout.FormatNumber(n, s.zeroPad)
		for j, lbl := range s.labels {
			box := imaging.TextBox(s.style.Face, want, lbl.Point(s.geom.Tile.X, s.geom.Tile.Y))
			box = box.Inset(-(lbl.StrokeWidth + 4)).Add(cell.Min).Intersect(cell)

			crop, err := imaging.Crop(page, box, 3)
			if err != nil {
				return res, fmt.Errorf("cell %d label %d: %w", i+1, j+1, err)
			}
			got, conf, err := reader.ReadText(crop)
			if err != nil {
				return res, fmt.Errorf("cell %d label %d: %w", i+1, j+1, err)
			}
			got = strings.TrimSpace(got)
			res.add(Finding{Cell: i + 1, Label: j + 1, Want: want, Got: got, Confidence: conf, OK: got == want})
		}
		n++
	}

	l.log.Info("page verified",
		zap.String("page", pagePath),
		zap.Int("findings", len(res.Findings)),
		zap.Int("mismatches", res.Mismatches))
	return res, nil
}

func (r *VerifyResult) add(f Finding) {
	if !f.OK {
		r.Mismatches++
	}
	r.Findings = append(r.Findings, f)
}
