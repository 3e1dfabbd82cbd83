package cards

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/cardsheet/internal/document"
	"github.com/ironsheep/cardsheet/internal/imaging"
	"github.com/ironsheep/cardsheet/internal/layout"
)

// DefaultDeckDocument is the interleaved PDF written by GenerateDeck.
const DefaultDeckDocument = "cards_intercalated.pdf"

// DeckResult lists the sheets of a two-sided deck.
type DeckResult struct {
	RunID    string   `json:"run_id"`
	Fronts   []Page   `json:"fronts"`
	Backs    []Page   `json:"backs"`
	Document string   `json:"document"`
	Font     string   `json:"font,omitempty"`
	Geometry Geometry `json:"geometry"`
}

// GenerateDeck prints a double-sided deck: unnumbered front sheets from
// frontPath and numbered back sheets from backPath, one pair per page-worth
// of r.
//
// Sheets are saved as front_card_<n>.png and back_card_<n>.png, and a PDF
// named document (DefaultDeckDocument when empty) interleaves them front,
// back, front, back for duplex printing.
//
// Deck sheets always target a physical page: Options.PageSize, or
// LetterPage when none is set. The front tile is shrunk to fit that page and
// fixes the geometry of both sides; the back tile is resized to the front
// cell size so the two faces of every card register when printed duplex.
func (l *Labeler) GenerateDeck(ctx context.Context, frontPath, backPath string, r layout.Range, outDir, doc string) (*DeckResult, error) {
	front, err := l.cache.Load(frontPath)
	if err != nil {
		return nil, fmt.Errorf("load front tile: %w", err)
	}
	back, err := l.cache.Load(backPath)
	if err != nil {
		return nil, fmt.Errorf("load back tile: %w", err)
	}
	if doc == "" {
		doc = DefaultDeckDocument
	}

	runID := uuid.NewString()
	log := l.log.With(zap.String("run_id", runID))

	page := l.opts.PageSize
	if page.X <= 0 || page.Y <= 0 {
		page = LetterPage
	}
	fb, bb := front.Bounds(), back.Bounds()
	geom := NewGeometry(l.opts.Grid, image.Pt(fb.Dx(), fb.Dy()), page)
	if fb.Size() != bb.Size() {
		log.Warn("front and back tiles differ in size, resizing back to the front cell",
			zap.Stringer("front", fb.Size()),
			zap.Stringer("back", bb.Size()),
			zap.Stringer("cell", geom.Tile))
	}

	fronts := l.layoutSheet(front, false, geom)
	backs := l.layoutSheet(back, true, geom)
	res := &DeckResult{RunID: runID, Fronts: []Page{}, Backs: []Page{}, Font: backs.fontName, Geometry: geom}

	chunks := layout.Paginate(r, l.opts.Grid.Capacity())
	if len(chunks) == 0 {
		log.Info("empty range, nothing to generate", zap.Stringer("range", r))
		return res, nil
	}

	unlock, err := lockDir(outDir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	log.Info("generating deck",
		zap.String("front", frontPath),
		zap.String("back", backPath),
		zap.Stringer("range", r),
		zap.Int("sheets", len(chunks)))

	pdf := document.NewWriter(l.opts.DPI)
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		frontCanvas, _ := fronts.render(c)
		frontFile := filepath.Join(outDir, fmt.Sprintf("front_card_%d.png", c.Index))
		if err := imaging.Save(frontCanvas, frontFile, imaging.FormatPNG, 0); err != nil {
			return res, err
		}
		if err := pdf.AddImage(frontCanvas); err != nil {
			return res, err
		}
		fp := Page{Index: c.Index, Path: frontFile, Start: c.Start, End: c.End, Cells: c.Len()}
		res.Fronts = append(res.Fronts, fp)

		backCanvas, texts := backs.render(c)
		backFile := filepath.Join(outDir, fmt.Sprintf("back_card_%d.png", c.Index))
		if err := imaging.Save(backCanvas, backFile, imaging.FormatPNG, 0); err != nil {
			return res, err
		}
		if err := pdf.AddImage(backCanvas); err != nil {
			return res, err
		}
		bp := Page{Index: c.Index, Path: backFile, Start: c.Start, End: c.End, Cells: c.Len(), Labels: texts}
		res.Backs = append(res.Backs, bp)

		log.Debug("sheet pair written", zap.Int("sheet", c.Index))
		if l.opts.OnPage != nil {
			l.opts.OnPage(fp)
			l.opts.OnPage(bp)
		}
	}

	docPath := doc
	if !filepath.IsAbs(docPath) {
		docPath = filepath.Join(outDir, doc)
	}
	if err := pdf.WriteFile(docPath); err != nil {
		return res, err
	}
	res.Document = docPath

	log.Info("deck generated", zap.Int("sheets", len(chunks)), zap.String("document", docPath))
	return res, nil
}
