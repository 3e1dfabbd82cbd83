package cards

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/cardsheet/internal/document"
	"github.com/ironsheep/cardsheet/internal/imaging"
	"github.com/ironsheep/cardsheet/internal/layout"
)

var (
	// ErrTileNotFound is returned when the tile image does not exist.
	ErrTileNotFound = imaging.ErrNotFound

	// ErrLocked is returned when another run holds the output folder.
	ErrLocked = errors.New("output folder is in use by another run")
)

const (
	// LockFileName is created in the output folder for the duration of a run.
	LockFileName = ".cardsheet.lock"

	// PagePrefix starts the name of every sheet written by GeneratePages.
	PagePrefix = document.DefaultPrefix
)

// Page describes one written sheet.
type Page struct {
	// Index is the 1-based page number within the run.
	Index int    `json:"index"`
	Path  string `json:"path"`
	Start int    `json:"start"`
	End   int    `json:"end"`

	// Cells is the number of stamped cells; the rest of the grid is blank.
	Cells int `json:"cells"`

	// Labels holds the stamped text of each cell in row-major order. Empty
	// for unnumbered sheets.
	Labels []string `json:"labels,omitempty"`
}

// Result is the outcome of GeneratePages.
type Result struct {
	RunID    string   `json:"run_id"`
	Pages    []Page   `json:"pages"`
	Font     string   `json:"font,omitempty"`
	Geometry Geometry `json:"geometry"`
}

// Labeler stamps sequential numbers onto copies of a tile and lays them out
// as printable sheets.
type Labeler struct {
	opts  Options
	cache *imaging.ImageCache
	fonts *imaging.FontLoader
	log   *zap.Logger
}

// NewLabeler validates opts and returns a labeler using the platform font
// directories.
func NewLabeler(opts Options) (*Labeler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Labeler{
		opts:  opts,
		cache: imaging.NewImageCache(),
		fonts: imaging.NewFontLoader(),
		log:   opts.Logger,
	}, nil
}

// WithCache shares an image cache, such as the MCP server's, with the labeler.
func (l *Labeler) WithCache(cache *imaging.ImageCache) *Labeler {
	l.cache = cache
	return l
}

// WithFonts replaces the font loader.
func (l *Labeler) WithFonts(fonts *imaging.FontLoader) *Labeler {
	l.fonts = fonts
	return l
}

// Options returns the validated options.
func (l *Labeler) Options() Options {
	return l.opts
}

// GeneratePages writes one sheet per page-worth of r into outDir.
//
// Cells are filled in row-major order with the tile stamped with the
// current number, and the counter stops at r.End, so the last sheet may be
// partly blank. Files are named page_<start>_<end> with both numbers padded
// to the same width for the whole run, which keeps name order equal to page
// order.
//
// A missing tile is fatal and wraps ErrTileNotFound. An empty range writes
// nothing and returns a Result without pages.
func (l *Labeler) GeneratePages(ctx context.Context, tilePath string, r layout.Range, outDir string) (*Result, error) {
	tile, err := l.cache.Load(tilePath)
	if err != nil {
		return nil, fmt.Errorf("load tile: %w", err)
	}

	runID := uuid.NewString()
	log := l.log.With(zap.String("run_id", runID))

	s := l.newSheet(tile, !l.opts.Unnumbered)
	res := &Result{RunID: runID, Pages: []Page{}, Font: s.fontName, Geometry: s.geom}

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

	width := nameWidth(r, l.opts.ZeroPad)
	log.Info("generating pages",
		zap.String("tile", tilePath),
		zap.Stringer("range", r),
		zap.Int("pages", len(chunks)),
		zap.String("font", s.fontName))

	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		canvas, texts := s.render(c)
		path := filepath.Join(outDir, PageName(c, width)+l.opts.Format.Ext())
		if err := l.save(canvas, path); err != nil {
			return res, err
		}

		p := Page{Index: c.Index, Path: path, Start: c.Start, End: c.End, Cells: c.Len(), Labels: texts}
		res.Pages = append(res.Pages, p)
		log.Debug("page written", zap.String("path", path), zap.Int("cells", p.Cells))
		if l.opts.OnPage != nil {
			l.opts.OnPage(p)
		}
	}

	log.Info("pages generated", zap.Int("count", len(res.Pages)), zap.String("dir", outDir))
	return res, nil
}

// RenderPage draws the sheet for chunk c in memory without writing it.
func (l *Labeler) RenderPage(tile image.Image, c layout.Chunk) (*image.NRGBA, Geometry, []string) {
	s := l.newSheet(tile, !l.opts.Unnumbered)
	canvas, texts := s.render(c)
	return canvas, s.geom, texts
}

func (l *Labeler) save(canvas image.Image, path string) error {
	if l.opts.Format == imaging.FormatPDF {
		return document.WritePDF(path, []image.Image{canvas}, l.opts.DPI)
	}
	return imaging.Save(canvas, path, l.opts.Format, l.opts.Quality)
}

// PageName is the file name, without extension, of the sheet holding c.
func PageName(c layout.Chunk, width int) string {
	return fmt.Sprintf("%s%0*d_%0*d", PagePrefix, width, c.Start, width, c.End)
}

var pageNameRE = regexp.MustCompile(`^page_(-?\d+)_(-?\d+)\.[A-Za-z]+$`)

// ParsePageName recovers the number range from a file name written by
// GeneratePages.
func ParsePageName(name string) (layout.Chunk, bool) {
	m := pageNameRE.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return layout.Chunk{}, false
	}
	start, err1 := strconv.Atoi(m[1])
	end, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || end < start {
		return layout.Chunk{}, false
	}
	return layout.Chunk{Start: start, End: end}, true
}

// nameWidth is the digit count used in file names: at least zeroPad, and
// wide enough for every number in r.
func nameWidth(r layout.Range, zeroPad int) int {
	w := zeroPad
	for _, n := range []int{r.Start, r.End} {
		if d := len(strconv.Itoa(n)); d > w {
			w = d
		}
	}
	return w
}

func lockDir(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock output folder: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return func() { _ = lock.Unlock() }, nil
}
