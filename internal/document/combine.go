package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ironsheep/cardsheet/internal/imaging"
)

// DefaultPrefix matches the page files written by the grid labeler.
const DefaultPrefix = "page_"

// CombineOptions selects the page images to merge and where to write them.
type CombineOptions struct {
	// Folder holds the page images. The output is written here too unless
	// Output is absolute.
	Folder string

	// Prefix selects files named <Prefix>*.png, *.jpg or *.jpeg.
	Prefix string

	// Output is the document file name.
	Output string

	// DPI maps image pixels to page size. Zero selects DefaultDPI.
	DPI float64

	Logger *zap.Logger
}

// CombineResult lists what went into the document.
type CombineResult struct {
	Output string `json:"output"`

	// Pages are the source images in document order.
	Pages []string `json:"pages"`

	// Removed lists stale per-page PDFs deleted after combining.
	Removed []string `json:"removed,omitempty"`
}

// Combine merges every matching page image in opts.Folder into one PDF.
//
// Files are ordered by name. Page files carry fixed-width zero-padded
// numbers, so lexical order is numeric order. When nothing matches, Combine
// logs a warning and returns (nil, nil) without writing anything.
//
// After a successful write, stray <Prefix>*.pdf files other than the output
// are deleted; failures to delete them are ignored.
func Combine(ctx context.Context, opts CombineOptions) (*CombineResult, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.Output == "" {
		opts.Output = "all_pages.pdf"
	}
	if !strings.EqualFold(filepath.Ext(opts.Output), ".pdf") {
		opts.Output += ".pdf"
	}

	pages, err := DiscoverPages(opts.Folder, opts.Prefix)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		log.Warn("no page images to combine",
			zap.String("folder", opts.Folder),
			zap.String("prefix", opts.Prefix))
		return nil, nil
	}

	out := opts.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(opts.Folder, out)
	}

	cache := imaging.NewImageCache()
	w := NewWriter(opts.DPI)
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := cache.Load(p)
		if err != nil {
			return nil, fmt.Errorf("load page: %w", err)
		}
		if err := w.AddImage(img); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		// Pages are only needed once; keep memory flat on long runs.
		cache.Evict(p)
		log.Debug("added page", zap.String("file", filepath.Base(p)), zap.Int("page", w.PageCount()))
	}

	if err := w.WriteFile(out); err != nil {
		return nil, err
	}
	log.Info("combined pages", zap.String("output", out), zap.Int("pages", len(pages)))

	return &CombineResult{
		Output:  out,
		Pages:   pages,
		Removed: removeStaleDocuments(opts.Folder, opts.Prefix, out),
	}, nil
}

// DiscoverPages returns the raster files in folder whose names start with
// prefix, sorted by name.
func DiscoverPages(folder, prefix string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(folder, globEscape(prefix)+"*"))
	if err != nil {
		return nil, fmt.Errorf("match page files: %w", err)
	}

	pages := matches[:0]
	for _, m := range matches {
		switch strings.ToLower(filepath.Ext(m)) {
		case ".png", ".jpg", ".jpeg":
		default:
			continue
		}
		if info, err := os.Stat(m); err != nil || info.IsDir() {
			continue
		}
		pages = append(pages, m)
	}
	sort.Strings(pages)
	return pages, nil
}

func removeStaleDocuments(folder, prefix, keep string) []string {
	matches, _ := filepath.Glob(filepath.Join(folder, globEscape(prefix)+"*.pdf"))
	keepAbs, _ := filepath.Abs(keep)

	var removed []string
	for _, m := range matches {
		if abs, _ := filepath.Abs(m); abs == keepAbs {
			continue
		}
		if err := os.Remove(m); err == nil {
			removed = append(removed, m)
		}
	}
	return removed
}

func globEscape(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(s)
}
