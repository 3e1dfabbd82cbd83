package cards

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/cardsheet/internal/imaging"
	"github.com/ironsheep/cardsheet/internal/layout"
)

// writeTile writes a solid tile with a darker border and returns its path.
func writeTile(t *testing.T, dir string, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				img.Set(x, y, color.RGBA{40, 40, 40, 255})
				continue
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, "tile.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create tile: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode tile: %v", err)
	}
	return path
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Grid = layout.Grid{Rows: 3, Columns: 3, Spacing: 10}
	opts.FontSize = 16
	return opts
}

func newTestLabeler(t *testing.T, opts Options) *Labeler {
	t.Helper()
	l, err := NewLabeler(opts)
	if err != nil {
		t.Fatalf("NewLabeler failed: %v", err)
	}
	return l.WithFonts(&imaging.FontLoader{})
}

func TestGeneratePages_SinglePage(t *testing.T) {
	dir := t.TempDir()
	tile := writeTile(t, dir, 120, 80, color.RGBA{200, 220, 240, 255})
	out := filepath.Join(dir, "out")

	res, err := newTestLabeler(t, testOptions()).GeneratePages(context.Background(), tile, layout.Range{Start: 1, End: 9}, out)
	if err != nil {
		t.Fatalf("GeneratePages failed: %v", err)
	}

	if len(res.Pages) != 1 {
		t.Fatalf("pages: got %d, want 1", len(res.Pages))
	}
	p := res.Pages[0]
	want := []string{"001", "002", "003", "004", "005", "006", "007", "008", "009"}
	if diff := cmp.Diff(want, p.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if filepath.Base(p.Path) != "page_001_009.png" {
		t.Errorf("file name: got %s, want page_001_009.png", filepath.Base(p.Path))
	}

	info, err := imaging.LoadImageInfo(imaging.NewImageCache(), p.Path)
	if err != nil {
		t.Fatalf("page not readable: %v", err)
	}
	wantSize := layout.Grid{Rows: 3, Columns: 3, Spacing: 10}.Size(120, 80)
	if info.Width != wantSize.X || info.Height != wantSize.Y {
		t.Errorf("page size: got %dx%d, want %v", info.Width, info.Height, wantSize)
	}
	if res.Font != imaging.BuiltinFontName {
		t.Errorf("font: got %q, want builtin", res.Font)
	}
}

func TestGeneratePages_PartialLastPage(t *testing.T) {
	dir := t.TempDir()
	tilePath := writeTile(t, dir, 120, 80, color.RGBA{200, 220, 240, 255})
	l := newTestLabeler(t, testOptions())

	res, err := l.GeneratePages(context.Background(), tilePath, layout.Range{Start: 1, End: 10}, dir)
	if err != nil {
		t.Fatalf("GeneratePages failed: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("pages: got %d, want 2", len(res.Pages))
	}

	last := res.Pages[1]
	if last.Cells != 1 {
		t.Errorf("last page cells: got %d, want 1", last.Cells)
	}
	if diff := cmp.Diff([]string{"010"}, last.Labels); diff != "" {
		t.Errorf("last page labels mismatch (-want +got):\n%s", diff)
	}
	if filepath.Base(last.Path) != "page_010_010.png" {
		t.Errorf("file name: got %s", filepath.Base(last.Path))
	}

	page, err := imaging.NewImageCache().Load(last.Path)
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	geom := res.Geometry
	if imaging.RegionIsUniform(page, geom.CellRect(0), color.White, 0.01) {
		t.Error("first cell of last page should hold the tile")
	}
	for i := 1; i < 9; i++ {
		if !imaging.RegionIsUniform(page, geom.CellRect(i), color.White, 0.01) {
			t.Errorf("cell %d of last page should be blank", i+1)
		}
	}
}

// Labels across all pages form start..end exactly once, in order.
func TestGeneratePages_SequenceAcrossPages(t *testing.T) {
	dir := t.TempDir()
	tilePath := writeTile(t, dir, 60, 40, color.White)

	opts := testOptions()
	opts.Grid = layout.Grid{Rows: 2, Columns: 2, Spacing: 4}
	opts.ZeroPad = 2
	opts.FontSize = 12

	r := layout.Range{Start: 7, End: 25}
	var seen []Page
	opts.OnPage = func(p Page) { seen = append(seen, p) }

	res, err := newTestLabeler(t, opts).GeneratePages(context.Background(), tilePath, r, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("GeneratePages failed: %v", err)
	}

	if got, want := len(res.Pages), layout.PageCount(r, 4); got != want {
		t.Fatalf("pages: got %d, want %d", got, want)
	}
	if len(seen) != len(res.Pages) {
		t.Errorf("OnPage calls: got %d, want %d", len(seen), len(res.Pages))
	}

	var got, want []string
	for _, p := range res.Pages {
		got = append(got, p.Labels...)
	}
	for n := r.Start; n <= r.End; n++ {
		want = append(want, layout.FormatNumber(n, 2))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sequence mismatch (-want +got):\n%s", diff)
	}

	if last := res.Pages[len(res.Pages)-1]; last.Cells != r.Len()%4 {
		t.Errorf("last page cells: got %d, want %d", last.Cells, r.Len()%4)
	}
}

func TestGeneratePages_EmptyRange(t *testing.T) {
	dir := t.TempDir()
	tilePath := writeTile(t, dir, 60, 40, color.White)
	out := filepath.Join(dir, "out")

	res, err := newTestLabeler(t, testOptions()).GeneratePages(context.Background(), tilePath, layout.Range{Start: 5, End: 4}, out)
	if err != nil {
		t.Fatalf("GeneratePages failed: %v", err)
	}
	if len(res.Pages) != 0 {
		t.Errorf("pages: got %d, want 0", len(res.Pages))
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("empty range should not create the output folder")
	}
}

func TestGeneratePages_MissingTile(t *testing.T) {
	_, err := newTestLabeler(t, testOptions()).GeneratePages(context.Background(),
		filepath.Join(t.TempDir(), "missing.png"), layout.Range{Start: 1, End: 9}, t.TempDir())
	if !errors.Is(err, ErrTileNotFound) {
		t.Errorf("error: got %v, want ErrTileNotFound", err)
	}
}

func TestGeneratePages_FileNamesWidenForLargeNumbers(t *testing.T) {
	dir := t.TempDir()
	tilePath := writeTile(t, dir, 30, 30, color.White)

	opts := testOptions()
	opts.Grid = layout.Grid{Rows: 1, Columns: 1}
	opts.FontSize = 8

	res, err := newTestLabeler(t, opts).GeneratePages(context.Background(), tilePath, layout.Range{Start: 999, End: 1000}, dir)
	if err != nil {
		t.Fatalf("GeneratePages failed: %v", err)
	}
	got := []string{filepath.Base(res.Pages[0].Path), filepath.Base(res.Pages[1].Path)}
	want := []string{"page_0999_0999.png", "page_1000_1000.png"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if res.Pages[0].Labels[0] != "999" {
		t.Errorf("label: got %q, want 999", res.Pages[0].Labels[0])
	}
}

func TestGeneratePages_PDFAndJPEG(t *testing.T) {
	for _, format := range []imaging.Format{imaging.FormatPDF, imaging.FormatJPEG} {
		t.Run(string(format), func(t *testing.T) {
			dir := t.TempDir()
			tilePath := writeTile(t, dir, 60, 40, color.White)

			opts := testOptions()
			opts.Format = format

			res, err := newTestLabeler(t, opts).GeneratePages(context.Background(), tilePath, layout.Range{Start: 1, End: 3}, dir)
			if err != nil {
				t.Fatalf("GeneratePages failed: %v", err)
			}
			if ext := filepath.Ext(res.Pages[0].Path); ext != format.Ext() {
				t.Errorf("extension: got %s, want %s", ext, format.Ext())
			}
			if _, err := os.Stat(res.Pages[0].Path); err != nil {
				t.Errorf("page not written: %v", err)
			}
		})
	}
}

func TestGeneratePages_Locked(t *testing.T) {
	dir := t.TempDir()
	tilePath := writeTile(t, dir, 60, 40, color.White)

	unlock, err := lockDir(dir)
	if err != nil {
		t.Fatalf("lockDir failed: %v", err)
	}
	defer unlock()

	_, err = newTestLabeler(t, testOptions()).GeneratePages(context.Background(), tilePath, layout.Range{Start: 1, End: 3}, dir)
	if !errors.Is(err, ErrLocked) {
		t.Errorf("error: got %v, want ErrLocked", err)
	}
}

func TestGeneratePages_Canceled(t *testing.T) {
	dir := t.TempDir()
	tilePath := writeTile(t, dir, 60, 40, color.White)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestLabeler(t, testOptions()).GeneratePages(ctx, tilePath, layout.Range{Start: 1, End: 30}, dir)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error: got %v, want context.Canceled", err)
	}
	if res != nil && len(res.Pages) != 0 {
		t.Errorf("pages written after cancel: %d", len(res.Pages))
	}
}

func TestRenderPage_CenteredOnPhysicalPage(t *testing.T) {
	opts := testOptions()
	opts.PageSize = image.Pt(600, 400)
	l := newTestLabeler(t, opts)

	tile := image.NewRGBA(image.Rect(0, 0, 100, 60))
	canvas, geom, texts := l.RenderPage(tile, layout.Chunk{Index: 1, Start: 1, End: 9})

	if canvas.Bounds().Size() != opts.PageSize {
		t.Errorf("canvas: got %v, want %v", canvas.Bounds().Size(), opts.PageSize)
	}
	grid := opts.Grid.Size(100, 60)
	if want := layout.Margins(opts.PageSize, grid); geom.Offset != want {
		t.Errorf("offset: got %v, want %v", geom.Offset, want)
	}
	if got := geom.CellRect(0).Min; got != image.Pt(geom.Offset.X+10, geom.Offset.Y+10) {
		t.Errorf("first cell origin: got %v", got)
	}
	if len(texts) != 9 {
		t.Errorf("texts: got %d, want 9", len(texts))
	}
}

func TestRenderPage_ShrinksOversizedTile(t *testing.T) {
	opts := testOptions()
	opts.PageSize = image.Pt(300, 300)
	l := newTestLabeler(t, opts)

	tile := image.NewRGBA(image.Rect(0, 0, 400, 200))
	canvas, geom, _ := l.RenderPage(tile, layout.Chunk{Index: 1, Start: 1, End: 2})

	if canvas.Bounds().Size() != opts.PageSize {
		t.Errorf("canvas: got %v, want %v", canvas.Bounds().Size(), opts.PageSize)
	}
	if geom.Tile.X >= 400 {
		t.Errorf("tile not shrunk: %v", geom.Tile)
	}
	last := geom.CellRect(8)
	if !last.In(canvas.Bounds()) {
		t.Errorf("last cell %v outside canvas %v", last, canvas.Bounds())
	}
}

func TestRenderPage_Unnumbered(t *testing.T) {
	opts := testOptions()
	opts.Unnumbered = true
	l := newTestLabeler(t, opts)

	_, _, texts := l.RenderPage(image.NewRGBA(image.Rect(0, 0, 50, 50)), layout.Chunk{Index: 1, Start: 1, End: 4})
	if len(texts) != 0 {
		t.Errorf("unnumbered sheet stamped %v", texts)
	}
}

func TestPageName(t *testing.T) {
	if got := PageName(layout.Chunk{Start: 1, End: 9}, 3); got != "page_001_009" {
		t.Errorf("PageName: got %s", got)
	}

	c, ok := ParsePageName("/tmp/out/page_010_018.png")
	if !ok || c.Start != 10 || c.End != 18 {
		t.Errorf("ParsePageName: got %+v, %v", c, ok)
	}
	for _, bad := range []string{"front_card_1.png", "page_009_001.png", "page_001.png"} {
		if _, ok := ParsePageName(bad); ok {
			t.Errorf("ParsePageName(%q) should fail", bad)
		}
	}
}

func TestNameWidth(t *testing.T) {
	tests := []struct {
		r       layout.Range
		zeroPad int
		want    int
	}{
		{layout.Range{Start: 1, End: 200}, 3, 3},
		{layout.Range{Start: 1, End: 1200}, 3, 4},
		{layout.Range{Start: 1, End: 9}, 0, 1},
	}
	for _, tt := range tests {
		if got := nameWidth(tt.r, tt.zeroPad); got != tt.want {
			t.Errorf("nameWidth(%v, %d): got %d, want %d", tt.r, tt.zeroPad, got, tt.want)
		}
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"no rows", func(o *Options) { o.Grid.Rows = 0 }},
		{"negative pad", func(o *Options) { o.ZeroPad = -1 }},
		{"no labels", func(o *Options) { o.Labels = nil }},
		{"three labels", func(o *Options) { o.Labels = append(o.Labels, imaging.Label{X: 0.5, Y: 0.5}) }},
		{"label outside tile", func(o *Options) { o.Labels[0].X = 1.5 }},
		{"bad format", func(o *Options) { o.Format = "tiff" }},
		{"negative page", func(o *Options) { o.PageSize = image.Pt(-1, 10) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			if err := opts.Validate(); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("Validate: got %v, want ErrInvalidOptions", err)
			}
		})
	}

	opts := DefaultOptions()
	opts.Fill, opts.Format = nil, ""
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate defaults: %v", err)
	}
	if opts.Fill == nil || opts.Format != imaging.FormatPNG {
		t.Error("Validate did not fill defaults")
	}
}
