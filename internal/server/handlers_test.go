package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/cardsheet/internal/cards"
	"github.com/ironsheep/cardsheet/internal/document"
	"github.com/ironsheep/cardsheet/internal/imaging"
)

// createTestImageFile writes a solid PNG into dir and returns its path
func createTestImageFile(t *testing.T, dir, name string, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// newTestServer uses only the built-in font so output does not depend on
// the host.
func newTestServer() *Server {
	s := New(nil)
	s.fonts = &imaging.FontLoader{}
	return s
}

// callTool runs a tools/call request and decodes the text content into out.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleToolsCall(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleToolsCall returned nil")
	}
	if resp.Error != nil || out == nil {
		return resp
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	text := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("decode %s result: %v\n%s", name, err, text)
	}
	return resp
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, t.TempDir(), "tile.png", 100, 80, color.RGBA{255, 0, 0, 255})

	var info imaging.ImageInfo
	resp := callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}, &info)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if info.Width != 100 || info.Height != 80 {
		t.Errorf("size: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, t.TempDir(), "tile.png", 200, 150, color.RGBA{0, 255, 0, 255})

	var dims imaging.DimensionsResult
	resp := callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}, &dims)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if dims.Width != 200 || dims.Height != 150 {
		t.Errorf("size: got %dx%d, want 200x150", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := newTestServer()

	resp := callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"}, nil)
	if resp.Error == nil {
		t.Fatal("expected error for missing file")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()

	resp := s.handleToolsCall(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{invalid`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Fatalf("expected -32602, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_GeneratePages(t *testing.T) {
	s := newTestServer()
	dir := t.TempDir()
	tile := createTestImageFile(t, dir, "back.png", 90, 60, color.RGBA{180, 200, 220, 255})
	out := filepath.Join(dir, "sheets")

	var res cards.Result
	resp := callTool(t, s, "cards_generate_pages", map[string]interface{}{
		"tile":       tile,
		"start":      1,
		"end":        10,
		"output_dir": out,
		"spacing":    0,
		"font_size":  14,
	}, &res)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	if len(res.Pages) != 2 {
		t.Fatalf("pages: got %d, want 2", len(res.Pages))
	}
	if got := filepath.Base(res.Pages[1].Path); got != "page_010_010.png" {
		t.Errorf("second page: got %s, want page_010_010.png", got)
	}
	if res.Pages[1].Cells != 1 {
		t.Errorf("second page cells: got %d, want 1", res.Pages[1].Cells)
	}
	if res.Geometry.Canvas != (image.Point{X: 270, Y: 180}) {
		t.Errorf("canvas: got %v, want 270x180", res.Geometry.Canvas)
	}
	for _, p := range res.Pages {
		if _, err := os.Stat(p.Path); err != nil {
			t.Errorf("page not written: %v", err)
		}
	}
}

func TestHandleToolsCall_GeneratePages_FromConfig(t *testing.T) {
	s := newTestServer()
	dir := t.TempDir()
	tile := createTestImageFile(t, dir, "back.png", 60, 40, color.White)
	out := filepath.Join(dir, "out")

	job := filepath.Join(dir, "job.toml")
	content := "[tile]\npath = \"" + filepath.ToSlash(tile) + "\"\n" +
		"[range]\nstart = 5\nend = 8\n" +
		"[grid]\nrows = 1\ncolumns = 2\nspacing = 4\n" +
		"[output]\ndir = \"" + filepath.ToSlash(out) + "\"\nformat = \"jpeg\"\n"
	if err := os.WriteFile(job, []byte(content), 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}

	var res cards.Result
	resp := callTool(t, s, "cards_generate_pages", map[string]interface{}{
		"config":    job,
		"start":     5,
		"end":       8,
		"font_size": 12,
	}, &res)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("pages: got %d, want 2", len(res.Pages))
	}
	if got := filepath.Base(res.Pages[0].Path); got != "page_005_006.jpg" {
		t.Errorf("first page: got %s, want page_005_006.jpg", got)
	}
}

func TestHandleToolsCall_GeneratePages_InvalidGrid(t *testing.T) {
	s := newTestServer()
	dir := t.TempDir()
	tile := createTestImageFile(t, dir, "back.png", 40, 40, color.White)

	resp := callTool(t, s, "cards_generate_pages", map[string]interface{}{
		"tile":  tile,
		"start": 1,
		"end":   3,
		"rows":  0,
	}, nil)
	if resp.Error == nil {
		t.Fatal("expected error for zero rows")
	}
}

func TestHandleToolsCall_CombinePages(t *testing.T) {
	s := newTestServer()
	dir := t.TempDir()
	createTestImageFile(t, dir, "page_001_009.png", 60, 80, color.White)
	createTestImageFile(t, dir, "page_010_010.png", 60, 80, color.White)
	createTestImageFile(t, dir, "cover.png", 60, 80, color.White)

	var res document.CombineResult
	resp := callTool(t, s, "cards_combine_pages", map[string]interface{}{"folder": dir}, &res)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("pages: got %v, want 2", res.Pages)
	}
	if !strings.HasSuffix(res.Output, "all_pages.pdf") {
		t.Errorf("output: got %s", res.Output)
	}
	if _, err := os.Stat(res.Output); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestHandleToolsCall_CombinePages_Empty(t *testing.T) {
	s := newTestServer()
	dir := t.TempDir()

	var res struct {
		Output  string   `json:"output"`
		Pages   []string `json:"pages"`
		Message string   `json:"message"`
	}
	resp := callTool(t, s, "cards_combine_pages", map[string]interface{}{"folder": dir}, &res)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if len(res.Pages) != 0 || res.Output != "" {
		t.Errorf("expected no output, got %+v", res)
	}
	if res.Message == "" {
		t.Error("expected a message for an empty folder")
	}
	if _, err := os.Stat(filepath.Join(dir, "all_pages.pdf")); !os.IsNotExist(err) {
		t.Error("no PDF should be written")
	}
}

func TestHandleToolsCall_GenerateDeck(t *testing.T) {
	s := newTestServer()
	dir := t.TempDir()
	front := createTestImageFile(t, dir, "front.png", 50, 70, color.RGBA{30, 60, 90, 255})
	back := createTestImageFile(t, dir, "back.png", 50, 70, color.RGBA{220, 220, 200, 255})
	out := filepath.Join(dir, "deck")

	var res cards.DeckResult
	resp := callTool(t, s, "cards_generate_deck", map[string]interface{}{
		"front":      front,
		"back":       back,
		"start":      1,
		"end":        12,
		"output_dir": out,
		"font_size":  12,
	}, &res)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if len(res.Fronts) != 2 || len(res.Backs) != 2 {
		t.Fatalf("sheets: got %d fronts and %d backs, want 2 each", len(res.Fronts), len(res.Backs))
	}
	if filepath.Base(res.Document) != cards.DefaultDeckDocument {
		t.Errorf("document: got %s", res.Document)
	}
}

// fakeReader reads back the queued answers in order.
type fakeReader struct {
	answers []string
	closed  bool
}

func (r *fakeReader) ReadText(img image.Image) (string, float64, error) {
	if len(r.answers) == 0 {
		return "", 0, nil
	}
	a := r.answers[0]
	r.answers = r.answers[1:]
	return a, 0.95, nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func TestHandleToolsCall_VerifyPage(t *testing.T) {
	s := newTestServer()
	reader := &fakeReader{answers: []string{"007", "007"}}
	s.newReader = func(string) (ReadCloser, error) { return reader, nil }

	dir := t.TempDir()
	tile := createTestImageFile(t, dir, "back.png", 80, 60, color.RGBA{240, 230, 200, 255})
	layout := map[string]interface{}{
		"rows":      1,
		"columns":   2,
		"spacing":   6,
		"font_size": 14,
	}

	gen := map[string]interface{}{"tile": tile, "start": 7, "end": 7, "output_dir": dir}
	for k, v := range layout {
		gen[k] = v
	}
	var res cards.Result
	if resp := callTool(t, s, "cards_generate_pages", gen, &res); resp.Error != nil {
		t.Fatalf("generate: %v", resp.Error)
	}

	verify := map[string]interface{}{"page": res.Pages[0].Path, "tile": tile}
	for k, v := range layout {
		verify[k] = v
	}
	var vr cards.VerifyResult
	if resp := callTool(t, s, "cards_verify_page", verify, &vr); resp.Error != nil {
		t.Fatalf("verify: %v", resp.Error)
	}

	if vr.Start != 7 || vr.End != 7 {
		t.Errorf("range: got %d..%d, want 7..7", vr.Start, vr.End)
	}
	if vr.Mismatches != 0 {
		t.Errorf("mismatches: got %d: %+v", vr.Mismatches, vr.Findings)
	}
	if len(vr.Findings) != 3 {
		t.Errorf("findings: got %d, want 2 labels + 1 blank cell", len(vr.Findings))
	}
	if !reader.closed {
		t.Error("reader was not closed")
	}
}

func TestHandleToolsCall_VerifyPage_UnknownRange(t *testing.T) {
	s := newTestServer()
	s.newReader = func(string) (ReadCloser, error) { return &fakeReader{}, nil }
	dir := t.TempDir()
	page := createTestImageFile(t, dir, "scan.png", 40, 40, color.White)

	resp := callTool(t, s, "cards_verify_page", map[string]interface{}{"page": page, "tile": page}, nil)
	if resp.Error == nil {
		t.Fatal("expected error when the range cannot be inferred")
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := newTestServer()

	_, err := s.executeTool(context.Background(), "unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := newTestServer()

	for _, name := range []string{"image_load", "cards_generate_pages", "cards_combine_pages", "cards_generate_deck", "cards_verify_page"} {
		if _, err := s.executeTool(context.Background(), name, json.RawMessage(`{invalid`)); err == nil {
			t.Errorf("executeTool(%s) should fail for invalid JSON", name)
		}
	}
}
