package server

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ironsheep/cardsheet/internal/cards"
	"github.com/ironsheep/cardsheet/internal/config"
	"github.com/ironsheep/cardsheet/internal/document"
	"github.com/ironsheep/cardsheet/internal/imaging"
	"github.com/ironsheep/cardsheet/internal/layout"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "cards_generate_pages").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Builds a job from the optional job file and the overrides
//  3. Calls the cards, document or imaging package
//  4. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Card Sheets
	case "cards_generate_pages":
		return s.handleGeneratePages(ctx, args)
	case "cards_combine_pages":
		return s.handleCombinePages(ctx, args)
	case "cards_generate_deck":
		return s.handleGenerateDeck(ctx, args)
	case "cards_verify_page":
		return s.handleVerifyPage(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Card Sheet Handlers ===

// layoutArgs are the overrides accepted by every sheet tool. Pointers
// distinguish an explicit zero from an absent value.
type layoutArgs struct {
	Config   string          `json:"config"`
	Rows     *int            `json:"rows"`
	Columns  *int            `json:"columns"`
	Spacing  *int            `json:"spacing"`
	ZeroPad  *int            `json:"zero_pad"`
	Labels   []imaging.Label `json:"labels"`
	Page     string          `json:"page"`
	FontSize *float64        `json:"font_size"`
	Fill     string          `json:"fill"`
	Stroke   string          `json:"stroke"`
	Format   string          `json:"format"`
	Start    *int            `json:"start"`
	End      *int            `json:"end"`
	Output   string          `json:"output_dir"`
}

// job merges the overrides onto the job file, or onto the defaults.
func (a *layoutArgs) job() (*config.Config, error) {
	cfg := config.Default()
	if a.Config != "" {
		loaded, err := config.Load(a.Config)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if a.Rows != nil {
		cfg.Grid.Rows = *a.Rows
	}
	if a.Columns != nil {
		cfg.Grid.Columns = *a.Columns
	}
	if a.Spacing != nil {
		cfg.Grid.Spacing = *a.Spacing
	}
	if a.ZeroPad != nil {
		cfg.Labels.ZeroPad = *a.ZeroPad
	}
	if len(a.Labels) > 0 {
		cfg.Labels.Positions = a.Labels
	}
	if a.Page != "" {
		cfg.Output.Page = a.Page
	}
	if a.FontSize != nil {
		cfg.Font.Size = *a.FontSize
	}
	if a.Fill != "" {
		cfg.Labels.Fill = a.Fill
	}
	if a.Stroke != "" {
		cfg.Labels.Stroke = a.Stroke
	}
	if a.Format != "" {
		cfg.Output.Format = a.Format
	}
	if a.Start != nil {
		cfg.Range.Start = *a.Start
	}
	if a.End != nil {
		cfg.Range.End = *a.End
	}
	if a.Output != "" {
		cfg.Output.Dir = a.Output
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Server) labeler(cfg *config.Config) (*cards.Labeler, error) {
	opts, err := cfg.CardOptions(s.log)
	if err != nil {
		return nil, err
	}
	l, err := cards.NewLabeler(opts)
	if err != nil {
		return nil, err
	}
	return l.WithCache(s.cache).WithFonts(s.fonts), nil
}

type generatePagesArgs struct {
	layoutArgs
	Tile string `json:"tile"`
}

func (s *Server) handleGeneratePages(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a generatePagesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.job()
	if err != nil {
		return nil, err
	}
	tile := a.Tile
	if tile == "" {
		tile = cfg.Tile.Path
	}
	if tile == "" {
		return nil, fmt.Errorf("tile is required")
	}

	l, err := s.labeler(cfg)
	if err != nil {
		return nil, err
	}
	return l.GeneratePages(ctx, tile, cfg.NumberRange(), cfg.Output.Dir)
}

type combinePagesArgs struct {
	Folder string  `json:"folder"`
	Prefix string  `json:"prefix"`
	Output string  `json:"output"`
	DPI    float64 `json:"dpi"`
}

// combineResult reports an empty folder as zero pages rather than null.
type combineResult struct {
	*document.CombineResult
	Message string `json:"message,omitempty"`
}

func (s *Server) handleCombinePages(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a combinePagesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Folder == "" {
		return nil, fmt.Errorf("folder is required")
	}

	res, err := document.Combine(ctx, document.CombineOptions{
		Folder: a.Folder,
		Prefix: a.Prefix,
		Output: a.Output,
		DPI:    a.DPI,
		Logger: s.log,
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return &combineResult{
			CombineResult: &document.CombineResult{Pages: []string{}},
			Message:       "no matching page images found",
		}, nil
	}
	return &combineResult{CombineResult: res}, nil
}

type generateDeckArgs struct {
	layoutArgs
	Front    string `json:"front"`
	Back     string `json:"back"`
	Document string `json:"document"`
}

func (s *Server) handleGenerateDeck(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a generateDeckArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.job()
	if err != nil {
		return nil, err
	}
	front, back := a.Front, a.Back
	if front == "" {
		front = cfg.Tile.Front
	}
	if back == "" {
		back = cfg.Tile.Path
	}
	if front == "" || back == "" {
		return nil, fmt.Errorf("front and back tiles are required")
	}
	doc := a.Document
	if doc == "" {
		doc = cfg.Output.Document
	}

	l, err := s.labeler(cfg)
	if err != nil {
		return nil, err
	}
	return l.GenerateDeck(ctx, front, back, cfg.NumberRange(), cfg.Output.Dir, doc)
}

type verifyPageArgs struct {
	layoutArgs
	Page     string `json:"page"`
	Tile     string `json:"tile"`
	Language string `json:"language"`
}

func (s *Server) handleVerifyPage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a verifyPageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Page == "" {
		return nil, fmt.Errorf("page is required")
	}

	chunk, ok := cards.ParsePageName(a.Page)
	if a.Start != nil && a.End != nil {
		chunk, ok = layout.Chunk{Index: 1, Start: *a.Start, End: *a.End}, true
	}
	if !ok {
		return nil, fmt.Errorf("cannot infer the number range from %q; pass start and end", filepath.Base(a.Page))
	}

	cfg, err := a.job()
	if err != nil {
		return nil, err
	}
	tile := a.Tile
	if tile == "" {
		tile = cfg.Tile.Path
	}
	if tile == "" {
		return nil, fmt.Errorf("tile is required")
	}
	l, err := s.labeler(cfg)
	if err != nil {
		return nil, err
	}

	reader, err := s.newReader(a.Language)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	// Sheets are rewritten between runs; never proof a cached copy.
	s.cache.Evict(a.Page)
	defer s.cache.Evict(a.Page)
	return l.Verify(ctx, a.Page, tile, chunk, reader)
}
