package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// layoutProperties are the sheet options shared by the generating and
// verifying tools. Each overrides the job file, or the built-in default when
// no job file is given.
func layoutProperties() map[string]interface{} {
	return map[string]interface{}{
		"config": map[string]interface{}{
			"type":        "string",
			"description": "Optional path to a TOML or YAML job file supplying defaults",
		},
		"rows": map[string]interface{}{
			"type":        "integer",
			"description": "Grid rows per page (default 3)",
			"minimum":     1,
		},
		"columns": map[string]interface{}{
			"type":        "integer",
			"description": "Grid columns per page (default 3)",
			"minimum":     1,
		},
		"spacing": map[string]interface{}{
			"type":        "integer",
			"description": "Pixels between tiles and around the edge (default 20)",
			"minimum":     0,
		},
		"zero_pad": map[string]interface{}{
			"type":        "integer",
			"description": "Minimum digits of a stamped number (default 3)",
			"minimum":     0,
		},
		"labels": map[string]interface{}{
			"type":        "array",
			"description": "One or two stamp positions relative to the tile (0..1). Default (0.10,0.66) and (0.77,0.73)",
			"maxItems":    2,
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x":            map[string]interface{}{"type": "number"},
					"y":            map[string]interface{}{"type": "number"},
					"offset_y":     map[string]interface{}{"type": "integer"},
					"stroke_width": map[string]interface{}{"type": "integer"},
				},
				"required": []string{"x", "y"},
			},
		},
		"page": map[string]interface{}{
			"type":        "string",
			"description": "Physical page: 'letter', 'legal', 'a4', 'none' or WIDTHxHEIGHT in pixels. Tiles shrink to fit and the grid is centered",
		},
		"font_size": map[string]interface{}{
			"type":        "number",
			"description": "Font size in pixels (default 6% of the tile width, at least 12)",
		},
		"fill": map[string]interface{}{
			"type":        "string",
			"description": "Number color as a name or #RRGGBB (default black)",
		},
		"stroke": map[string]interface{}{
			"type":        "string",
			"description": "Outline color as a name or #RRGGBB (default white)",
		},
	}
}

func withProperties(props map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. Use this to inspect a tile before generating sheets.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Card Sheets
		{
			Name:        "cards_generate_pages",
			Description: "Stamp sequential numbers onto copies of a tile and lay them out as printable sheets named page_<start>_<end>. The last sheet is left partly blank when the range does not fill it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(layoutProperties(), map[string]interface{}{
					"tile": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the tile image",
					},
					"start": map[string]interface{}{
						"type":        "integer",
						"description": "First number to stamp",
					},
					"end": map[string]interface{}{
						"type":        "integer",
						"description": "Last number to stamp (inclusive)",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Folder for the sheets (default 'output_cards')",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Sheet format",
						"enum":        []string{"png", "jpeg", "pdf"},
						"default":     "png",
					},
				}),
				"required": []string{"tile", "start", "end"},
			},
		},
		{
			Name:        "cards_combine_pages",
			Description: "Combine the page images in a folder whose names start with a prefix into one multi-page PDF, in name order. Earlier PDFs matching the prefix are removed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"folder": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the folder holding the pages",
					},
					"prefix": map[string]interface{}{
						"type":        "string",
						"description": "File name prefix of the pages (default 'page_')",
						"default":     "page_",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "PDF name inside the folder (default 'all_pages.pdf')",
						"default":     "all_pages.pdf",
					},
					"dpi": map[string]interface{}{
						"type":        "number",
						"description": "Pixels per inch used to size PDF pages (default 300)",
						"default":     300,
					},
				},
				"required": []string{"folder"},
			},
		},
		{
			Name:        "cards_generate_deck",
			Description: "Print a two-sided deck: unnumbered front sheets and numbered back sheets, interleaved front/back into one PDF for duplex printing. Sheets use a letter page unless page is set; the back tile is resized to the front cell size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(layoutProperties(), map[string]interface{}{
					"front": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the front tile (not numbered)",
					},
					"back": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the back tile (numbered)",
					},
					"start": map[string]interface{}{
						"type":        "integer",
						"description": "First number to stamp",
					},
					"end": map[string]interface{}{
						"type":        "integer",
						"description": "Last number to stamp (inclusive)",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Folder for the sheets (default 'output_cards')",
					},
					"document": map[string]interface{}{
						"type":        "string",
						"description": "Interleaved PDF name (default 'cards_intercalated.pdf')",
					},
				}),
				"required": []string{"front", "back", "start", "end"},
			},
		},
		{
			Name:        "cards_verify_page",
			Description: "Proof a written sheet with OCR: read back every stamped number and check that unused cells are blank. The layout options must match the run that wrote the sheet.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(layoutProperties(), map[string]interface{}{
					"page": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the sheet image",
					},
					"tile": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the tile the sheet was made from",
					},
					"start": map[string]interface{}{
						"type":        "integer",
						"description": "First number on the sheet (default: parsed from the file name)",
					},
					"end": map[string]interface{}{
						"type":        "integer",
						"description": "Last number on the sheet (default: parsed from the file name)",
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "OCR language hint (default 'eng')",
						"default":     "eng",
					},
				}),
				"required": []string{"page", "tile"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
