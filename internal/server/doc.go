// Package server implements the MCP (Model Context Protocol) server for card
// sheet tools.
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image information:
//   - image_load: Load a tile and report its metadata
//   - image_dimensions: Get width and height
//
// Card sheets:
//   - cards_generate_pages: Stamp a number range onto sheets of tiles
//   - cards_combine_pages: Merge page images into one PDF
//   - cards_generate_deck: Print fronts and numbered backs, interleaved
//   - cards_verify_page: Read the numbers back from a sheet with OCR
//
// The sheet tools accept an optional job file (see package config) and
// per-call overrides of the grid, labels and page size.
//
// # Image Caching
//
// Tiles are cached by path for the lifetime of the process, so repeated
// runs over one tile decode it once. Sheets being verified are always
// reloaded from disk.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data.
//
// # Usage
//
//	srv := server.New(logger)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal("server failed", zap.Error(err))
//	}
package server
