// Command cardsheet prints numbered card sheets.
//
// It stamps a range of numbers onto copies of a tile image, lays the copies
// out on printable pages, merges pages into PDFs and proofs the result with
// OCR. Run "cardsheet serve" to expose the same operations to MCP clients
// over stdio.
//
//	cardsheet generate --tile back.png --start 1 --end 200
//	cardsheet combine output_cards
//	cardsheet deck --front front.png --back back.png --start 1 --end 54
//	cardsheet verify --tile back.png output_cards/page_001_009.png
//
// Every command reads an optional job file (--config, TOML or YAML); flags
// override it. Logs go to stderr; set CARDSHEET_LOG_LEVEL=debug or pass
// --verbose for detail.
package main
