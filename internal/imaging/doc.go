// Package imaging provides the pixel-level pieces of a card sheet: loading
// tiles, resolving fonts, stamping numbers onto tile copies, and writing
// page images.
//
// Coordinates follow the image package: (0,0) is the top-left corner, X
// grows rightward and Y downward. Label positions are relative to the tile
// (0..1) and scaled to pixels at stamp time.
//
// # Fonts
//
// FontLoader walks an ordered list of font names and falls back to the
// embedded Go Regular face, so label rendering never fails for lack of a
// system font.
//
// # Thread Safety
//
// ImageCache and FontLoader are safe for concurrent use. A font.Face is not;
// callers stamping from several goroutines need a face each.
package imaging
