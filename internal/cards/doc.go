// Package cards builds printable sheets of numbered cards.
//
// A Labeler takes one tile image and an inclusive number range, splits the
// range into page-sized chunks, and for each chunk draws a sheet: cells are
// filled left-to-right, top-to-bottom with a copy of the tile stamped with
// the zero-padded number at one or two relative positions. The final sheet
// is left partly blank when the range does not fill it.
//
// Sheets are written as PNG, JPEG or single-page PDF files named
// page_<start>_<end>. GenerateDeck prints the unnumbered front and numbered
// back of a two-sided deck and interleaves them into one document. Verify
// reads the numbers back from a written sheet.
//
//	opts := cards.DefaultOptions()
//	l, err := cards.NewLabeler(opts)
//	if err != nil {
//	    return err
//	}
//	res, err := l.GeneratePages(ctx, "back.png", layout.Range{Start: 1, End: 200}, "output_cards")
package cards
