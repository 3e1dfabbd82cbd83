// Package layout holds the arithmetic behind a card sheet: where each cell
// of a grid sits on the page, how an inclusive number range is split into
// page-sized chunks, and how a grid is centered on a larger physical page.
//
// Nothing here touches pixels. The cards package uses these values to
// position tile copies on a canvas.
package layout
