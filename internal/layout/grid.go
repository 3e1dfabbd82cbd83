package layout

import (
	"fmt"
	"image"
)

// Grid describes how tiles are arranged on a page.
//
// Tiles are placed left-to-right, top-to-bottom with Spacing pixels between
// neighbouring tiles and around the outer edge.
type Grid struct {
	Rows    int `json:"rows" toml:"rows" yaml:"rows"`
	Columns int `json:"columns" toml:"columns" yaml:"columns"`
	Spacing int `json:"spacing" toml:"spacing" yaml:"spacing"`
}

// Validate reports whether the grid shape is usable.
func (g Grid) Validate() error {
	if g.Rows < 1 || g.Columns < 1 {
		return fmt.Errorf("grid must have at least one row and column, got %dx%d", g.Rows, g.Columns)
	}
	if g.Spacing < 0 {
		return fmt.Errorf("grid spacing must not be negative, got %d", g.Spacing)
	}
	return nil
}

// Capacity is the number of cells on one page.
func (g Grid) Capacity() int {
	return g.Rows * g.Columns
}

// Size returns the pixel size of a page holding the full grid of tiles,
// including the outer spacing.
func (g Grid) Size(tileW, tileH int) image.Point {
	return image.Point{
		X: g.Columns*tileW + (g.Columns+1)*g.Spacing,
		Y: g.Rows*tileH + (g.Rows+1)*g.Spacing,
	}
}

// CellOrigin returns the top-left corner of cell i in row-major order,
// relative to the grid's own origin.
func (g Grid) CellOrigin(i, tileW, tileH int) image.Point {
	row := i / g.Columns
	col := i % g.Columns
	return image.Point{
		X: col*tileW + (col+1)*g.Spacing,
		Y: row*tileH + (row+1)*g.Spacing,
	}
}

// Margins returns the offset that centers a grid of size grid inside a
// physical page of size page. A zero page, or a page smaller than the grid,
// yields no offset on that axis.
func Margins(page, grid image.Point) image.Point {
	var m image.Point
	if page.X > grid.X {
		m.X = (page.X - grid.X) / 2
	}
	if page.Y > grid.Y {
		m.Y = (page.Y - grid.Y) / 2
	}
	return m
}

// FitTile returns the largest tile box that lets the grid fit on page.
//
// When the page is zero, or the grid already fits, the tile size is returned
// unchanged. Otherwise each tile is bounded by the page size left over after
// spacing, divided by the column and row counts, and scaled preserving its
// aspect ratio.
func (g Grid) FitTile(tile, page image.Point) image.Point {
	if page.X <= 0 || page.Y <= 0 {
		return tile
	}
	size := g.Size(tile.X, tile.Y)
	if size.X <= page.X && size.Y <= page.Y {
		return tile
	}

	maxW := (page.X - (g.Columns+1)*g.Spacing) / g.Columns
	maxH := (page.Y - (g.Rows+1)*g.Spacing) / g.Rows
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}

	// Scale by the tighter axis so the aspect ratio survives.
	scaleW := float64(maxW) / float64(tile.X)
	scaleH := float64(maxH) / float64(tile.Y)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	w := int(float64(tile.X) * scale)
	h := int(float64(tile.Y) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Point{X: w, Y: h}
}
