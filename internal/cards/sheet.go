package cards

import (
	"image"
	"image/draw"

	dimaging "github.com/disintegration/imaging"

	"github.com/ironsheep/cardsheet/internal/imaging"
	"github.com/ironsheep/cardsheet/internal/layout"
)

// Geometry is the resolved pixel layout of one sheet.
type Geometry struct {
	Grid layout.Grid `json:"grid"`

	// Tile is the size of every cell after fitting to the page.
	Tile image.Point `json:"tile"`

	// Canvas is the page image size.
	Canvas image.Point `json:"canvas"`

	// Offset centers the grid on the canvas.
	Offset image.Point `json:"offset"`
}

// NewGeometry lays out grid for tiles of size tile on a page of size page.
// A zero page makes the canvas exactly the grid size.
func NewGeometry(grid layout.Grid, tile, page image.Point) Geometry {
	fitted := grid.FitTile(tile, page)
	size := grid.Size(fitted.X, fitted.Y)

	canvas := size
	if page.X > 0 && page.Y > 0 {
		canvas = page
		if size.X > canvas.X {
			canvas.X = size.X
		}
		if size.Y > canvas.Y {
			canvas.Y = size.Y
		}
	}

	return Geometry{
		Grid:   grid,
		Tile:   fitted,
		Canvas: canvas,
		Offset: layout.Margins(canvas, size),
	}
}

// CellRect is the canvas rectangle covered by cell i.
func (g Geometry) CellRect(i int) image.Rectangle {
	min := g.Grid.CellOrigin(i, g.Tile.X, g.Tile.Y).Add(g.Offset)
	return image.Rectangle{Min: min, Max: min.Add(g.Tile)}
}

// sheet renders pages from one prepared tile.
type sheet struct {
	geom     Geometry
	tile     image.Image
	style    imaging.TextStyle
	labels   []imaging.Label
	numbered bool
	zeroPad  int
	bg       image.Image
	fontName string
}

func (l *Labeler) newSheet(tile image.Image, numbered bool) *sheet {
	b := tile.Bounds()
	return l.layoutSheet(tile, numbered, NewGeometry(l.opts.Grid, image.Pt(b.Dx(), b.Dy()), l.opts.PageSize))
}

// layoutSheet prepares tile for an already resolved geometry, resizing it
// to geom.Tile when the sizes differ.
func (l *Labeler) layoutSheet(tile image.Image, numbered bool, geom Geometry) *sheet {
	b := tile.Bounds()
	if geom.Tile.X != b.Dx() || geom.Tile.Y != b.Dy() {
		tile = dimaging.Resize(tile, geom.Tile.X, geom.Tile.Y, dimaging.Lanczos)
	}

	s := &sheet{
		geom:     geom,
		tile:     tile,
		labels:   l.opts.Labels,
		numbered: numbered,
		zeroPad:  l.opts.ZeroPad,
		bg:       image.NewUniform(l.opts.Background),
	}
	if numbered {
		size := l.opts.FontSize
		if size == 0 {
			size = imaging.DefaultFontSize(geom.Tile.X)
		}
		face, name := l.fonts.Face(l.opts.FontNames, size)
		s.style = imaging.TextStyle{Face: face, Fill: l.opts.Fill, Stroke: l.opts.Stroke}
		s.fontName = name
	}
	return s
}

// render draws the cells of chunk in row-major order. Cells past chunk.End
// stay background.
func (s *sheet) render(c layout.Chunk) (*image.NRGBA, []string) {
	canvas := image.NewNRGBA(image.Rectangle{Max: s.geom.Canvas})
	draw.Draw(canvas, canvas.Bounds(), s.bg, image.Point{}, draw.Src)

	var texts []string
	n := c.Start
	for i := 0; i < s.geom.Grid.Capacity(); i++ {
		if n > c.End {
			break
		}

		var cell image.Image = s.tile
		if s.numbered {
			text := layout.FormatNumber(n, s.zeroPad)
			cell = imaging.Stamp(s.tile, text, s.labels, s.style)
			texts = append(texts, text)
		}

		r := s.geom.CellRect(i)
		draw.Draw(canvas, r, cell, cell.Bounds().Min, draw.Over)
		n++
	}
	return canvas, texts
}
