package cards

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"

	"github.com/ironsheep/cardsheet/internal/imaging"
	"github.com/ironsheep/cardsheet/internal/layout"
)

// ErrInvalidOptions wraps every options validation failure.
var ErrInvalidOptions = errors.New("invalid card options")

// Options configures a labeling run. Start from DefaultOptions and override
// what differs.
type Options struct {
	Grid layout.Grid

	// ZeroPad is the minimum digit count of a stamped number.
	ZeroPad int

	// Labels are the one or two points where each number is stamped.
	Labels []imaging.Label

	// PageSize is the physical page in pixels. When set, tiles are shrunk
	// until the grid fits and the grid is centered on the page. Zero means
	// the page is exactly the grid.
	PageSize image.Point

	Format imaging.Format

	// Quality is the JPEG quality (1-100); zero selects 95.
	Quality int

	// DPI converts pixels to points for PDF output.
	DPI float64

	// FontNames is the fallback chain tried before the built-in face.
	FontNames []string

	// FontSize in pixels; zero derives it from the tile width.
	FontSize float64

	Fill       color.Color
	Stroke     color.Color
	Background color.Color

	// Unnumbered pastes plain tiles, for the front side of a deck.
	Unnumbered bool

	// OnPage is called after each page is written.
	OnPage func(Page)

	Logger *zap.Logger
}

// DefaultOptions returns the 3x3 sheet layout with two labels per card.
func DefaultOptions() Options {
	return Options{
		Grid:    layout.Grid{Rows: 3, Columns: 3, Spacing: 20},
		ZeroPad: 3,
		Labels: []imaging.Label{
			{X: 0.10, Y: 0.66, StrokeWidth: 2},
			{X: 0.77, Y: 0.73, StrokeWidth: 3},
		},
		Format:     imaging.FormatPNG,
		DPI:        300,
		FontNames:  append([]string(nil), imaging.DefaultFontNames...),
		Fill:       color.Black,
		Stroke:     color.White,
		Background: color.White,
	}
}

// LetterPage is US Letter at 300 DPI.
var LetterPage = image.Point{X: 2550, Y: 3300}

// Validate checks the options and fills zero-valued colors and format.
func (o *Options) Validate() error {
	if err := o.Grid.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.ZeroPad < 0 {
		return fmt.Errorf("%w: zero pad must not be negative, got %d", ErrInvalidOptions, o.ZeroPad)
	}
	if !o.Unnumbered {
		if len(o.Labels) == 0 || len(o.Labels) > 2 {
			return fmt.Errorf("%w: want one or two label positions, got %d", ErrInvalidOptions, len(o.Labels))
		}
	}
	for i, l := range o.Labels {
		if l.X < 0 || l.X > 1 || l.Y < 0 || l.Y > 1 {
			return fmt.Errorf("%w: label %d position (%.2f,%.2f) outside 0..1", ErrInvalidOptions, i+1, l.X, l.Y)
		}
		if l.StrokeWidth < 0 {
			return fmt.Errorf("%w: label %d stroke width must not be negative", ErrInvalidOptions, i+1)
		}
	}
	if o.PageSize.X < 0 || o.PageSize.Y < 0 {
		return fmt.Errorf("%w: page size %v must not be negative", ErrInvalidOptions, o.PageSize)
	}
	if o.FontSize < 0 {
		return fmt.Errorf("%w: font size must not be negative", ErrInvalidOptions)
	}

	f, err := imaging.ParseFormat(string(o.Format))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	o.Format = f

	if o.Fill == nil {
		o.Fill = color.Black
	}
	if o.Stroke == nil {
		o.Stroke = color.White
	}
	if o.Background == nil {
		o.Background = color.White
	}
	if o.DPI <= 0 {
		o.DPI = 300
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return nil
}
