package config

import (
	"github.com/ironsheep/cardsheet/internal/cards"
	"github.com/ironsheep/cardsheet/internal/document"
	"github.com/ironsheep/cardsheet/internal/imaging"
)

const (
	defaultOutputDir = "output_cards"
	defaultPage      = "none"
	defaultFill      = "black"
	defaultStroke    = "white"
	defaultBG        = "white"
)

// Default returns the 3x3 layout numbering 1..100 with two labels per card.
func Default() Config {
	opts := cards.DefaultOptions()
	return Config{
		Range: Range{Start: 1, End: 100},
		Grid:  opts.Grid,
		Labels: Labels{
			ZeroPad:   opts.ZeroPad,
			Positions: append([]imaging.Label(nil), opts.Labels...),
			Fill:      defaultFill,
			Stroke:    defaultStroke,
		},
		Output: Output{
			Dir:        defaultOutputDir,
			Format:     string(opts.Format),
			DPI:        opts.DPI,
			Page:       defaultPage,
			Background: defaultBG,
			Prefix:     document.DefaultPrefix,
			Document:   cards.DefaultDeckDocument,
		},
		Font: Font{
			Names: append([]string(nil), opts.FontNames...),
		},
	}
}
