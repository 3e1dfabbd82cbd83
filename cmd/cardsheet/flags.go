package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/cardsheet/internal/config"
	"github.com/ironsheep/cardsheet/internal/imaging"
)

// jobFlags override the job file. Only flags given on the command line are
// applied.
type jobFlags struct {
	start    int
	end      int
	outDir   string
	rows     int
	columns  int
	spacing  int
	zeroPad  int
	labels   []string
	page     string
	format   string
	quality  int
	dpi      float64
	fontSize float64
	fonts    []string
	fill     string
	stroke   string
}

func (f *jobFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.start, "start", 0, "First number to stamp")
	flags.IntVar(&f.end, "end", 0, "Last number to stamp (inclusive)")
	flags.StringVarP(&f.outDir, "out", "o", "", "Output folder")
	flags.IntVar(&f.rows, "rows", 0, "Grid rows per page")
	flags.IntVar(&f.columns, "columns", 0, "Grid columns per page")
	flags.IntVar(&f.spacing, "spacing", 0, "Pixels between tiles and around the edge")
	flags.IntVar(&f.zeroPad, "zero-pad", 0, "Minimum digits of a stamped number")
	flags.StringArrayVar(&f.labels, "label", nil, "Stamp position X,Y[,STROKE] relative to the tile; repeat for a second label")
	flags.StringVar(&f.page, "page", "", "Physical page: letter, legal, a4, none or WIDTHxHEIGHT")
	flags.StringVar(&f.format, "format", "", "Page format: png, jpeg or pdf")
	flags.IntVar(&f.quality, "quality", 0, "JPEG quality (1-100)")
	flags.Float64Var(&f.dpi, "dpi", 0, "Pixels per inch for PDF pages")
	flags.Float64Var(&f.fontSize, "font-size", 0, "Font size in pixels (default 6% of the tile width)")
	flags.StringSliceVar(&f.fonts, "font", nil, "Font files or names to try, in order")
	flags.StringVar(&f.fill, "fill", "", "Number color")
	flags.StringVar(&f.stroke, "stroke", "", "Outline color")
}

// apply copies the base job and overlays the changed flags.
func (f *jobFlags) apply(cmd *cobra.Command, base *config.Config) (*config.Config, error) {
	cfg := *base
	changed := cmd.Flags().Changed

	if changed("start") {
		cfg.Range.Start = f.start
	}
	if changed("end") {
		cfg.Range.End = f.end
	}
	if changed("out") {
		cfg.Output.Dir = f.outDir
	}
	if changed("rows") {
		cfg.Grid.Rows = f.rows
	}
	if changed("columns") {
		cfg.Grid.Columns = f.columns
	}
	if changed("spacing") {
		cfg.Grid.Spacing = f.spacing
	}
	if changed("zero-pad") {
		cfg.Labels.ZeroPad = f.zeroPad
	}
	if changed("label") {
		positions, err := parseLabels(f.labels)
		if err != nil {
			return nil, err
		}
		cfg.Labels.Positions = positions
	}
	if changed("page") {
		cfg.Output.Page = f.page
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("quality") {
		cfg.Output.Quality = f.quality
	}
	if changed("dpi") {
		cfg.Output.DPI = f.dpi
	}
	if changed("font-size") {
		cfg.Font.Size = f.fontSize
	}
	if changed("font") {
		cfg.Font.Names = f.fonts
	}
	if changed("fill") {
		cfg.Labels.Fill = f.fill
	}
	if changed("stroke") {
		cfg.Labels.Stroke = f.stroke
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// parseLabels reads "X,Y" or "X,Y,STROKE" entries.
func parseLabels(values []string) ([]imaging.Label, error) {
	labels := make([]imaging.Label, 0, len(values))
	for _, v := range values {
		parts := strings.Split(v, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("label %q: want X,Y or X,Y,STROKE", v)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("label %q: coordinates must be numbers", v)
		}
		l := imaging.Label{X: x, Y: y}
		if len(parts) == 3 {
			sw, err := strconv.Atoi(strings.TrimSpace(parts[2]))
			if err != nil {
				return nil, fmt.Errorf("label %q: stroke must be an integer", v)
			}
			l.StrokeWidth = sw
		}
		labels = append(labels, l)
	}
	return labels, nil
}
