package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/cardsheet/internal/cards"
	"github.com/ironsheep/cardsheet/internal/imaging"
	"github.com/ironsheep/cardsheet/internal/layout"
)

// Validate reports the first problem in c, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("%w: grid: %v", ErrInvalid, err)
	}
	if c.Labels.ZeroPad < 0 {
		return fmt.Errorf("%w: labels.zero_pad must not be negative", ErrInvalid)
	}
	if n := len(c.Labels.Positions); n == 0 || n > 2 {
		return fmt.Errorf("%w: labels.positions needs one or two entries, got %d", ErrInvalid, n)
	}
	for i, p := range c.Labels.Positions {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			return fmt.Errorf("%w: labels.positions[%d] (%.2f,%.2f) outside 0..1", ErrInvalid, i, p.X, p.Y)
		}
		if p.StrokeWidth < 0 {
			return fmt.Errorf("%w: labels.positions[%d].stroke_width must not be negative", ErrInvalid, i)
		}
	}
	for key, s := range map[string]string{
		"labels.fill":       c.Labels.Fill,
		"labels.stroke":     c.Labels.Stroke,
		"output.background": c.Output.Background,
	} {
		if _, err := imaging.ParseColor(s); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
		}
	}
	if _, err := imaging.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format: %v", ErrInvalid, err)
	}
	if c.Output.Quality < 0 || c.Output.Quality > 100 {
		return fmt.Errorf("%w: output.quality must be 0..100, got %d", ErrInvalid, c.Output.Quality)
	}
	if c.Output.DPI < 0 {
		return fmt.Errorf("%w: output.dpi must not be negative", ErrInvalid)
	}
	if _, err := c.PageSize(); err != nil {
		return fmt.Errorf("%w: output.page: %v", ErrInvalid, err)
	}
	if c.Font.Size < 0 {
		return fmt.Errorf("%w: font.size must not be negative", ErrInvalid)
	}
	return nil
}

// NumberRange returns the configured range.
func (c *Config) NumberRange() layout.Range {
	return layout.Range{Start: c.Range.Start, End: c.Range.End}
}

// CardOptions converts the job into labeler options. c must be valid.
func (c *Config) CardOptions(logger *zap.Logger) (cards.Options, error) {
	opts := cards.DefaultOptions()
	opts.Grid = c.Grid
	opts.ZeroPad = c.Labels.ZeroPad
	opts.Labels = append([]imaging.Label(nil), c.Labels.Positions...)
	opts.Quality = c.Output.Quality
	opts.FontSize = c.Font.Size
	opts.Logger = logger
	if c.Output.DPI > 0 {
		opts.DPI = c.Output.DPI
	}
	if len(c.Font.Names) > 0 {
		opts.FontNames = append([]string(nil), c.Font.Names...)
	}

	var err error
	if opts.Format, err = imaging.ParseFormat(c.Output.Format); err != nil {
		return opts, fmt.Errorf("%w: output.format: %v", ErrInvalid, err)
	}
	if opts.PageSize, err = c.PageSize(); err != nil {
		return opts, fmt.Errorf("%w: output.page: %v", ErrInvalid, err)
	}
	if opts.Fill, err = imaging.ParseColor(c.Labels.Fill); err != nil {
		return opts, fmt.Errorf("%w: labels.fill: %v", ErrInvalid, err)
	}
	if opts.Stroke, err = imaging.ParseColor(c.Labels.Stroke); err != nil {
		return opts, fmt.Errorf("%w: labels.stroke: %v", ErrInvalid, err)
	}
	if opts.Background, err = imaging.ParseColor(c.Output.Background); err != nil {
		return opts, fmt.Errorf("%w: output.background: %v", ErrInvalid, err)
	}

	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return opts, nil
}
