package config

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/cardsheet/internal/cards"
)

// Named page sizes at 300 DPI.
var pageSizes = map[string]image.Point{
	"none":   {},
	"letter": cards.LetterPage,
	"legal":  {X: 2550, Y: 4200},
	"a4":     {X: 2480, Y: 3508},
}

func (c *Config) normalize() error {
	var err error
	if c.Tile.Path, err = expandPath(c.Tile.Path); err != nil {
		return fmt.Errorf("tile.path: %w", err)
	}
	if c.Tile.Front, err = expandPath(c.Tile.Front); err != nil {
		return fmt.Errorf("tile.front: %w", err)
	}
	if c.Output.Dir, err = expandPath(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	if c.Output.Dir == "" {
		c.Output.Dir = defaultOutputDir
	}

	c.Output.Format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Output.Format), "."))
	c.Output.Page = strings.ToLower(strings.TrimSpace(c.Output.Page))
	if c.Output.Page == "" {
		c.Output.Page = defaultPage
	}

	c.Labels.Fill = strings.TrimSpace(c.Labels.Fill)
	if c.Labels.Fill == "" {
		c.Labels.Fill = defaultFill
	}
	c.Labels.Stroke = strings.TrimSpace(c.Labels.Stroke)
	if c.Labels.Stroke == "" {
		c.Labels.Stroke = defaultStroke
	}
	c.Output.Background = strings.TrimSpace(c.Output.Background)
	if c.Output.Background == "" {
		c.Output.Background = defaultBG
	}

	def := Default()
	if len(c.Labels.Positions) == 0 {
		c.Labels.Positions = def.Labels.Positions
	}
	var names []string
	for _, n := range c.Font.Names {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		names = def.Font.Names
	}
	c.Font.Names = names
	return nil
}

// PageSize resolves Output.Page: a named size, "none", or WIDTHxHEIGHT in
// pixels.
func (c *Config) PageSize() (image.Point, error) {
	return ParsePageSize(c.Output.Page)
}

// ParsePageSize accepts a named size ("letter", "legal", "a4", "none") or
// WIDTHxHEIGHT in pixels.
func ParsePageSize(s string) (image.Point, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return image.Point{}, nil
	}
	if p, ok := pageSizes[s]; ok {
		return p, nil
	}
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return image.Point{}, fmt.Errorf("unknown page size %q", s)
	}
	x, errW := strconv.Atoi(strings.TrimSpace(w))
	y, errH := strconv.Atoi(strings.TrimSpace(h))
	if errW != nil || errH != nil || x <= 0 || y <= 0 {
		return image.Point{}, fmt.Errorf("page size %q must be WIDTHxHEIGHT in pixels", s)
	}
	return image.Point{X: x, Y: y}, nil
}

func expandPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Clean(p), nil
}
