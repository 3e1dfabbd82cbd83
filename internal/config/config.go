package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/cardsheet/internal/imaging"
	"github.com/ironsheep/cardsheet/internal/layout"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Tile names the card artwork.
type Tile struct {
	// Path is the numbered (back) tile.
	Path string `toml:"path" yaml:"path"`

	// Front is the unnumbered tile of a two-sided deck.
	Front string `toml:"front" yaml:"front"`
}

// Range is the inclusive number range to stamp.
type Range struct {
	Start int `toml:"start" yaml:"start"`
	End   int `toml:"end" yaml:"end"`
}

// Labels controls where and how numbers are stamped.
type Labels struct {
	ZeroPad   int             `toml:"zero_pad" yaml:"zero_pad"`
	Positions []imaging.Label `toml:"positions" yaml:"positions"`
	Fill      string          `toml:"fill" yaml:"fill"`
	Stroke    string          `toml:"stroke" yaml:"stroke"`
}

// Output controls the written pages.
type Output struct {
	Dir        string  `toml:"dir" yaml:"dir"`
	Format     string  `toml:"format" yaml:"format"`
	Quality    int     `toml:"quality" yaml:"quality"`
	DPI        float64 `toml:"dpi" yaml:"dpi"`
	Page       string  `toml:"page" yaml:"page"`
	Background string  `toml:"background" yaml:"background"`
	// Prefix selects the files merged by the combine command.
	Prefix     string  `toml:"prefix" yaml:"prefix"`
	Document   string  `toml:"document" yaml:"document"`
}

// Font selects the typeface for stamped numbers.
type Font struct {
	Names []string `toml:"names" yaml:"names"`

	// Size in pixels; zero derives it from the tile width.
	Size float64 `toml:"size" yaml:"size"`
}

// Config is a complete job description.
type Config struct {
	Tile   Tile        `toml:"tile" yaml:"tile"`
	Range  Range       `toml:"range" yaml:"range"`
	Grid   layout.Grid `toml:"grid" yaml:"grid"`
	Labels Labels      `toml:"labels" yaml:"labels"`
	Output Output      `toml:"output" yaml:"output"`
	Font   Font        `toml:"font" yaml:"font"`
}

// Load reads the job file at path over Default, then normalizes and
// validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	// Arrays in the file replace the defaults rather than extend them.
	cfg.Labels.Positions = nil
	cfg.Font.Names = nil

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := decode(file, path, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(r io.Reader, path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg)
	}
}

// Write encodes cfg as TOML, or YAML when path ends in .yaml or .yml.
func (c *Config) Write(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = toml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
