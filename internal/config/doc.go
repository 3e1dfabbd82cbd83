// Package config loads card sheet job files.
//
// A job file describes one run: the tile, the number range, the grid, where
// numbers are stamped and how pages are written. TOML is the primary format
// (cardsheet.toml); files ending in .yaml or .yml are read as YAML with the
// same keys. Missing keys keep the values from Default.
package config
