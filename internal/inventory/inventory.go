// Package inventory creates the set of pieces of a match: the standard Hive set or sets
// described in YAML files.
package inventory

import (
	"bytes"
	"fmt"
	"io"
	"os"

	. "github.com/janpfeifer/hiveboard/internal/state"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StandardCounts is the number of pieces of each type each player has in the base game.
var StandardCounts = map[PieceType]int{
	QUEEN:       1,
	BEETLE:      2,
	GRASSHOPPER: 3,
	SPIDER:      2,
	ANT:         3,
}

// File is the YAML representation of an inventory.
//
// Pieces are registered in order, then for each color the pieces in Counts, by type
// (in the order of state.Pieces). Counted pieces are named in the usual notation:
// color letter, type letter and, if there is more than one of the type, a number ("wQ", "bA2").
type File struct {
	Pieces []PieceEntry `yaml:"pieces"`

	// Counts maps a piece type (name or letter) to the number of pieces each color gets.
	Counts map[string]int `yaml:"counts"`
}

// PieceEntry describes one piece in an inventory File.
type PieceEntry struct {
	Name  string    `yaml:"name"`
	Type  PieceType `yaml:"type"`
	Color string    `yaml:"color"`
}

// Standard returns a new registry with the pieces of the base game for both players.
func Standard() *Registry {
	registry := NewRegistry()
	for _, color := range Colors {
		for _, pieceType := range Pieces {
			if err := addCounted(registry, color, pieceType, StandardCounts[pieceType]); err != nil {
				// Only fails if the standard set doesn't fit in the registry.
				panic(err)
			}
		}
	}
	return registry
}

// Load reads an inventory YAML file and returns the corresponding registry.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read inventory file %q", path)
	}
	registry, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "inventory file %q", path)
	}
	return registry, nil
}

// Parse an inventory in YAML and returns the corresponding registry. Unknown fields are errors.
func Parse(data []byte) (*Registry, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to parse inventory")
	}
	return file.Registry()
}

// Registry creates the registry with the pieces described in the file.
func (f *File) Registry() (*Registry, error) {
	registry := NewRegistry()
	for ii, entry := range f.Pieces {
		color, err := ColorString(entry.Color)
		if err != nil {
			return nil, errors.Wrapf(err, "piece #%d (%q) has an invalid color", ii, entry.Name)
		}
		if _, err = registry.Add(entry.Name, entry.Type, color); err != nil {
			return nil, errors.WithMessagef(err, "piece #%d", ii)
		}
	}

	counts := make(map[PieceType]int, len(f.Counts))
	for key, count := range f.Counts {
		pieceType, err := ParsePieceType(key)
		if err != nil {
			return nil, errors.WithMessage(err, "invalid counts")
		}
		if count < 0 {
			return nil, errors.Errorf("invalid count %d for %s", count, pieceType)
		}
		if _, found := counts[pieceType]; found {
			return nil, errors.Errorf("count for %s given more than once", pieceType)
		}
		counts[pieceType] = count
	}
	for _, color := range Colors {
		for _, pieceType := range Pieces {
			if err := addCounted(registry, color, pieceType, counts[pieceType]); err != nil {
				return nil, err
			}
		}
	}
	if registry.Len() == 0 {
		return nil, errors.New("inventory has no pieces")
	}
	return registry, nil
}

// addCounted registers count pieces of the given color and type, named in the usual notation.
func addCounted(registry *Registry, color Color, pieceType PieceType, count int) error {
	prefix := color.Letter() + pieceType.Letter()
	for ii := range count {
		name := prefix
		if count > 1 {
			name = fmt.Sprintf("%s%d", prefix, ii+1)
		}
		if _, err := registry.Add(name, pieceType, color); err != nil {
			return errors.WithMessagef(err, "adding %d %s for %s", count, pieceType, color)
		}
	}
	return nil
}
