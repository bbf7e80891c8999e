// Package cache models the state of a set-associative cache: geometry
// configuration, address decomposition, the tag store, and the
// lookup/fill/evict resolution procedure.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// AddressWidth is the width of a simulated memory address in bits.
const AddressWidth = 64

// ErrGeometry reports an invalid or physically nonsensical cache
// geometry. No simulation can be constructed from such a configuration.
var ErrGeometry = errors.New("invalid cache geometry")

// Config holds the cache geometry parameters.
//
// Bit counts are carried as integers throughout; derived quantities such
// as the set count are computed by shifting, never recovered from powers
// of two through floating point.
type Config struct {
	// SetIndexBits is the number of set-index bits (s). The cache has
	// 2^s sets.
	SetIndexBits int `json:"set_index_bits"`

	// BlockOffsetBits is the number of block-offset bits (b). Each cache
	// block holds 2^b bytes.
	BlockOffsetBits int `json:"block_offset_bits"`

	// LinesPerSet is the associativity (E), the number of lines in each
	// set.
	LinesPerSet int `json:"lines_per_set"`
}

// DefaultConfig returns a small direct-mapped geometry suitable for
// walking through traces by hand: 16 sets, 64B blocks, 1 line per set.
func DefaultConfig() Config {
	return Config{
		SetIndexBits:    4,
		BlockOffsetBits: 6,
		LinesPerSet:     1,
	}
}

// NumSets returns the number of sets, 2^s.
func (c Config) NumSets() int {
	return 1 << c.SetIndexBits
}

// Validate checks that the geometry describes a constructible cache.
// All failures wrap ErrGeometry.
func (c Config) Validate() error {
	if c.SetIndexBits < 0 {
		return fmt.Errorf("%w: set_index_bits must be >= 0, got %d",
			ErrGeometry, c.SetIndexBits)
	}
	if c.BlockOffsetBits < 0 {
		return fmt.Errorf("%w: block_offset_bits must be >= 0, got %d",
			ErrGeometry, c.BlockOffsetBits)
	}
	if c.SetIndexBits >= strconv.IntSize-1 {
		// 1 << s must stay representable as an int, or the set count
		// would wrap instead of failing here.
		return fmt.Errorf("%w: set_index_bits must be < %d, got %d",
			ErrGeometry, strconv.IntSize-1, c.SetIndexBits)
	}
	if c.LinesPerSet <= 0 {
		return fmt.Errorf("%w: lines_per_set must be > 0, got %d",
			ErrGeometry, c.LinesPerSet)
	}
	if c.SetIndexBits+c.BlockOffsetBits > AddressWidth {
		return fmt.Errorf(
			"%w: set_index_bits + block_offset_bits must not exceed %d, got %d",
			ErrGeometry, AddressWidth, c.SetIndexBits+c.BlockOffsetBits)
	}
	return nil
}

// Clone returns a copy of the Config.
func (c Config) Clone() Config {
	return c
}

// LoadConfig loads a Config from a JSON file. Fields absent from the
// file keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read cache config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse cache config: %w", err)
	}

	return config, nil
}

// SaveConfig writes the Config to a JSON file.
func (c Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache config file: %w", err)
	}

	return nil
}
