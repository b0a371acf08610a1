// Package machine loads machine files: per-target TOML files carrying
// user-pinned configuration properties, such as explicit include/library
// directories for a native dependency.
package machine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Properties is the [properties] table of a machine file.
type Properties map[string]string

// File is a parsed machine file.
type File struct {
	Properties Properties `toml:"properties"`
}

// Load parses machine-file text.
func Load(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse machine file: %w", err)
	}
	if f.Properties == nil {
		f.Properties = Properties{}
	}
	return &f, nil
}

// LoadFile reads and parses the machine file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine file: %w", err)
	}
	f, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Lookup returns the property value and whether it is present.
func (p Properties) Lookup(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}
