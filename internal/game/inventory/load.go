// Package inventory provides the weapon-attack, weapon and item catalogs and
// the player's backpack.
package inventory

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// validator is implemented by every catalog definition.
type validator interface {
	Validate() error
}

// loadDir reads all *.yaml and *.yml files from dir in name order, decodes
// each strictly into a fresh T and validates it.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid definitions or the first encountered error.
func loadDir[T any, PT interface {
	*T
	validator
}](kind, dir string) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load %s: cannot read directory %q: %w", kind, dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []*T
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: cannot read file %q: %w", kind, path, err)
		}
		var v T
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("load %s: cannot parse file %q: %w", kind, path, err)
		}
		if err := PT(&v).Validate(); err != nil {
			return nil, fmt.Errorf("load %s: invalid definition in %q: %w", kind, path, err)
		}
		out = append(out, &v)
	}
	return out, nil
}
