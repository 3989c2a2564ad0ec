package skill

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when a skill id is not registered.
	ErrNotFound = errors.New("skill not found")
	// ErrAlreadyUnlocked is returned when the skill is already unlocked.
	ErrAlreadyUnlocked = errors.New("skill already unlocked")
	// ErrWrongClass is returned when the skill belongs to another class.
	ErrWrongClass = errors.New("skill belongs to another class")
	// ErrMissingPrerequisite is returned when a required skill is not unlocked.
	ErrMissingPrerequisite = errors.New("missing prerequisite skill")
	// ErrInsufficientPoints is returned when the player cannot pay the unlock cost.
	ErrInsufficientPoints = errors.New("insufficient points")
)

// Registry holds all known skill Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register validates d and adds it to the registry.
//
// Postcondition: Get(d.ID) returns d; returns an error on duplicate or invalid defs.
func (r *Registry) Register(d *Def) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, exists := r.defs[d.ID]; exists {
		return fmt.Errorf("skill: Registry.Register: id %q already registered", d.ID)
	}
	r.defs[d.ID] = d
	return nil
}

// Get returns the Def for id.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered Def sorted by ID.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ForClass returns the skills a class can learn, sorted by ID. Skills with no
// required class are available to everyone.
func (r *Registry) ForClass(classID string) []*Def {
	var out []*Def
	for _, d := range r.All() {
		if d.RequiredClass == "" || d.RequiredClass == classID {
			out = append(out, d)
		}
	}
	return out
}

// CanUnlock reports whether a player of classID holding unlocked skills and
// points unspent points may unlock id.
//
// Postcondition: returns nil, or an error wrapping one of the package sentinels.
func (r *Registry) CanUnlock(id, classID string, unlocked []string, points int) error {
	d, ok := r.defs[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if slices.Contains(unlocked, id) {
		return fmt.Errorf("%w: %q", ErrAlreadyUnlocked, id)
	}
	if d.RequiredClass != "" && d.RequiredClass != classID {
		return fmt.Errorf("%w: %q requires %s", ErrWrongClass, id, d.RequiredClass)
	}
	for _, req := range d.Requires {
		if !slices.Contains(unlocked, req) {
			return fmt.Errorf("%w: %q requires %q", ErrMissingPrerequisite, id, req)
		}
	}
	if points < d.UnlockCost {
		return fmt.Errorf("%w: %q costs %d, have %d", ErrInsufficientPoints, id, d.UnlockCost, points)
	}
	return nil
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def, and
// returns a populated Registry. Unknown YAML keys are rejected.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading skill dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := reg.Register(&def); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
	}
	for _, d := range reg.defs {
		for _, req := range d.Requires {
			if _, ok := reg.defs[req]; !ok {
				return nil, fmt.Errorf("skill %q requires unknown skill %q", d.ID, req)
			}
		}
	}
	return reg, nil
}
