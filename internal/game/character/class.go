package character

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/litany/internal/game/inventory"
)

// BackpackSlots is the slot count of a fresh player's backpack.
const BackpackSlots = 20

// ErrUnknownClass is returned when a class id is not registered.
var ErrUnknownClass = errors.New("unknown class")

// BaseStats are a class's starting pools and ratings.
type BaseStats struct {
	MaxHP   int `yaml:"max_hp"`
	MaxMP   int `yaml:"max_mp"`
	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`
}

// StartingItem is a quantity of an item granted on character creation.
type StartingItem struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// ClassDef is a playable class loaded from YAML.
type ClassDef struct {
	ID             string         `yaml:"id"`
	Name           string         `yaml:"name"`
	Tagline        string         `yaml:"tagline"`
	Description    string         `yaml:"description"`
	Attributes     Attributes     `yaml:"attributes"`
	Stats          BaseStats      `yaml:"stats"`
	StartingWeapon string         `yaml:"starting_weapon"`
	StarterSkill   string         `yaml:"starter_skill"`
	StartingItems  []StartingItem `yaml:"starting_items"`
}

// Validate checks that c satisfies its invariants.
func (c *ClassDef) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if c.Stats.MaxHP < 1 {
		errs = append(errs, errors.New("stats.max_hp must be >= 1"))
	}
	if c.Stats.MaxMP < 0 {
		errs = append(errs, errors.New("stats.max_mp must be >= 0"))
	}
	if c.StartingWeapon == "" {
		errs = append(errs, errors.New("starting_weapon must not be empty"))
	}
	for _, it := range c.StartingItems {
		if it.Count < 1 {
			errs = append(errs, fmt.Errorf("starting item %q: count must be >= 1", it.ID))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("class %q: %w", c.ID, errors.Join(errs...))
	}
	return nil
}

// LoadClasses reads every *.yaml file in dir and returns the classes keyed by ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a non-nil map, or an error if any file fails to parse or validate.
func LoadClasses(dir string) (map[string]*ClassDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading class dir %q: %w", dir, err)
	}
	out := make(map[string]*ClassDef)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ClassDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := out[def.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate class id %q", path, def.ID)
		}
		out[def.ID] = &def
	}
	return out, nil
}

// NewPlayer builds a fresh level-1 player of class c at full health and mana.
//
// Precondition: name must be non-empty; c and items must be non-nil.
// Postcondition: returns a Player ready for persistence, or a non-nil error.
func NewPlayer(c *ClassDef, name string, items *inventory.Registry) (*Player, error) {
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if c == nil {
		return nil, errors.New("class must not be nil")
	}
	bp := inventory.NewBackpack(BackpackSlots)
	for _, it := range c.StartingItems {
		if err := bp.Add(it.ID, it.Count, items); err != nil {
			return nil, fmt.Errorf("class %q starting items: %w", c.ID, err)
		}
	}
	p := &Player{
		ID:             uuid.New().String(),
		Name:           name,
		Class:          c.ID,
		Level:          1,
		NextLevelXP:    LevelCost(1),
		HP:             c.Stats.MaxHP,
		MaxHP:          c.Stats.MaxHP,
		MP:             c.Stats.MaxMP,
		MaxMP:          c.Stats.MaxMP,
		Attack:         c.Stats.Attack,
		Defense:        c.Stats.Defense,
		Attributes:     c.Attributes,
		UnlockedSkills: []string{},
		EquippedWeapon: c.StartingWeapon,
		Inventory:      bp,
	}
	if c.StarterSkill != "" {
		p.UnlockedSkills = append(p.UnlockedSkills, c.StarterSkill)
	}
	return p, nil
}
