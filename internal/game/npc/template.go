// Package npc provides enemy template definitions and per-encounter instances.
package npc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tier ranks an enemy's threat.
type Tier string

const (
	TierCommon Tier = "common"
	TierElite  Tier = "elite"
	TierBoss   Tier = "boss"
)

// BodyPart is an independently tracked hit location.
//
// Invariant: IsSevered only ever moves from false to true.
type BodyPart struct {
	ID               string  `yaml:"id" json:"id"`
	Name             string  `yaml:"name" json:"name"`
	HP               int     `yaml:"-" json:"hp"`
	MaxHP            int     `yaml:"max_hp" json:"max_hp"`
	IsSevered        bool    `yaml:"-" json:"is_severed"`
	IsVital          bool    `yaml:"vital" json:"is_vital"`
	HitChanceMod     int     `yaml:"hit_chance_mod" json:"hit_chance_mod"`
	DamageMultiplier float64 `yaml:"damage_multiplier" json:"damage_multiplier"`
}

// BaseStats are an enemy template's combat ratings.
type BaseStats struct {
	MaxHP    int `yaml:"max_hp"`
	Attack   int `yaml:"attack"`
	Defense  int `yaml:"defense"`
	Speed    int `yaml:"speed"`
	XPReward int `yaml:"xp_reward"`
}

// Template defines a reusable enemy archetype loaded from YAML.
type Template struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Tier        Tier       `yaml:"tier"`
	BaseStats   BaseStats  `yaml:"stats"`
	Parts       []BodyPart `yaml:"parts"`
	Loot        *LootTable `yaml:"loot"`
}

// Validate checks that the template satisfies basic invariants, including the
// structural ones the resolver relies on: at least one body part, at least one
// vital part, and unique part ids.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff the template is usable in an encounter.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("enemy template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("enemy template %q: name must not be empty", t.ID)
	}
	switch t.Tier {
	case TierCommon, TierElite, TierBoss:
	default:
		return fmt.Errorf("enemy template %q: tier must be common, elite or boss; got %q", t.ID, t.Tier)
	}
	if t.BaseStats.MaxHP < 1 {
		return fmt.Errorf("enemy template %q: max_hp must be >= 1", t.ID)
	}
	if t.BaseStats.Attack < 0 || t.BaseStats.Defense < 0 {
		return fmt.Errorf("enemy template %q: attack and defense must be >= 0", t.ID)
	}
	if len(t.Parts) == 0 {
		return fmt.Errorf("enemy template %q: at least one body part is required", t.ID)
	}
	seen := make(map[string]bool, len(t.Parts))
	vital := false
	for _, p := range t.Parts {
		if p.ID == "" {
			return fmt.Errorf("enemy template %q: body part id must not be empty", t.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("enemy template %q: duplicate body part %q", t.ID, p.ID)
		}
		seen[p.ID] = true
		if p.MaxHP < 1 {
			return fmt.Errorf("enemy template %q: part %q max_hp must be >= 1", t.ID, p.ID)
		}
		if p.DamageMultiplier <= 0 {
			return fmt.Errorf("enemy template %q: part %q damage_multiplier must be > 0", t.ID, p.ID)
		}
		vital = vital || p.IsVital
	}
	if !vital {
		return fmt.Errorf("enemy template %q: at least one vital body part is required", t.ID)
	}
	if t.Loot != nil {
		if err := t.Loot.Validate(); err != nil {
			return fmt.Errorf("enemy template %q: %w", t.ID, err)
		}
	}
	return nil
}

// LoadTemplateFromBytes parses a single enemy template from raw YAML bytes.
// Unknown keys are rejected and part HP starts at part max HP.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	for i := range tmpl.Parts {
		tmpl.Parts[i].HP = tmpl.Parts[i].MaxHP
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading enemy dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
