package inventory

import (
	"errors"
	"fmt"
)

// Kind constants for ItemDef.Kind.
const (
	KindFlask  = "flask"
	KindWeapon = "weapon"
	KindKey    = "key"
)

// Effect type constants for ItemEffect.Type.
const (
	EffectHeal        = "heal"
	EffectRestoreMind = "restore_mind"
)

// ItemEffect is what consuming one charge of an item does.
type ItemEffect struct {
	Type  string `yaml:"type"`
	Value int    `yaml:"value"`
}

// ItemDef defines the static properties of an inventory item loaded from YAML.
type ItemDef struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Kind        string      `yaml:"kind"`
	Stackable   bool        `yaml:"stackable"`
	MaxStack    int         `yaml:"max_stack"`
	WeaponRef   string      `yaml:"weapon_ref"`
	Effect      *ItemEffect `yaml:"effect"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch d.Kind {
	case KindFlask, KindWeapon, KindKey:
	default:
		errs = append(errs, fmt.Errorf("kind must be one of flask, weapon, key; got %q", d.Kind))
	}
	if d.MaxStack < 1 {
		errs = append(errs, errors.New("max_stack must be >= 1"))
	}
	if !d.Stackable && d.MaxStack != 1 {
		errs = append(errs, errors.New("max_stack must be 1 for non-stackable items"))
	}
	if d.Kind == KindWeapon && d.WeaponRef == "" {
		errs = append(errs, errors.New("weapon_ref is required when kind is weapon"))
	}
	if d.Kind == KindFlask {
		if d.Effect == nil {
			errs = append(errs, errors.New("effect is required when kind is flask"))
		} else if d.Effect.Type != EffectHeal && d.Effect.Type != EffectRestoreMind {
			errs = append(errs, fmt.Errorf("effect type must be heal or restore_mind; got %q", d.Effect.Type))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// LoadItems reads every item definition in dir.
func LoadItems(dir string) ([]*ItemDef, error) {
	return loadDir[ItemDef]("items", dir)
}
