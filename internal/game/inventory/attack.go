package inventory

import (
	"errors"
	"fmt"
)

// AttackKind selects which player stat drives an attack's base damage.
type AttackKind string

const (
	// AttackPhysical scales from the player's attack rating.
	AttackPhysical AttackKind = "physical"
	// AttackMagic scales from twice the player's intelligence.
	AttackMagic AttackKind = "magic"
)

// AttackDef is a weapon attack catalog entry.
type AttackDef struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Kind        AttackKind `yaml:"kind"`
	DamageMult  float64    `yaml:"damage_mult"`
	AccuracyMod int        `yaml:"accuracy_mod"`
	CritMod     int        `yaml:"crit_mod"`
	Animation   string     `yaml:"animation"`
}

// IsMagic reports whether the attack scales from intelligence.
func (a *AttackDef) IsMagic() bool {
	return a.Kind == AttackMagic
}

// Validate checks that the AttackDef satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (a *AttackDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if a.Kind != AttackPhysical && a.Kind != AttackMagic {
		errs = append(errs, fmt.Errorf("kind must be physical or magic; got %q", a.Kind))
	}
	if a.DamageMult <= 0 {
		errs = append(errs, errors.New("damage_mult must be > 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("attack %q: %w", a.ID, errors.Join(errs...))
	}
	return nil
}

// LoadAttacks reads every attack definition in dir.
func LoadAttacks(dir string) ([]*AttackDef, error) {
	return loadDir[AttackDef]("attacks", dir)
}
