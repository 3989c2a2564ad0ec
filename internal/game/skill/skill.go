// Package skill defines the castable skill catalog and the unlock rules of
// the skill tree.
package skill

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/litany/internal/game/condition"
	"github.com/cory-johannsen/litany/internal/game/dice"
)

// Target selects which combatant a skill's effect is attached to.
type Target string

const (
	TargetSelf  Target = "self"
	TargetEnemy Target = "enemy"
)

// Kind constants for Def.Kind.
const (
	KindPhysical = "physical"
	KindMagic    = "magic"
	KindUtility  = "utility"
)

// Heal describes a skill's restorative roll: Dice plus Attribute/Divisor.
type Heal struct {
	Dice      string `yaml:"dice"`
	Attribute string `yaml:"attribute"`
	Divisor   int    `yaml:"divisor"`
}

// Effect is the status effect a skill attaches on success.
type Effect struct {
	condition.Template `yaml:",inline"`
	Target             Target `yaml:"target"`
}

// Def is an immutable skill catalog entry.
type Def struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Kind          string   `yaml:"kind"`
	Animation     string   `yaml:"animation"`
	Cost          int      `yaml:"cost"`
	Heal          *Heal    `yaml:"heal"`
	Effect        *Effect  `yaml:"effect"`
	RequiredClass string   `yaml:"required_class"`
	UnlockCost    int      `yaml:"unlock_cost"`
	Requires      []string `yaml:"requires"`
}

// Validate checks that d satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch d.Kind {
	case KindPhysical, KindMagic, KindUtility:
	default:
		errs = append(errs, fmt.Errorf("kind must be one of physical, magic, utility; got %q", d.Kind))
	}
	if d.Cost < 0 {
		errs = append(errs, errors.New("cost must be >= 0"))
	}
	if d.UnlockCost < 0 {
		errs = append(errs, errors.New("unlock_cost must be >= 0"))
	}
	if d.Heal == nil && d.Effect == nil {
		errs = append(errs, errors.New("at least one of heal or effect is required"))
	}
	if d.Heal != nil {
		if _, err := dice.Parse(d.Heal.Dice); err != nil {
			errs = append(errs, fmt.Errorf("heal: %w", err))
		}
		if d.Heal.Attribute != "" && d.Heal.Divisor < 1 {
			errs = append(errs, errors.New("heal: divisor must be >= 1 when attribute is set"))
		}
	}
	if d.Effect != nil {
		if err := d.Effect.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("effect: %w", err))
		}
		if d.Effect.Target != TargetSelf && d.Effect.Target != TargetEnemy {
			errs = append(errs, fmt.Errorf("effect: target must be self or enemy; got %q", d.Effect.Target))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("skill %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}
