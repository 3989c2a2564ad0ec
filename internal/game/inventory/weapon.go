package inventory

import (
	"errors"
	"fmt"
)

// WeaponDef maps a wieldable weapon to the attacks it offers in combat.
type WeaponDef struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Attacks     []string `yaml:"attacks"`
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(w.Attacks) == 0 {
		errs = append(errs, errors.New("at least one attack is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q: %w", w.ID, errors.Join(errs...))
	}
	return nil
}

// LoadWeapons reads every weapon definition in dir.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	return loadDir[WeaponDef]("weapons", dir)
}
