package inventory

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrUnknownAttack is returned when a weapon references an unregistered attack.
var ErrUnknownAttack = errors.New("unknown attack")

// Registry holds all loaded attack, weapon, and item definitions indexed by ID.
// It is read-only once loading completes.
type Registry struct {
	attacks       map[string]*AttackDef
	weapons       map[string]*WeaponDef
	items         map[string]*ItemDef
	defaultAttack string
}

// NewRegistry returns an empty Registry whose fallback attack is defaultAttack.
//
// Postcondition: all internal maps are initialised.
func NewRegistry(defaultAttack string) *Registry {
	return &Registry{
		attacks:       make(map[string]*AttackDef),
		weapons:       make(map[string]*WeaponDef),
		items:         make(map[string]*ItemDef),
		defaultAttack: defaultAttack,
	}
}

// RegisterAttack adds a to the registry.
//
// Precondition:  a must not be nil.
// Postcondition: returns error if a.ID already registered.
func (r *Registry) RegisterAttack(a *AttackDef) error {
	if _, exists := r.attacks[a.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterAttack: attack ID %q already registered", a.ID)
	}
	r.attacks[a.ID] = a
	return nil
}

// RegisterWeapon adds w to the registry. Every attack w offers must already be registered.
//
// Precondition:  w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w.ID already registered.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	for _, id := range w.Attacks {
		if _, ok := r.attacks[id]; !ok {
			return fmt.Errorf("inventory: weapon %q: %w %q", w.ID, ErrUnknownAttack, id)
		}
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterItem adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterItem: item ID %q already registered", d.ID)
	}
	if d.Kind == KindWeapon {
		if _, ok := r.weapons[d.WeaponRef]; !ok {
			return fmt.Errorf("inventory: item %q references unknown weapon %q", d.ID, d.WeaponRef)
		}
	}
	r.items[d.ID] = d
	return nil
}

// LookupAttack returns the AttackDef for id without falling back.
func (r *Registry) LookupAttack(id string) (*AttackDef, bool) {
	a, ok := r.attacks[id]
	return a, ok
}

// Attack returns the AttackDef for id, or the default attack when id is
// unknown. found reports whether id itself was registered.
//
// Precondition: the default attack is registered (guaranteed by Load).
func (r *Registry) Attack(id string) (def *AttackDef, found bool) {
	if a, ok := r.attacks[id]; ok {
		return a, true
	}
	return r.attacks[r.defaultAttack], false
}

// DefaultAttack returns the fallback attack ID.
func (r *Registry) DefaultAttack() string {
	return r.defaultAttack
}

// Weapon returns the WeaponDef for the given id, or nil if not found.
func (r *Registry) Weapon(id string) *WeaponDef {
	return r.weapons[id]
}

// WeaponAttacks returns the attack defs offered by weaponID, in content order.
// An unknown weapon offers only the default attack.
func (r *Registry) WeaponAttacks(weaponID string) []*AttackDef {
	w, ok := r.weapons[weaponID]
	if !ok {
		a, _ := r.Attack(r.defaultAttack)
		return []*AttackDef{a}
	}
	out := make([]*AttackDef, 0, len(w.Attacks))
	for _, id := range w.Attacks {
		out = append(out, r.attacks[id])
	}
	return out
}

// WeaponOffers reports whether weaponID offers attackID.
func (r *Registry) WeaponOffers(weaponID, attackID string) bool {
	for _, a := range r.WeaponAttacks(weaponID) {
		if a != nil && a.ID == attackID {
			return true
		}
	}
	return false
}

// Item returns the ItemDef for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	d, ok := r.items[id]
	return d, ok
}

// Load builds a Registry from the attacks, weapons and items subdirectories of
// root. Attacks load first so weapon references can be checked.
//
// Postcondition: the default attack is registered, or an error is returned.
func Load(root, defaultAttack string) (*Registry, error) {
	reg := NewRegistry(defaultAttack)

	attacks, err := LoadAttacks(filepath.Join(root, "attacks"))
	if err != nil {
		return nil, err
	}
	for _, a := range attacks {
		if err := reg.RegisterAttack(a); err != nil {
			return nil, err
		}
	}
	if _, ok := reg.attacks[defaultAttack]; !ok {
		return nil, fmt.Errorf("inventory: default attack %w %q", ErrUnknownAttack, defaultAttack)
	}

	weapons, err := LoadWeapons(filepath.Join(root, "weapons"))
	if err != nil {
		return nil, err
	}
	for _, w := range weapons {
		if err := reg.RegisterWeapon(w); err != nil {
			return nil, err
		}
	}

	items, err := LoadItems(filepath.Join(root, "items"))
	if err != nil {
		return nil, err
	}
	for _, d := range items {
		if err := reg.RegisterItem(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
