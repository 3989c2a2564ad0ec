// Package character defines the player combatant, its class catalog and the
// persisted snapshot form.
package character

import (
	"github.com/cory-johannsen/litany/internal/game/condition"
	"github.com/cory-johannsen/litany/internal/game/inventory"
)

// Attributes holds the six trainable attribute scores.
type Attributes struct {
	Vitality     int `json:"vitality" yaml:"vitality"`
	Strength     int `json:"strength" yaml:"strength"`
	Dexterity    int `json:"dexterity" yaml:"dexterity"`
	Intelligence int `json:"intelligence" yaml:"intelligence"`
	Mind         int `json:"mind" yaml:"mind"`
	Agility      int `json:"agility" yaml:"agility"`
}

// AttributeNames lists the attribute keys accepted by Get, in display order.
var AttributeNames = []string{"vitality", "strength", "dexterity", "intelligence", "mind", "agility"}

// Get returns the score for the lowercase attribute name.
func (a Attributes) Get(name string) (int, bool) {
	switch name {
	case "vitality":
		return a.Vitality, true
	case "strength":
		return a.Strength, true
	case "dexterity":
		return a.Dexterity, true
	case "intelligence":
		return a.Intelligence, true
	case "mind":
		return a.Mind, true
	case "agility":
		return a.Agility, true
	}
	return 0, false
}

func (a *Attributes) add(name string, delta int) bool {
	switch name {
	case "vitality":
		a.Vitality += delta
	case "strength":
		a.Strength += delta
	case "dexterity":
		a.Dexterity += delta
	case "intelligence":
		a.Intelligence += delta
	case "mind":
		a.Mind += delta
	case "agility":
		a.Agility += delta
	default:
		return false
	}
	return true
}

// Player is the player combatant and the state carried between encounters.
//
// Combat code treats a Player as a value: the state machine swaps in a new
// clone after every applied result rather than mutating a shared one.
type Player struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	Class          string                   `json:"class"`
	Level          int                      `json:"level"`
	XP             int                      `json:"xp"`
	NextLevelXP    int                      `json:"next_level_xp"`
	Gold           int                      `json:"gold"`
	HP             int                      `json:"hp"`
	MaxHP          int                      `json:"max_hp"`
	MP             int                      `json:"mp"`
	MaxMP          int                      `json:"max_mp"`
	Attack         int                      `json:"attack"`
	Defense        int                      `json:"defense"`
	Attributes     Attributes               `json:"attributes"`
	StatusEffects  []condition.StatusEffect `json:"status_effects"`
	UnlockedSkills []string                 `json:"unlocked_skills"`
	EquippedWeapon string                   `json:"equipped_weapon"`
	Inventory      *inventory.Backpack      `json:"inventory"`
}

// Clone returns a deep copy of p.
//
// Postcondition: no slice or pointer in the result aliases p.
func (p *Player) Clone() *Player {
	cp := *p
	cp.StatusEffects = condition.Clone(p.StatusEffects)
	cp.UnlockedSkills = append([]string{}, p.UnlockedSkills...)
	if p.Inventory != nil {
		cp.Inventory = p.Inventory.Clone()
	}
	return &cp
}

// Attribute returns the named attribute score, or 0 for an unknown name.
func (p *Player) Attribute(name string) int {
	v, _ := p.Attributes.Get(name)
	return v
}

// IsDead reports whether the player has no hit points left.
func (p *Player) IsDead() bool {
	return p.HP <= 0
}

// HasSkill reports whether skillID is unlocked.
func (p *Player) HasSkill(skillID string) bool {
	for _, id := range p.UnlockedSkills {
		if id == skillID {
			return true
		}
	}
	return false
}
