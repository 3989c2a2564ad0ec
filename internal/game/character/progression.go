package character

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/litany/internal/game/inventory"
	"github.com/cory-johannsen/litany/internal/game/skill"
)

var (
	// ErrInsufficientGold is returned when a level costs more than the player carries.
	ErrInsufficientGold = errors.New("insufficient gold")
	// ErrUnknownAttribute is returned for an attribute name outside AttributeNames.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrNoCharges is returned when consuming an item the player does not carry.
	ErrNoCharges = errors.New("no charges left")
	// ErrNotConsumable is returned when consuming an item without an effect.
	ErrNotConsumable = errors.New("item is not consumable")
)

// LevelCost returns the gold needed to advance from level to level+1.
//
// Precondition: level >= 1.
func LevelCost(level int) int {
	return int(math.Floor(100 * math.Pow(1.1, float64(level-1))))
}

// GrantRewards adds encounter rewards to p.
func (p *Player) GrantRewards(xp, gold int) {
	p.XP += xp
	p.Gold += gold
}

// LevelUp spends LevelCost(p.Level) gold to raise attribute by one point.
// Vitality also raises MaxHP by 10 and strength raises Attack by 2.
//
// Postcondition: on error p is unchanged.
func (p *Player) LevelUp(attribute string) error {
	cost := LevelCost(p.Level)
	if p.Gold < cost {
		return fmt.Errorf("%w: level %d costs %d, have %d", ErrInsufficientGold, p.Level+1, cost, p.Gold)
	}
	if !p.Attributes.add(attribute, 1) {
		return fmt.Errorf("%w %q", ErrUnknownAttribute, attribute)
	}
	switch attribute {
	case "vitality":
		p.MaxHP += 10
	case "strength":
		p.Attack += 2
	}
	p.Gold -= cost
	p.Level++
	p.NextLevelXP = LevelCost(p.Level)
	return nil
}

// Rest restores hit points and mana to their maxima and clears status effects.
func (p *Player) Rest() {
	p.HP = p.MaxHP
	p.MP = p.MaxMP
	p.StatusEffects = nil
}

// Consume uses one charge of itemID from the player's backpack.
//
// Postcondition: on error p is unchanged.
func (p *Player) Consume(itemID string, reg *inventory.Registry) error {
	def, ok := reg.Item(itemID)
	if !ok {
		return fmt.Errorf("consume: %w %q", inventory.ErrUnknownItem, itemID)
	}
	if def.Effect == nil {
		return fmt.Errorf("consume: %w: %q", ErrNotConsumable, itemID)
	}
	if p.Inventory == nil || p.Inventory.Count(itemID) == 0 {
		return fmt.Errorf("consume: %w: %q", ErrNoCharges, itemID)
	}
	if err := p.Inventory.Remove(itemID, 1); err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	switch def.Effect.Type {
	case inventory.EffectHeal:
		p.HP = min(p.MaxHP, p.HP+def.Effect.Value)
	case inventory.EffectRestoreMind:
		p.MP = min(p.MaxMP, p.MP+def.Effect.Value)
	}
	return nil
}

// UnlockSkill spends the skill's unlock cost in XP and learns it.
//
// Postcondition: on error p is unchanged; the error wraps one of the
// skill package sentinels.
func (p *Player) UnlockSkill(id string, reg *skill.Registry) error {
	if err := reg.CanUnlock(id, p.Class, p.UnlockedSkills, p.XP); err != nil {
		return err
	}
	def, _ := reg.Get(id)
	p.XP -= def.UnlockCost
	p.UnlockedSkills = append(p.UnlockedSkills, id)
	return nil
}
