// Package gameserver exposes the combat engine over gRPC and drives
// encounters for remote presentation clients.
package gameserver

import (
	"fmt"

	"github.com/cory-johannsen/litany/internal/config"
	"github.com/cory-johannsen/litany/internal/game/character"
	"github.com/cory-johannsen/litany/internal/game/inventory"
	"github.com/cory-johannsen/litany/internal/game/npc"
	"github.com/cory-johannsen/litany/internal/game/skill"
)

// Catalog bundles every definition table loaded at startup.
type Catalog struct {
	Items   *inventory.Registry
	Skills  *skill.Registry
	Enemies *npc.Registry
	Classes map[string]*character.ClassDef
}

// LoadCatalog loads all content tables rooted at cfg.Dir.
//
// Postcondition: Returns a fully cross-validated Catalog or a non-nil error.
func LoadCatalog(cfg config.ContentConfig) (*Catalog, error) {
	items, err := inventory.Load(cfg.Dir, cfg.DefaultAttack)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	skills, err := skill.LoadDirectory(cfg.Path(config.ContentSkills))
	if err != nil {
		return nil, fmt.Errorf("loading skills: %w", err)
	}
	enemies, err := npc.LoadRegistry(cfg.Path(config.ContentEnemies), cfg.FallbackEnemy)
	if err != nil {
		return nil, fmt.Errorf("loading enemies: %w", err)
	}
	classes, err := character.LoadClasses(cfg.Path(config.ContentClasses))
	if err != nil {
		return nil, fmt.Errorf("loading classes: %w", err)
	}

	c := &Catalog{Items: items, Skills: skills, Enemies: enemies, Classes: classes}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate checks references that cross table boundaries.
func (c *Catalog) validate() error {
	for _, cls := range c.Classes {
		if c.Items.Weapon(cls.StartingWeapon) == nil {
			return fmt.Errorf("class %q: unknown starting weapon %q", cls.ID, cls.StartingWeapon)
		}
		if cls.StarterSkill != "" {
			if _, ok := c.Skills.Get(cls.StarterSkill); !ok {
				return fmt.Errorf("class %q: unknown starter skill %q", cls.ID, cls.StarterSkill)
			}
		}
	}
	for _, id := range c.Enemies.IDs() {
		tmpl, _ := c.Enemies.Get(id)
		if tmpl.Loot == nil {
			continue
		}
		for _, drop := range tmpl.Loot.Items {
			if _, ok := c.Items.Item(drop.ItemID); !ok {
				return fmt.Errorf("enemy %q: loot references unknown item %q", id, drop.ItemID)
			}
		}
	}
	return nil
}
