package npc

import (
	"fmt"

	"github.com/cory-johannsen/litany/internal/game/dice"
)

// GoldDrop defines the range of gold an enemy drops on defeat.
type GoldDrop struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// ItemDrop defines a single item entry in a loot table. Chance is a percent.
type ItemDrop struct {
	ItemID string `yaml:"item"`
	Chance int    `yaml:"chance"`
	MinQty int    `yaml:"min_qty"`
	MaxQty int    `yaml:"max_qty"`
}

// LootTable defines the possible rewards for defeating an enemy.
type LootTable struct {
	Gold  *GoldDrop  `yaml:"gold"`
	Items []ItemDrop `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Postcondition: an empty loot table is valid.
func (lt *LootTable) Validate() error {
	if lt.Gold != nil {
		if lt.Gold.Min < 0 {
			return fmt.Errorf("loot table: gold min must be >= 0, got %d", lt.Gold.Min)
		}
		if lt.Gold.Min > lt.Gold.Max {
			return fmt.Errorf("loot table: gold min (%d) must be <= max (%d)", lt.Gold.Min, lt.Gold.Max)
		}
	}
	for i, item := range lt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if item.Chance <= 0 || item.Chance > 100 {
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 100], got %d", i, item.Chance)
		}
		if item.MinQty < 1 {
			return fmt.Errorf("loot table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		}
		if item.MinQty > item.MaxQty {
			return fmt.Errorf("loot table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	return nil
}

// LootItem is a quantity of an item awarded by a loot roll.
type LootItem struct {
	ItemDefID string
	Quantity  int
}

// LootResult holds the generated loot from a single defeat.
type LootResult struct {
	Gold  int
	Items []LootItem
}

// GenerateLoot rolls lt with src. Draws happen in table order: gold first,
// then for each item a chance draw followed by a quantity draw on success.
//
// Precondition: lt must have passed Validate().
// Postcondition: Gold is in [Gold.Min, Gold.Max] when gold is set; each
// awarded Quantity is in [MinQty, MaxQty].
func GenerateLoot(lt *LootTable, src dice.Source) LootResult {
	var result LootResult
	if lt == nil {
		return result
	}
	if lt.Gold != nil && lt.Gold.Max > 0 {
		result.Gold = dice.Between(src, lt.Gold.Min, lt.Gold.Max)
	}
	for _, item := range lt.Items {
		if dice.Percent(src) >= item.Chance {
			continue
		}
		result.Items = append(result.Items, LootItem{
			ItemDefID: item.ItemID,
			Quantity:  dice.Between(src, item.MinQty, item.MaxQty),
		})
	}
	return result
}
