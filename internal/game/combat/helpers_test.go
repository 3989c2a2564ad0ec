package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/litany/internal/game/character"
	"github.com/cory-johannsen/litany/internal/game/combat"
	"github.com/cory-johannsen/litany/internal/game/dice"
	"github.com/cory-johannsen/litany/internal/game/inventory"
	"github.com/cory-johannsen/litany/internal/game/npc"
	"github.com/cory-johannsen/litany/internal/game/skill"
)

const contentRoot = "../../../content"

// Scripted draw values. A hit roll of 0 always lands, a variance draw of 10
// means +0%, and a crit roll of 99 never crits.
const (
	alwaysHit = 0
	noVar     = 10
	noCrit    = 99
)

func catalogs(t testing.TB) (*inventory.Registry, *skill.Registry) {
	t.Helper()
	items, err := inventory.Load(contentRoot, "slash")
	require.NoError(t, err)
	skills, err := skill.LoadDirectory(contentRoot + "/skills")
	require.NoError(t, err)
	return items, skills
}

func newResolver(t testing.TB, src dice.Source) *combat.Resolver {
	t.Helper()
	items, skills := catalogs(t)
	return combat.NewResolver(items, skills, src)
}

func testPlayer() *character.Player {
	return &character.Player{
		ID:      "p1",
		Name:    "Aldric",
		Class:   "knight",
		Level:   1,
		HP:      100,
		MaxHP:   100,
		MP:      50,
		MaxMP:   50,
		Attack:  12,
		Defense: 5,
		Attributes: character.Attributes{
			Vitality: 10, Strength: 10, Dexterity: 10,
			Intelligence: 8, Mind: 10, Agility: 10,
		},
		UnlockedSkills: []string{"pray", "flame_of_frenzy", "death_mark", "toxic_blade"},
		EquippedWeapon: "rusty_sword",
		Inventory:      inventory.NewBackpack(character.BackpackSlots),
	}
}

func part(id string, hp int, vital bool) npc.BodyPart {
	return npc.BodyPart{ID: id, Name: id, HP: hp, MaxHP: hp, IsVital: vital, DamageMultiplier: 1.0}
}

// dummy builds a 100 hp, 18 attack enemy with a vital head and the given
// extra parts.
func dummy(hp int, parts ...npc.BodyPart) *npc.Instance {
	tmpl := &npc.Template{
		ID:        "dummy",
		Name:      "Dummy",
		Tier:      npc.TierCommon,
		BaseStats: npc.BaseStats{MaxHP: hp, Attack: 18, Defense: 2},
		Parts:     append([]npc.BodyPart{part("head", 30, true)}, parts...),
	}
	return npc.NewInstance(tmpl, "enc")
}
