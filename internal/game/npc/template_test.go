package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/litany/internal/game/npc"
)

const enemyDir = "../../../content/enemies"

const sampleYAML = `
id: rat
name: Plague Rat
tier: common
stats:
  max_hp: 12
  attack: 4
parts:
  - id: head
    name: Head
    max_hp: 4
    vital: true
    hit_chance_mod: -10
    damage_multiplier: 1.5
  - id: tail
    name: Tail
    max_hp: 3
    damage_multiplier: 1.0
`

func TestLoadTemplateFromBytes(t *testing.T) {
	tmpl, err := npc.LoadTemplateFromBytes([]byte(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "rat", tmpl.ID)
	assert.Equal(t, npc.TierCommon, tmpl.Tier)
	require.Len(t, tmpl.Parts, 2)
	assert.True(t, tmpl.Parts[0].IsVital)
	assert.Equal(t, 4, tmpl.Parts[0].HP, "part hp starts at max")
	assert.Equal(t, -10, tmpl.Parts[0].HitChanceMod)
}

func TestLoadTemplateFromBytes_RejectsUnknownField(t *testing.T) {
	_, err := npc.LoadTemplateFromBytes([]byte(sampleYAML + "armor_class: 12\n"))
	assert.Error(t, err)
}

func TestValidate_Structural(t *testing.T) {
	base := func() *npc.Template {
		tmpl, err := npc.LoadTemplateFromBytes([]byte(sampleYAML))
		require.NoError(t, err)
		return tmpl
	}

	noParts := base()
	noParts.Parts = nil
	assert.ErrorContains(t, noParts.Validate(), "at least one body part")

	noVital := base()
	noVital.Parts[0].IsVital = false
	assert.ErrorContains(t, noVital.Validate(), "vital")

	dup := base()
	dup.Parts[1].ID = "head"
	assert.ErrorContains(t, dup.Validate(), "duplicate")

	badTier := base()
	badTier.Tier = "legendary"
	assert.Error(t, badTier.Validate())

	badMult := base()
	badMult.Parts[1].DamageMultiplier = 0
	assert.Error(t, badMult.Validate())
}

func TestLoadTemplates_Content(t *testing.T) {
	templates, err := npc.LoadTemplates(enemyDir)
	require.NoError(t, err)
	require.Len(t, templates, 3)
	for _, tmpl := range templates {
		assert.NoError(t, tmpl.Validate(), tmpl.ID)
	}
}

func TestRegistry_GetOrFallback(t *testing.T) {
	reg, err := npc.LoadRegistry(enemyDir, "skeleton")
	require.NoError(t, err)
	assert.Equal(t, []string{"bone_knight", "ghoul", "skeleton"}, reg.IDs())

	tmpl, found := reg.GetOrFallback("ghoul")
	assert.True(t, found)
	assert.Equal(t, "ghoul", tmpl.ID)

	tmpl, found = reg.GetOrFallback("lich")
	assert.False(t, found)
	assert.Equal(t, "skeleton", tmpl.ID)
	assert.Equal(t, 50, tmpl.BaseStats.MaxHP)
}

func TestRegistry_UnknownFallback(t *testing.T) {
	_, err := npc.LoadRegistry(enemyDir, "lich")
	assert.ErrorIs(t, err, npc.ErrUnknownTemplate)
}
