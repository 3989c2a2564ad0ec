package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/litany/internal/game/condition"
	"github.com/cory-johannsen/litany/internal/game/npc"
)

func skeleton(t *testing.T) *npc.Template {
	t.Helper()
	reg, err := npc.LoadRegistry(enemyDir, "skeleton")
	require.NoError(t, err)
	tmpl, _ := reg.Get("skeleton")
	return tmpl
}

func TestNewInstance_Initialises(t *testing.T) {
	tmpl := skeleton(t)
	inst := npc.NewInstance(tmpl, "enc-1")

	assert.Equal(t, "enc-1", inst.InstanceID)
	assert.Equal(t, "skeleton", inst.TemplateID)
	assert.Equal(t, 50, inst.HP)
	assert.Equal(t, 50, inst.MaxHP)
	assert.Equal(t, 18, inst.Attack)
	assert.Empty(t, inst.StatusEffects)
	assert.Zero(t, inst.AttackDebuff)
	assert.Equal(t, 1.0, inst.DamageTakenMultiplier)
	require.Len(t, inst.Parts, len(tmpl.Parts))
	for _, p := range inst.Parts {
		assert.Equal(t, p.MaxHP, p.HP)
		assert.False(t, p.IsSevered)
	}
}

func TestNewInstance_DoesNotAliasTemplate(t *testing.T) {
	tmpl := skeleton(t)
	first := npc.NewInstance(tmpl, "a")
	first.Part("left_arm").HP = 0
	first.Part("left_arm").IsSevered = true

	second := npc.NewInstance(tmpl, "b")
	assert.Equal(t, 10, second.Part("left_arm").HP)
	assert.False(t, second.Part("left_arm").IsSevered)
	assert.Equal(t, 10, tmpl.Parts[2].HP)
}

func TestClone_Deep(t *testing.T) {
	inst := npc.NewInstance(skeleton(t), "a")
	inst.StatusEffects = []condition.StatusEffect{{Type: condition.Weaken, Duration: 2, Value: 25}}

	cp := inst.Clone()
	cp.Part("head").HP = 1
	cp.StatusEffects[0].Duration = 9

	assert.Equal(t, 15, inst.Part("head").HP)
	assert.Equal(t, 2, inst.StatusEffects[0].Duration)
}

func TestPart_Unknown(t *testing.T) {
	assert.Nil(t, npc.NewInstance(skeleton(t), "a").Part("tail"))
}

func TestInExecutePhase(t *testing.T) {
	inst := npc.NewInstance(skeleton(t), "a")
	assert.False(t, inst.InExecutePhase())
	for i := range inst.Parts {
		if !inst.Parts[i].IsVital {
			inst.Parts[i].IsSevered = true
		}
	}
	assert.True(t, inst.InExecutePhase())
	require.Len(t, inst.TargetableParts(), 1)
	assert.Equal(t, "head", inst.TargetableParts()[0].ID)
}

func TestHealthDescription(t *testing.T) {
	inst := npc.NewInstance(skeleton(t), "a")
	cases := []struct {
		hp   int
		want string
	}{
		{50, "unharmed"},
		{45, "barely scratched"},
		{30, "lightly wounded"},
		{20, "moderately wounded"},
		{10, "heavily wounded"},
		{9, "critically wounded"},
		{0, "dead"},
	}
	for _, tc := range cases {
		inst.HP = tc.hp
		assert.Equal(t, tc.want, inst.HealthDescription(), "hp=%d", tc.hp)
	}
}

func TestHealthDescription_NonEmpty_Property(t *testing.T) {
	inst := npc.NewInstance(skeleton(t), "a")
	rapid.Check(t, func(rt *rapid.T) {
		inst.HP = rapid.IntRange(-10, inst.MaxHP).Draw(rt, "hp")
		assert.NotEmpty(rt, inst.HealthDescription())
	})
}
