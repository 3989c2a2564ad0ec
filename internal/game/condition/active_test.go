package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/litany/internal/game/condition"
)

func prayer() condition.StatusEffect {
	return condition.StatusEffect{ID: "a", Type: condition.BuffDamage, Name: "Blessed", Duration: 3, Value: 10}
}

func TestReplace_SameTypeReplaces(t *testing.T) {
	first := prayer()
	second := condition.StatusEffect{ID: "b", Type: condition.BuffDamage, Name: "Frenzy", Duration: 2, Value: 25}

	got := condition.Replace([]condition.StatusEffect{first}, second)
	require.Len(t, got, 1)
	assert.Equal(t, second, got[0])
}

func TestReplace_DifferentTypeAppends(t *testing.T) {
	mark := condition.StatusEffect{ID: "m", Type: condition.Vulnerability, Duration: 3, Value: 20}
	got := condition.Replace([]condition.StatusEffect{prayer()}, mark)
	assert.Len(t, got, 2)
}

func TestReplace_DoesNotMutateInput(t *testing.T) {
	in := []condition.StatusEffect{prayer()}
	_ = condition.Replace(in, condition.StatusEffect{ID: "z", Type: condition.BuffDamage, Duration: 1, Value: 5})
	assert.Equal(t, "a", in[0].ID)
}

func TestTick_DecrementsAndExpires(t *testing.T) {
	short := condition.StatusEffect{ID: "s", Type: condition.Weaken, Duration: 1, Value: 25}
	remaining, expired := condition.Tick([]condition.StatusEffect{prayer(), short})

	require.Len(t, remaining, 1)
	assert.Equal(t, 2, remaining[0].Duration)
	assert.Equal(t, []string{"s"}, expired)
}

func TestTick_AtMostOnePerType_Property(t *testing.T) {
	types := []condition.Type{condition.BuffDamage, condition.Vulnerability, condition.Weaken}
	rapid.Check(t, func(rt *rapid.T) {
		var effects []condition.StatusEffect
		n := rapid.IntRange(0, 20).Draw(rt, "n")
		for i := 0; i < n; i++ {
			e := condition.StatusEffect{
				Type:     rapid.SampledFrom(types).Draw(rt, "type"),
				Duration: rapid.IntRange(1, 5).Draw(rt, "duration"),
			}
			effects = condition.Replace(effects, e)
			if rapid.Bool().Draw(rt, "tick") {
				effects, _ = condition.Tick(effects)
			}
		}
		seen := map[condition.Type]bool{}
		for _, e := range effects {
			assert.False(rt, seen[e.Type], "duplicate effect type %s", e.Type)
			assert.Positive(rt, e.Duration)
			seen[e.Type] = true
		}
	})
}

func TestFind(t *testing.T) {
	_, ok := condition.Find(nil, condition.Weaken)
	assert.False(t, ok)
	e, ok := condition.Find([]condition.StatusEffect{prayer()}, condition.BuffDamage)
	assert.True(t, ok)
	assert.Equal(t, 10, e.Value)
}

func TestClone_Independent(t *testing.T) {
	in := []condition.StatusEffect{prayer()}
	out := condition.Clone(in)
	out[0].Duration = 99
	assert.Equal(t, 3, in[0].Duration)
	assert.NotNil(t, condition.Clone(nil))
}
