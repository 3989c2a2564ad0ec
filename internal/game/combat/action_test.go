package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/litany/internal/game/combat"
)

func TestParseAction(t *testing.T) {
	cases := []struct {
		id   string
		want combat.Action
	}{
		{"slash|head", combat.Action{Kind: combat.ActionAttack, AttackID: "slash", PartID: "head"}},
		{"heavy|left_arm", combat.Action{Kind: combat.ActionAttack, AttackID: "heavy", PartID: "left_arm"}},
		{"skill:pray", combat.Action{Kind: combat.ActionSkill, SkillID: "pray"}},
	}
	for _, tc := range cases {
		got, err := combat.ParseAction(tc.id)
		require.NoError(t, err, tc.id)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.id, got.ID())
	}
}

func TestParseAction_Malformed(t *testing.T) {
	for _, id := range []string{"", "slash", "slash|", "|head", "a|b|c", "skill:", "skill:a|b", "skill:a:b"} {
		_, err := combat.ParseAction(id)
		assert.ErrorIs(t, err, combat.ErrMalformedAction, "id %q", id)
	}
}

func TestActionKind_String(t *testing.T) {
	assert.Equal(t, "attack", combat.ActionAttack.String())
	assert.Equal(t, "skill", combat.ActionSkill.String())
	assert.Equal(t, "unknown", combat.ActionUnknown.String())
	assert.Empty(t, combat.Action{}.ID())
}

func TestPhase_String(t *testing.T) {
	want := map[combat.Phase]string{
		combat.PhaseUnknown:      "unknown",
		combat.PhasePlayerTurn:   "player_turn",
		combat.PhasePlayerActing: "player_acting",
		combat.PhaseEnemyTurn:    "enemy_turn",
		combat.PhaseEnemyActing:  "enemy_acting",
		combat.PhaseVictory:      "victory",
		combat.PhaseDefeat:       "defeat",
	}
	for p, s := range want {
		assert.Equal(t, s, p.String())
		assert.Equal(t, p == combat.PhaseVictory || p == combat.PhaseDefeat, p.IsTerminal())
	}
}
