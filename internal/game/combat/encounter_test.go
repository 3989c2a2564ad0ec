package combat_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/litany/internal/game/character"
	"github.com/cory-johannsen/litany/internal/game/combat"
	"github.com/cory-johannsen/litany/internal/game/dice"
	"github.com/cory-johannsen/litany/internal/game/npc"
)

func newEncounter(t *testing.T, p *character.Player, e *npc.Instance, src dice.Source, opts ...combat.Option) *combat.Encounter {
	t.Helper()
	return combat.NewEncounter("enc-1", p, e, newResolver(t, src), opts...)
}

func plainSource() dice.Source {
	return dice.NewScripted(alwaysHit, noVar, noCrit)
}

func TestEncounter_StartsOnPlayerTurn(t *testing.T) {
	p := testPlayer()
	enc := newEncounter(t, p, dummy(100, part("torso", 50, false)), plainSource())

	assert.Equal(t, combat.PhasePlayerTurn, enc.Phase())
	assert.Equal(t, 1, enc.Round())
	assert.False(t, enc.AnimationPending())
	assert.Equal(t, combat.MenuMain, enc.Menu().State())
	assert.NotSame(t, p, enc.Player())
}

func TestEncounter_FullRound(t *testing.T) {
	enc := newEncounter(t, testPlayer(), dummy(100, part("torso", 50, false)), plainSource())

	sub, err := enc.SubmitAction("slash|torso")
	require.NoError(t, err)
	assert.Equal(t, combat.PhasePlayerActing, sub.Phase)
	assert.Equal(t, "attack1", sub.Animation())
	assert.Equal(t, "Hit torso for 12!", sub.Message())
	assert.True(t, enc.AnimationPending())
	assert.Equal(t, 88, enc.Enemy().HP)

	phase, moved := enc.NotifyAnimationComplete()
	assert.True(t, moved)
	assert.Equal(t, combat.PhaseEnemyTurn, phase)

	phase, moved = enc.NotifyAnimationComplete()
	assert.False(t, moved, "duplicate signal is a no-op")
	assert.Equal(t, combat.PhaseEnemyTurn, phase)

	res, err := enc.ResolveEnemyTurn()
	require.NoError(t, err)
	assert.Equal(t, 13, res.Damage)
	assert.Equal(t, combat.PhaseEnemyActing, enc.Phase())
	assert.Equal(t, 87, enc.Player().HP)

	phase, moved = enc.NotifyAnimationComplete()
	assert.True(t, moved)
	assert.Equal(t, combat.PhasePlayerTurn, phase)
	assert.Equal(t, 2, enc.Round())
	assert.Equal(t, []string{"Hit torso for 12!", "Dummy strikes for 13!"}, enc.Log())
}

func TestEncounter_SubmitOutsidePlayerTurn(t *testing.T) {
	enc := newEncounter(t, testPlayer(), dummy(100, part("torso", 50, false)), plainSource())
	_, err := enc.SubmitAction("slash|torso")
	require.NoError(t, err)

	_, err = enc.SubmitAction("slash|torso")
	assert.ErrorIs(t, err, combat.ErrWrongPhase)
	assert.Equal(t, combat.PhasePlayerActing, enc.Phase())
	assert.Equal(t, 88, enc.Enemy().HP)

	_, err = enc.ResolveEnemyTurn()
	assert.ErrorIs(t, err, combat.ErrWrongPhase)
}

func TestEncounter_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		action  string
		mp      int
		wantErr error
		wantMsg string
	}{
		{"invalid target", "slash|tail", 50, combat.ErrInvalidTarget, "Invalid Target!"},
		{"no mana", "skill:pray", 10, combat.ErrInsufficientMana, "Not enough mana"},
		{"unknown skill", "skill:smite", 50, combat.ErrUnknownSkill, "Unknown skill"},
		{"locked skill", "skill:ember", 50, combat.ErrSkillLocked, "Ember is not learned"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := testPlayer()
			p.MP = tc.mp
			enemy := dummy(100, part("torso", 50, false))
			enc := newEncounter(t, p, enemy, plainSource())

			_, err := enc.SubmitAction(tc.action)

			require.ErrorIs(t, err, tc.wantErr)
			var rej *combat.RejectedError
			require.True(t, errors.As(err, &rej))
			assert.Equal(t, tc.wantMsg, rej.Message)
			assert.Equal(t, combat.PhasePlayerTurn, enc.Phase())
			assert.False(t, enc.AnimationPending())
			assert.Equal(t, enemy, enc.Enemy())
			assert.Equal(t, tc.mp, enc.Player().MP)
			assert.Empty(t, enc.Log())
		})
	}
}

func TestEncounter_MalformedAction(t *testing.T) {
	enc := newEncounter(t, testPlayer(), dummy(100), plainSource())
	for _, id := range []string{"", "slash", "|head", "skill:", "slash|"} {
		_, err := enc.SubmitAction(id)
		assert.ErrorIs(t, err, combat.ErrMalformedAction, "id %q", id)
		var rej *combat.RejectedError
		assert.False(t, errors.As(err, &rej))
	}
	assert.Equal(t, combat.PhasePlayerTurn, enc.Phase())
}

func TestEncounter_MissConsumesTurn(t *testing.T) {
	enc := newEncounter(t, testPlayer(), dummy(100, part("torso", 50, false)), dice.NewScripted(99))

	sub, err := enc.SubmitAction("slash|torso")
	require.NoError(t, err)
	assert.False(t, sub.Attack.Hit)
	assert.Equal(t, combat.PhasePlayerActing, enc.Phase())

	phase, _ := enc.NotifyAnimationComplete()
	assert.Equal(t, combat.PhaseEnemyTurn, phase)
}

func TestEncounter_Victory(t *testing.T) {
	enc := newEncounter(t, testPlayer(), dummy(10, part("torso", 50, false)), plainSource())

	sub, err := enc.SubmitAction("slash|torso")
	require.NoError(t, err)
	assert.True(t, sub.Attack.IsFatal)
	assert.Equal(t, combat.PhasePlayerActing, enc.Phase(), "victory waits for the animation")

	phase, moved := enc.NotifyAnimationComplete()
	assert.True(t, moved)
	assert.Equal(t, combat.PhaseVictory, phase)
	assert.True(t, phase.IsTerminal())

	_, err = enc.SubmitAction("slash|torso")
	assert.ErrorIs(t, err, combat.ErrWrongPhase)
	_, err = enc.ResolveEnemyTurn()
	assert.ErrorIs(t, err, combat.ErrWrongPhase)
	_, moved = enc.NotifyAnimationComplete()
	assert.False(t, moved)
	assert.Nil(t, enc.MenuOptions())
}

func TestEncounter_Defeat(t *testing.T) {
	p := testPlayer()
	p.HP = 10
	enc := newEncounter(t, p, dummy(100, part("torso", 50, false)), dice.NewScripted(99))

	_, err := enc.SubmitAction("slash|torso")
	require.NoError(t, err)
	enc.NotifyAnimationComplete()
	res, err := enc.ResolveEnemyTurn()
	require.NoError(t, err)
	assert.True(t, res.IsFatal)
	assert.Equal(t, "Dummy strikes for 13! You have fallen.", res.Message)

	phase, _ := enc.NotifyAnimationComplete()
	assert.Equal(t, combat.PhaseDefeat, phase)
	assert.Zero(t, enc.Player().HP)
	_, err = enc.SubmitAction("slash|torso")
	assert.ErrorIs(t, err, combat.ErrWrongPhase)
}

func TestEncounter_BuffLifecycle(t *testing.T) {
	ids := 0
	gen := func() string {
		ids++
		return "fx-" + strconv.Itoa(ids)
	}
	enc := newEncounter(t, testPlayer(), dummy(100, part("torso", 50, false)), dice.NewScripted(0), combat.WithIDGenerator(gen))

	endRound := func() {
		t.Helper()
		_, moved := enc.NotifyAnimationComplete()
		require.True(t, moved)
		_, err := enc.ResolveEnemyTurn()
		require.NoError(t, err)
		_, moved = enc.NotifyAnimationComplete()
		require.True(t, moved)
		require.Equal(t, combat.PhasePlayerTurn, enc.Phase())
	}

	sub, err := enc.SubmitAction("skill:pray")
	require.NoError(t, err)
	assert.Equal(t, "pray", sub.Animation())
	effects := enc.Player().StatusEffects
	require.Len(t, effects, 1)
	assert.Equal(t, "fx-1", effects[0].ID)
	assert.Equal(t, 35, enc.Player().MP)
	endRound()
	assert.Equal(t, 2, enc.Player().StatusEffects[0].Duration)

	// Buffed: 12 at -10% variance is 10, +10% is 11, and a roll of 0 crits.
	sub, err = enc.SubmitAction("slash|torso")
	require.NoError(t, err)
	assert.Equal(t, 22, sub.Attack.Damage)
	endRound()
	assert.Equal(t, 1, enc.Player().StatusEffects[0].Duration)

	sub, err = enc.SubmitAction("slash|torso")
	require.NoError(t, err)
	assert.Equal(t, 22, sub.Attack.Damage)
	endRound()
	assert.Empty(t, enc.Player().StatusEffects)
	assert.Equal(t, 4, enc.Round())

	sub, err = enc.SubmitAction("heavy|head")
	require.NoError(t, err)
	assert.Equal(t, 32, sub.Attack.Damage, "18 at -10% is 16, doubled by the crit")
}

func TestEncounter_EnemyEffectFromSkill(t *testing.T) {
	enc := newEncounter(t, testPlayer(), dummy(100, part("torso", 50, false)), plainSource(), combat.WithIDGenerator(func() string { return "fx" }))

	_, err := enc.SubmitAction("skill:toxic_blade")
	require.NoError(t, err)
	require.Len(t, enc.Enemy().StatusEffects, 1)
	enc.NotifyAnimationComplete()

	res, err := enc.ResolveEnemyTurn()
	require.NoError(t, err)
	// 18 weakened by 25% is 13, less 5 defense.
	assert.Equal(t, 13, res.EffectiveAttack)
	assert.Equal(t, 8, res.Damage)
}

func TestEncounter_SelectMenu(t *testing.T) {
	enc := newEncounter(t, testPlayer(), dummy(100, part("torso", 50, false)), plainSource())

	opts := enc.MenuOptions()
	require.Len(t, opts, 2)
	assert.Equal(t, combat.ChoiceFight, opts[0].Choice)

	id, err := enc.SelectMenu(combat.ChoiceFight)
	require.NoError(t, err)
	assert.Empty(t, id)
	opts = enc.MenuOptions()
	require.Len(t, opts, 3)
	assert.Equal(t, "move:slash", opts[0].Choice)
	assert.Equal(t, "move:heavy", opts[1].Choice)
	assert.Equal(t, combat.ChoiceBack, opts[2].Choice)

	_, err = enc.SelectMenu("move:heavy")
	require.NoError(t, err)
	opts = enc.MenuOptions()
	require.Len(t, opts, 3)
	assert.Equal(t, "target:head", opts[0].Choice)
	assert.Equal(t, "70% to hit, 30/30", opts[0].Detail)

	id, err = enc.SelectMenu("target:torso")
	require.NoError(t, err)
	assert.Equal(t, "heavy|torso", id)
	assert.Equal(t, combat.MenuMain, enc.Menu().State())

	_, err = enc.SubmitAction(id)
	require.NoError(t, err)
	_, err = enc.SelectMenu(combat.ChoiceFight)
	assert.ErrorIs(t, err, combat.ErrWrongPhase)
	assert.Nil(t, enc.MenuOptions())
}

func TestEncounter_SkillOptionsReflectMana(t *testing.T) {
	p := testPlayer()
	p.MP = 15
	enc := newEncounter(t, p, dummy(100), plainSource())
	_, err := enc.SelectMenu(combat.ChoiceSkills)
	require.NoError(t, err)

	enabled := map[string]bool{}
	for _, o := range enc.MenuOptions() {
		enabled[o.Choice] = o.Enabled
	}
	assert.True(t, enabled["skill:pray"])
	assert.True(t, enabled["skill:death_mark"])
	assert.False(t, enabled["skill:toxic_blade"])
	assert.False(t, enabled["skill:flame_of_frenzy"])
	assert.True(t, enabled[combat.ChoiceBack])
}

func TestEncounter_MenuResetsAtTurnStart(t *testing.T) {
	enc := newEncounter(t, testPlayer(), dummy(100, part("torso", 50, false)), plainSource())
	_, err := enc.SubmitAction("slash|torso")
	require.NoError(t, err)
	enc.NotifyAnimationComplete()
	_, err = enc.ResolveEnemyTurn()
	require.NoError(t, err)
	enc.NotifyAnimationComplete()
	assert.Equal(t, combat.MenuMain, enc.Menu().State())
}

func TestEncounter_LogsTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	enc := newEncounter(t, testPlayer(), dummy(100, part("torso", 50, false)), plainSource(), combat.WithLogger(zap.New(core)))

	_, err := enc.SubmitAction("slash|torso")
	require.NoError(t, err)
	enc.NotifyAnimationComplete()

	entries := logs.FilterMessage("combat phase transition").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "player_turn", entries[0].ContextMap()["from"])
	assert.Equal(t, "enemy_turn", entries[1].ContextMap()["to"])
}

// Every operation is attempted in every phase; only the legal one for the
// phase may move it, and terminal phases absorb everything.
func TestProperty_PhaseLegality(t *testing.T) {
	items, skills := catalogs(t)
	rapid.Check(t, func(rt *rapid.T) {
		p := testPlayer()
		p.HP = rapid.IntRange(1, 100).Draw(rt, "player_hp")
		enemy := dummy(rapid.IntRange(1, 100).Draw(rt, "enemy_hp"), part("torso", 40, false), part("arm", 10, false))
		r := combat.NewResolver(items, skills, dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		enc := combat.NewEncounter("prop", p, enemy, r)

		actions := []string{"slash|torso", "heavy|arm", "slash|head", "skill:pray", "skill:death_mark", "bogus"}
		steps := rapid.IntRange(1, 60).Draw(rt, "steps")
		round := enc.Round()
		for range steps {
			before := enc.Phase()
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				_, err := enc.SubmitAction(rapid.SampledFrom(actions).Draw(rt, "action"))
				if before != combat.PhasePlayerTurn {
					assert.ErrorIs(rt, err, combat.ErrWrongPhase)
				}
				if err != nil {
					assert.Equal(rt, before, enc.Phase())
				} else {
					assert.Equal(rt, combat.PhasePlayerActing, enc.Phase())
				}
			case 1:
				_, err := enc.ResolveEnemyTurn()
				if before == combat.PhaseEnemyTurn {
					assert.NoError(rt, err)
					assert.Equal(rt, combat.PhaseEnemyActing, enc.Phase())
				} else {
					assert.ErrorIs(rt, err, combat.ErrWrongPhase)
					assert.Equal(rt, before, enc.Phase())
				}
			case 2:
				phase, moved := enc.NotifyAnimationComplete()
				if before != combat.PhasePlayerActing && before != combat.PhaseEnemyActing {
					assert.False(rt, moved)
					assert.Equal(rt, before, phase)
				}
			}
			if before.IsTerminal() {
				assert.Equal(rt, before, enc.Phase())
			}
			assert.GreaterOrEqual(rt, enc.Round(), round)
			round = enc.Round()
			assert.GreaterOrEqual(rt, enc.Player().HP, 0)
			assert.GreaterOrEqual(rt, enc.Enemy().HP, 0)
		}
	})
}

func TestEncounter_MenuOffersOnlyWeaponAttacks(t *testing.T) {
	enc := newEncounter(t, testPlayer(), dummy(100, part("torso", 50, false)), plainSource())
	_, err := enc.SelectMenu(combat.ChoiceFight)
	require.NoError(t, err)

	_, err = enc.SelectMenu("move:backstab_basic")
	assert.ErrorIs(t, err, combat.ErrMenuChoice)
	assert.Equal(t, combat.MenuMoveSelect, enc.Menu().State())
	assert.Empty(t, enc.Menu().PendingAttack())

	_, err = enc.SelectMenu("move:slash")
	require.NoError(t, err)
	assert.Equal(t, "slash", enc.Menu().PendingAttack())
}

func TestEncounter_SubmitAttackOffWeaponUsesDefault(t *testing.T) {
	enc := newEncounter(t, testPlayer(), dummy(100, part("torso", 50, false)), plainSource())

	sub, err := enc.SubmitAction("backstab_basic|torso")
	require.NoError(t, err)
	assert.Equal(t, "slash", sub.Action.AttackID)
	assert.Equal(t, "Hit torso for 12!", sub.Message())
	assert.Equal(t, 88, enc.Enemy().HP)
}

func TestEncounter_ChooseKeepsMenuOnRejection(t *testing.T) {
	enc := newEncounter(t, testPlayer(), dummy(100, part("torso", 50, false)), plainSource())

	for _, c := range []string{combat.ChoiceFight, "move:heavy"} {
		sub, err := enc.Choose(c)
		require.NoError(t, err)
		assert.Nil(t, sub)
	}

	_, err := enc.Choose("target:tail")
	assert.ErrorIs(t, err, combat.ErrInvalidTarget)
	var rejected *combat.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Invalid Target!", rejected.Message)
	assert.Equal(t, combat.PhasePlayerTurn, enc.Phase())
	assert.Equal(t, combat.MenuAttackSelect, enc.Menu().State())
	assert.Equal(t, "heavy", enc.Menu().PendingAttack())

	sub, err := enc.Choose("target:torso")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, combat.PhasePlayerActing, sub.Phase)
	assert.Equal(t, combat.MenuMain, enc.Menu().State())
}

func TestEncounter_ChooseKeepsSkillScreenWithoutMana(t *testing.T) {
	p := testPlayer()
	p.MP = 10
	enc := newEncounter(t, p, dummy(100), plainSource())

	_, err := enc.Choose(combat.ChoiceSkills)
	require.NoError(t, err)
	_, err = enc.Choose("skill:pray")
	assert.ErrorIs(t, err, combat.ErrInsufficientMana)
	assert.Equal(t, combat.MenuSkillSelect, enc.Menu().State())
	assert.Equal(t, 10, enc.Player().MP)
}
