package combat

import (
	"github.com/cory-johannsen/litany/internal/game/character"
	"github.com/cory-johannsen/litany/internal/game/condition"
	"github.com/cory-johannsen/litany/internal/game/npc"
	"github.com/cory-johannsen/litany/internal/game/skill"
)

// ApplySkill returns new combatants with a successful skill result applied:
// mana paid, healing capped at MaxHP, and the effect stamped with effectID and
// inserted into its target's effects, replacing any effect of the same type.
//
// Precondition: res.Success is true.
// Postcondition: neither argument is modified.
func ApplySkill(player *character.Player, enemy *npc.Instance, res SkillResult, effectID string) (*character.Player, *npc.Instance) {
	nextPlayer := player.Clone()
	nextEnemy := enemy.Clone()

	nextPlayer.MP -= res.Cost
	nextPlayer.HP = min(nextPlayer.MaxHP, nextPlayer.HP+res.Heal)

	if res.Effect != nil {
		e := *res.Effect
		e.ID = effectID
		switch res.EffectTarget {
		case skill.TargetEnemy:
			nextEnemy.StatusEffects = condition.Replace(nextEnemy.StatusEffects, e)
		default:
			nextPlayer.StatusEffects = condition.Replace(nextPlayer.StatusEffects, e)
		}
	}
	return nextPlayer, nextEnemy
}

// TickEffects returns new combatants with one round elapsed on every status
// effect, and the ids of effects that expired.
func TickEffects(player *character.Player, enemy *npc.Instance) (*character.Player, *npc.Instance, []string) {
	nextPlayer := player.Clone()
	nextEnemy := enemy.Clone()
	var expiredP, expiredE []string
	nextPlayer.StatusEffects, expiredP = condition.Tick(nextPlayer.StatusEffects)
	nextEnemy.StatusEffects, expiredE = condition.Tick(nextEnemy.StatusEffects)
	return nextPlayer, nextEnemy, append(expiredP, expiredE...)
}
