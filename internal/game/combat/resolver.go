package combat

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/litany/internal/game/character"
	"github.com/cory-johannsen/litany/internal/game/condition"
	"github.com/cory-johannsen/litany/internal/game/dice"
	"github.com/cory-johannsen/litany/internal/game/inventory"
	"github.com/cory-johannsen/litany/internal/game/npc"
	"github.com/cory-johannsen/litany/internal/game/skill"
)

const (
	baseAccuracy   = 90
	baseCritChance = 5
	varianceSpread = 10
	severDebuff    = 2
	severFragility = 0.2
)

// AttackResult is the outcome of one player attack. Enemy is always a fresh
// copy; the resolver never returns the instance it was given.
type AttackResult struct {
	AttackID     string
	PartID       string
	PartName     string
	Animation    string
	Hit          bool
	Invalid      bool
	IsCrit       bool
	ExecutePhase bool
	Damage       int
	PartSevered  string
	IsFatal      bool
	HitRoll      int
	HitThreshold int
	Variance     int
	Message      string
	Enemy        *npc.Instance
}

// SkillFailure classifies why a skill was not cast.
type SkillFailure int

const (
	SkillOK SkillFailure = iota
	SkillUnknown
	SkillLocked
	SkillNoMana
)

// SkillResult is the computed outcome of a skill. Nothing in it has been
// applied to either combatant.
type SkillResult struct {
	SkillID      string
	Animation    string
	Success      bool
	Failure      SkillFailure
	Message      string
	Cost         int
	Heal         int
	HealRoll     *dice.RollResult
	Effect       *condition.StatusEffect
	EffectTarget skill.Target
}

// EnemyAttackResult is the outcome of the enemy's fixed basic attack. Player
// is a fresh copy with the damage applied.
type EnemyAttackResult struct {
	EffectiveAttack int
	Damage          int
	IsFatal         bool
	Message         string
	Player          *character.Player
}

// Resolver computes combat outcomes. All methods are pure apart from drawing
// from the random source, which happens in a fixed order so a scripted source
// reproduces every result.
type Resolver struct {
	attacks *inventory.Registry
	skills  *skill.Registry
	src     dice.Source
}

// NewResolver builds a Resolver over the given catalogs.
//
// Precondition: all arguments must be non-nil.
func NewResolver(attacks *inventory.Registry, skills *skill.Registry, src dice.Source) *Resolver {
	return &Resolver{attacks: attacks, skills: skills, src: src}
}

// Attacks returns the attack catalog the resolver draws from.
func (r *Resolver) Attacks() *inventory.Registry { return r.attacks }

// Skills returns the skill catalog the resolver draws from.
func (r *Resolver) Skills() *skill.Registry { return r.skills }

// HitThreshold returns the percent chance that attack lands on part.
func HitThreshold(enemy *npc.Instance, part *npc.BodyPart, attack *inventory.AttackDef) int {
	if enemy.InExecutePhase() {
		return 100
	}
	return baseAccuracy + part.HitChanceMod + attack.AccuracyMod
}

// ResolveAttack resolves attackID against partID. Unknown attack ids resolve
// as the default attack.
//
// Draw order on a valid target: hit roll, then on a hit the variance roll and
// the crit roll.
func (r *Resolver) ResolveAttack(player *character.Player, enemy *npc.Instance, partID, attackID string) AttackResult {
	attack, _ := r.attacks.Attack(attackID)
	next := enemy.Clone()
	res := AttackResult{AttackID: attack.ID, PartID: partID, Animation: attack.Animation, Enemy: next}

	part := next.Part(partID)
	if part == nil || part.IsSevered {
		res.Invalid = true
		res.Message = "Invalid Target!"
		return res
	}
	res.PartName = part.Name
	res.ExecutePhase = next.InExecutePhase()
	res.HitThreshold = HitThreshold(next, part, attack)

	res.HitRoll = dice.Percent(r.src)
	if res.HitRoll >= res.HitThreshold {
		res.Message = fmt.Sprintf("Missed %s!", part.Name)
		return res
	}
	res.Hit = true

	base := player.Attack
	if attack.IsMagic() {
		base = player.Attributes.Intelligence * 2
	}
	dmg := scale(base, attack.DamageMult)
	res.Variance = dice.Between(r.src, -varianceSpread, varianceSpread)
	dmg = dmg * (100 + res.Variance) / 100

	dmg = condition.Amplify(dmg, condition.Percent(player.StatusEffects, condition.BuffDamage))
	dmg = condition.Amplify(dmg, condition.Percent(next.StatusEffects, condition.Vulnerability))
	dmg = scale(dmg, next.DamageTakenMultiplier)
	dmg = scale(dmg, part.DamageMultiplier)

	critChance := baseCritChance + attack.CritMod + player.Attributes.Dexterity/2
	critRoll := dice.Percent(r.src)
	if res.ExecutePhase || critRoll < critChance {
		res.IsCrit = true
		dmg *= 2
	}
	res.Damage = dmg

	part.HP = max(0, part.HP-dmg)
	next.HP = max(0, next.HP-dmg)

	if part.HP == 0 && !part.IsSevered {
		part.IsSevered = true
		res.PartSevered = part.Name
		if part.IsVital {
			next.HP = 0
		} else {
			next.AttackDebuff += severDebuff
			next.DamageTakenMultiplier += severFragility
		}
	}
	res.IsFatal = next.HP <= 0

	var msg strings.Builder
	if res.IsCrit {
		fmt.Fprintf(&msg, "CRITICAL! %s took %d!", part.Name, dmg)
	} else {
		fmt.Fprintf(&msg, "Hit %s for %d!", part.Name, dmg)
	}
	if res.PartSevered != "" {
		fmt.Fprintf(&msg, " Severed %s!", res.PartSevered)
	}
	if res.IsFatal {
		msg.WriteString(" Enemy Defeated!")
	}
	res.Message = msg.String()
	return res
}

// ResolveSkill computes the heal and effect of skillID. The only draws are the
// heal dice, and only on success.
//
// Postcondition: Success is false whenever player.MP < cost; neither argument
// is modified.
func (r *Resolver) ResolveSkill(skillID string, player *character.Player, enemy *npc.Instance) SkillResult {
	def, ok := r.skills.Get(skillID)
	if !ok {
		return SkillResult{SkillID: skillID, Failure: SkillUnknown, Message: "Unknown skill"}
	}
	if !player.HasSkill(skillID) {
		return SkillResult{SkillID: skillID, Failure: SkillLocked, Message: fmt.Sprintf("%s is not learned", def.Name)}
	}
	if player.MP < def.Cost {
		return SkillResult{SkillID: skillID, Failure: SkillNoMana, Message: "Not enough mana"}
	}

	res := SkillResult{SkillID: skillID, Animation: def.Animation, Success: true, Cost: def.Cost}
	parts := []string{def.Name + "!"}
	if def.Heal != nil {
		roll := dice.Roll(dice.MustParse(def.Heal.Dice), r.src)
		res.HealRoll = &roll
		res.Heal = roll.Total()
		if def.Heal.Attribute != "" {
			res.Heal += player.Attribute(def.Heal.Attribute) / def.Heal.Divisor
		}
		parts = append(parts, fmt.Sprintf("Restored %d HP.", res.Heal))
	}
	if def.Effect != nil {
		e := def.Effect.Instantiate()
		res.Effect = &e
		res.EffectTarget = def.Effect.Target
		who := "You gain"
		if def.Effect.Target == skill.TargetEnemy {
			who = enemy.Name + " suffers"
		}
		parts = append(parts, fmt.Sprintf("%s %s for %d turns.", who, e.Name, e.Duration))
	}
	res.Message = strings.Join(parts, " ")
	return res
}

// EffectiveEnemyAttack returns the enemy's attack after severance debuffs and
// any active weaken effect, floored at 0.
func EffectiveEnemyAttack(enemy *npc.Instance) int {
	atk := max(0, enemy.Attack-enemy.AttackDebuff)
	return condition.Diminish(atk, condition.Percent(enemy.StatusEffects, condition.Weaken))
}

// ResolveEnemyAttack resolves the enemy's single fixed attack. It draws
// nothing from the random source.
func (r *Resolver) ResolveEnemyAttack(enemy *npc.Instance, player *character.Player) EnemyAttackResult {
	next := player.Clone()
	eff := EffectiveEnemyAttack(enemy)
	dmg := max(0, eff-next.Defense)
	next.HP = max(0, next.HP-dmg)

	msg := fmt.Sprintf("%s strikes for %d!", enemy.Name, dmg)
	if dmg == 0 {
		msg = fmt.Sprintf("%s's blow glances off!", enemy.Name)
	}
	if next.HP == 0 {
		msg += " You have fallen."
	}
	return EnemyAttackResult{EffectiveAttack: eff, Damage: dmg, IsFatal: next.HP == 0, Message: msg, Player: next}
}

// scale multiplies a non-negative n by f and truncates. The epsilon absorbs
// binary representation error in multipliers such as 1.1 or 0.7.
func scale(n int, f float64) int {
	return int(float64(n)*f + 1e-9)
}
