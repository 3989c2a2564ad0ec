package gameserver

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/litany/internal/game/character"
	"github.com/cory-johannsen/litany/internal/game/combat"
	"github.com/cory-johannsen/litany/internal/game/condition"
	"github.com/cory-johannsen/litany/internal/game/npc"
)

// AnimationEnemyAttack is the animation cue for the enemy's strike.
const AnimationEnemyAttack = "enemy_attack"

// Rewards is what a victory paid out.
type Rewards struct {
	XP    int
	Gold  int
	Items []npc.LootItem
	// Lost lists loot that did not fit in the backpack.
	Lost []npc.LootItem
}

// EncounterView is the presentation-facing snapshot of one encounter.
type EncounterView struct {
	SessionID        string
	EncounterID      string
	Phase            combat.Phase
	Round            int
	AnimationPending bool
	Menu             combat.MenuState
	Options          []combat.MenuOption
	Player           *character.Player
	Enemy            *npc.Instance
	EffectiveAttack  int
	Message          string
	Animation        string
	Log              []string
	Rewards          *Rewards
}

func newView(sessionID string, enc *combat.Encounter, rewards *Rewards) EncounterView {
	v := EncounterView{
		SessionID:        sessionID,
		EncounterID:      enc.ID(),
		Phase:            enc.Phase(),
		Round:            enc.Round(),
		AnimationPending: enc.AnimationPending(),
		Menu:             enc.Menu().State(),
		Options:          enc.MenuOptions(),
		Player:           enc.Player(),
		Enemy:            enc.Enemy(),
		Log:              enc.Log(),
		Rewards:          rewards,
	}
	v.EffectiveAttack = combat.EffectiveEnemyAttack(v.Enemy)
	if n := len(v.Log); n > 0 {
		v.Message = v.Log[n-1]
	}
	switch v.Phase {
	case combat.PhasePlayerActing:
		if a := enc.LastAttack(); a != nil {
			v.Animation = a.Animation
		} else if s := enc.LastSkill(); s != nil {
			v.Animation = s.Animation
		}
	case combat.PhaseEnemyActing:
		v.Animation = AnimationEnemyAttack
	}
	return v
}

// Struct encodes v as a protobuf Struct for the wire.
func (v EncounterView) Struct() (*structpb.Struct, error) {
	options := make([]any, 0, len(v.Options))
	for _, o := range v.Options {
		options = append(options, map[string]any{
			"choice":  o.Choice,
			"label":   o.Label,
			"detail":  o.Detail,
			"enabled": o.Enabled,
		})
	}
	m := map[string]any{
		"session_id":        v.SessionID,
		"encounter_id":      v.EncounterID,
		"phase":             v.Phase.String(),
		"round":             v.Round,
		"animation_pending": v.AnimationPending,
		"menu":              v.Menu.String(),
		"options":           options,
		"player":            playerFields(v.Player),
		"enemy":             enemyFields(v.Enemy, v.EffectiveAttack),
		"message":           v.Message,
		"animation":         v.Animation,
		"log":               stringList(v.Log),
	}
	if v.Rewards != nil {
		m["rewards"] = map[string]any{
			"xp":    v.Rewards.XP,
			"gold":  v.Rewards.Gold,
			"items": lootList(v.Rewards.Items),
			"lost":  lootList(v.Rewards.Lost),
		}
	}
	return structpb.NewStruct(m)
}

// PlayerStruct encodes p as a protobuf Struct for the wire.
func PlayerStruct(p *character.Player) (*structpb.Struct, error) {
	return structpb.NewStruct(playerFields(p))
}

func playerFields(p *character.Player) map[string]any {
	attrs := make(map[string]any, len(character.AttributeNames))
	for _, name := range character.AttributeNames {
		attrs[name] = p.Attribute(name)
	}
	var items []any
	if p.Inventory != nil {
		for _, it := range p.Inventory.Items {
			items = append(items, map[string]any{"item_id": it.ItemDefID, "quantity": it.Quantity})
		}
	}
	return map[string]any{
		"id":              p.ID,
		"name":            p.Name,
		"class":           p.Class,
		"level":           p.Level,
		"xp":              p.XP,
		"next_level_xp":   p.NextLevelXP,
		"gold":            p.Gold,
		"hp":              p.HP,
		"max_hp":          p.MaxHP,
		"mp":              p.MP,
		"max_mp":          p.MaxMP,
		"attack":          p.Attack,
		"defense":         p.Defense,
		"attributes":      attrs,
		"status_effects":  effectList(p.StatusEffects),
		"unlocked_skills": stringList(p.UnlockedSkills),
		"equipped_weapon": p.EquippedWeapon,
		"inventory":       items,
	}
}

func enemyFields(e *npc.Instance, effectiveAttack int) map[string]any {
	parts := make([]any, 0, len(e.Parts))
	for _, p := range e.Parts {
		parts = append(parts, map[string]any{
			"id":      p.ID,
			"name":    p.Name,
			"hp":      p.HP,
			"max_hp":  p.MaxHP,
			"severed": p.IsSevered,
			"vital":   p.IsVital,
		})
	}
	return map[string]any{
		"instance_id":             e.InstanceID,
		"template_id":             e.TemplateID,
		"name":                    e.Name,
		"tier":                    string(e.Tier),
		"hp":                      e.HP,
		"max_hp":                  e.MaxHP,
		"attack":                  e.Attack,
		"effective_attack":        effectiveAttack,
		"defense":                 e.Defense,
		"attack_debuff":           e.AttackDebuff,
		"damage_taken_multiplier": e.DamageTakenMultiplier,
		"execute_phase":           e.InExecutePhase(),
		"health":                  e.HealthDescription(),
		"parts":                   parts,
		"status_effects":          effectList(e.StatusEffects),
	}
}

func effectList(effects []condition.StatusEffect) []any {
	out := make([]any, 0, len(effects))
	for _, e := range effects {
		out = append(out, map[string]any{
			"id":       e.ID,
			"type":     string(e.Type),
			"name":     e.Name,
			"duration": e.Duration,
			"value":    e.Value,
		})
	}
	return out
}

func lootList(items []npc.LootItem) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]any{"item_id": it.ItemDefID, "quantity": it.Quantity})
	}
	return out
}

func stringList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
