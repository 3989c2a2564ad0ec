package npc

import (
	"github.com/cory-johannsen/litany/internal/game/condition"
)

// Instance is a per-encounter enemy built from a Template. It is discarded
// when the encounter ends and is never persisted.
type Instance struct {
	InstanceID            string                   `json:"instance_id"`
	TemplateID            string                   `json:"template_id"`
	Name                  string                   `json:"name"`
	Tier                  Tier                     `json:"tier"`
	HP                    int                      `json:"hp"`
	MaxHP                 int                      `json:"max_hp"`
	Attack                int                      `json:"attack"`
	Defense               int                      `json:"defense"`
	Speed                 int                      `json:"speed"`
	Parts                 []BodyPart               `json:"parts"`
	StatusEffects         []condition.StatusEffect `json:"status_effects"`
	AttackDebuff          int                      `json:"attack_debuff"`
	DamageTakenMultiplier float64                  `json:"damage_taken_multiplier"`
}

// NewInstance creates a fresh enemy from tmpl.
//
// Precondition: tmpl must be non-nil and valid.
// Postcondition: HP == MaxHP == tmpl.BaseStats.MaxHP; every part is a copy at
// full HP; no status effects; AttackDebuff == 0; DamageTakenMultiplier == 1.0.
func NewInstance(tmpl *Template, instanceID string) *Instance {
	parts := make([]BodyPart, len(tmpl.Parts))
	for i, p := range tmpl.Parts {
		p.HP = p.MaxHP
		p.IsSevered = false
		parts[i] = p
	}
	return &Instance{
		InstanceID:            instanceID,
		TemplateID:            tmpl.ID,
		Name:                  tmpl.Name,
		Tier:                  tmpl.Tier,
		HP:                    tmpl.BaseStats.MaxHP,
		MaxHP:                 tmpl.BaseStats.MaxHP,
		Attack:                tmpl.BaseStats.Attack,
		Defense:               tmpl.BaseStats.Defense,
		Speed:                 tmpl.BaseStats.Speed,
		Parts:                 parts,
		StatusEffects:         []condition.StatusEffect{},
		AttackDebuff:          0,
		DamageTakenMultiplier: 1.0,
	}
}

// Clone returns a deep copy of i.
//
// Postcondition: no slice in the result aliases i.
func (i *Instance) Clone() *Instance {
	cp := *i
	cp.Parts = make([]BodyPart, len(i.Parts))
	copy(cp.Parts, i.Parts)
	cp.StatusEffects = condition.Clone(i.StatusEffects)
	return &cp
}

// Part returns a pointer into i.Parts for partID, or nil.
func (i *Instance) Part(partID string) *BodyPart {
	for idx := range i.Parts {
		if i.Parts[idx].ID == partID {
			return &i.Parts[idx]
		}
	}
	return nil
}

// TargetableParts returns copies of the parts that are not yet severed.
func (i *Instance) TargetableParts() []BodyPart {
	var out []BodyPart
	for _, p := range i.Parts {
		if !p.IsSevered {
			out = append(out, p)
		}
	}
	return out
}

// InExecutePhase reports whether every non-vital part has been severed.
func (i *Instance) InExecutePhase() bool {
	for _, p := range i.Parts {
		if !p.IsVital && !p.IsSevered {
			return false
		}
	}
	return true
}

// IsDead reports whether the instance has zero or fewer hit points.
func (i *Instance) IsDead() bool {
	return i.HP <= 0
}

// HealthDescription returns a visible health state string for the HUD.
//
// Postcondition: Returns a non-empty string.
func (i *Instance) HealthDescription() string {
	if i.HP <= 0 {
		return "dead"
	}
	pct := float64(i.HP) / float64(i.MaxHP)
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
