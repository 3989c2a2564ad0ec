package combat

import (
	"fmt"
	"strings"
)

const skillPrefix = "skill:"

// ActionKind identifies what the player submitted.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionAttack
	ActionSkill
)

// String returns the human-readable name of the ActionKind.
func (k ActionKind) String() string {
	switch k {
	case ActionAttack:
		return "attack"
	case ActionSkill:
		return "skill"
	default:
		return "unknown"
	}
}

// Action is a decoded player action id.
type Action struct {
	Kind     ActionKind
	AttackID string
	PartID   string
	SkillID  string
}

// ID re-encodes the action in wire form.
func (a Action) ID() string {
	switch a.Kind {
	case ActionAttack:
		return AttackActionID(a.AttackID, a.PartID)
	case ActionSkill:
		return SkillActionID(a.SkillID)
	default:
		return ""
	}
}

// AttackActionID encodes an attack as "<attackId>|<partId>".
func AttackActionID(attackID, partID string) string {
	return attackID + "|" + partID
}

// SkillActionID encodes a skill as "skill:<skillId>".
func SkillActionID(skillID string) string {
	return skillPrefix + skillID
}

// ParseAction decodes "<attackId>|<partId>" or "skill:<skillId>".
//
// Postcondition: on success the relevant ids are non-empty; otherwise the
// error wraps ErrMalformedAction.
func ParseAction(id string) (Action, error) {
	if rest, ok := strings.CutPrefix(id, skillPrefix); ok {
		if rest == "" || strings.ContainsAny(rest, "|:") {
			return Action{}, fmt.Errorf("%w: %q", ErrMalformedAction, id)
		}
		return Action{Kind: ActionSkill, SkillID: rest}, nil
	}
	attackID, partID, ok := strings.Cut(id, "|")
	if !ok || attackID == "" || partID == "" || strings.Contains(partID, "|") {
		return Action{}, fmt.Errorf("%w: %q", ErrMalformedAction, id)
	}
	return Action{Kind: ActionAttack, AttackID: attackID, PartID: partID}, nil
}
