// Package condition models timed status effects attached to combatants.
package condition

import (
	"fmt"
)

// Type is the closed set of status effect kinds. At most one effect of each
// Type is active on a combatant at a time.
type Type string

const (
	// BuffDamage raises outgoing damage by Value percent.
	BuffDamage Type = "buff_damage"
	// Vulnerability raises incoming damage by Value percent.
	Vulnerability Type = "vulnerability"
	// Weaken lowers outgoing attack by Value percent.
	Weaken Type = "weaken"
)

// ParseType converts a content string into a Type.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case BuffDamage, Vulnerability, Weaken:
		return t, nil
	default:
		return "", fmt.Errorf("unknown status effect type %q", s)
	}
}

// UnmarshalText rejects unknown effect types while decoding content.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// StatusEffect is one application of an effect to a combatant.
type StatusEffect struct {
	ID       string `json:"id"`
	Type     Type   `json:"type"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Value    int    `json:"value"`
}

// Template describes an effect a skill produces, before it is stamped with
// an application ID.
type Template struct {
	Type     Type   `yaml:"type"`
	Name     string `yaml:"name"`
	Duration int    `yaml:"duration"`
	Value    int    `yaml:"value"`
}

// Validate checks that t can produce a usable effect.
func (t Template) Validate() error {
	if _, err := ParseType(string(t.Type)); err != nil {
		return err
	}
	if t.Duration < 1 {
		return fmt.Errorf("effect %q: duration must be >= 1", t.Type)
	}
	return nil
}

// Instantiate builds an unstamped StatusEffect from t.
func (t Template) Instantiate() StatusEffect {
	name := t.Name
	if name == "" {
		name = string(t.Type)
	}
	return StatusEffect{Type: t.Type, Name: name, Duration: t.Duration, Value: t.Value}
}
