package combat

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongPhase is returned when an operation is not legal in the current phase.
	ErrWrongPhase = errors.New("action not allowed in current phase")
	// ErrMalformedAction is returned when an action id cannot be parsed.
	ErrMalformedAction = errors.New("malformed action id")
	// ErrInvalidTarget is returned when the targeted body part is missing or severed.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrUnknownSkill is returned when the skill id is not in the catalog.
	ErrUnknownSkill = errors.New("unknown skill")
	// ErrSkillLocked is returned when the player has not unlocked the skill.
	ErrSkillLocked = errors.New("skill not unlocked")
	// ErrInsufficientMana is returned when the player cannot pay a skill's cost.
	ErrInsufficientMana = errors.New("insufficient mana")
)

// RejectedError reports an action refused by validation. The encounter is
// unchanged and Message carries the resolver's text for display.
type RejectedError struct {
	Err     error
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("action rejected: %v: %s", e.Err, e.Message)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}
