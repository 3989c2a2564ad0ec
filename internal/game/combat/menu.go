package combat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMenuChoice is returned when a menu choice is not valid in the current menu state.
var ErrMenuChoice = errors.New("invalid menu choice")

// MenuState is a navigation screen within the player's turn. It never
// affects the combat phase.
type MenuState int

const (
	MenuMain MenuState = iota
	MenuMoveSelect
	MenuAttackSelect
	MenuSkillSelect
)

// String returns the wire name of the menu state.
func (s MenuState) String() string {
	switch s {
	case MenuMain:
		return "main"
	case MenuMoveSelect:
		return "move_select"
	case MenuAttackSelect:
		return "attack_select"
	case MenuSkillSelect:
		return "skill_select"
	default:
		return "unknown"
	}
}

// Menu choice tokens accepted by Select.
const (
	ChoiceFight  = "fight"
	ChoiceSkills = "skills"
	ChoiceBack   = "back"
	// ChoiceMove prefixes a weapon attack id, e.g. "move:slash".
	ChoiceMove = "move:"
	// ChoiceTarget prefixes a body part id, e.g. "target:head".
	ChoiceTarget = "target:"
	// ChoiceSkill prefixes a skill id, e.g. "skill:pray".
	ChoiceSkill = "skill:"
)

// Menu collects one action id through main → move_select → attack_select or
// main → skill_select. It is not safe for concurrent use.
type Menu struct {
	state    MenuState
	attackID string
}

// NewMenu returns a Menu on the main screen.
func NewMenu() *Menu {
	return &Menu{state: MenuMain}
}

// State returns the current screen.
func (m *Menu) State() MenuState { return m.state }

// PendingAttack returns the attack chosen on move_select, if any.
func (m *Menu) PendingAttack() string { return m.attackID }

// Reset returns to the main screen and forgets any pending attack.
func (m *Menu) Reset() {
	m.state = MenuMain
	m.attackID = ""
}

// Select applies one choice. When the choice completes an action, the
// encoded action id is returned and the menu resets to main.
//
// Postcondition: on error the menu is unchanged.
func (m *Menu) Select(choice string) (actionID string, err error) {
	switch {
	case choice == ChoiceBack:
		switch m.state {
		case MenuAttackSelect:
			m.state = MenuMoveSelect
			m.attackID = ""
		case MenuMoveSelect, MenuSkillSelect:
			m.state = MenuMain
		default:
			return "", fmt.Errorf("%w: nothing to go back to", ErrMenuChoice)
		}
		return "", nil

	case choice == ChoiceFight && m.state == MenuMain:
		m.state = MenuMoveSelect
		return "", nil

	case choice == ChoiceSkills && m.state == MenuMain:
		m.state = MenuSkillSelect
		return "", nil

	case strings.HasPrefix(choice, ChoiceMove) && m.state == MenuMoveSelect:
		id := strings.TrimPrefix(choice, ChoiceMove)
		if id == "" {
			break
		}
		m.attackID = id
		m.state = MenuAttackSelect
		return "", nil

	case strings.HasPrefix(choice, ChoiceTarget) && m.state == MenuAttackSelect:
		part := strings.TrimPrefix(choice, ChoiceTarget)
		if part == "" {
			break
		}
		actionID = AttackActionID(m.attackID, part)
		m.Reset()
		return actionID, nil

	case strings.HasPrefix(choice, ChoiceSkill) && m.state == MenuSkillSelect:
		id := strings.TrimPrefix(choice, ChoiceSkill)
		if id == "" {
			break
		}
		m.Reset()
		return SkillActionID(id), nil
	}
	return "", fmt.Errorf("%w: %q on %s", ErrMenuChoice, choice, m.state)
}
