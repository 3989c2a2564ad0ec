package combat

import "fmt"

// MenuOption is one selectable entry on the current menu screen.
type MenuOption struct {
	Choice  string
	Label   string
	Detail  string
	Enabled bool
}

// MenuOptions lists the entries for the current menu screen. Outside
// player_turn there are none.
func (e *Encounter) MenuOptions() []MenuOption {
	if e.phase != PhasePlayerTurn {
		return nil
	}
	back := MenuOption{Choice: ChoiceBack, Label: "Back", Enabled: true}

	switch e.menu.State() {
	case MenuMain:
		return []MenuOption{
			{Choice: ChoiceFight, Label: "Fight", Enabled: true},
			{Choice: ChoiceSkills, Label: "Skills", Enabled: len(e.player.UnlockedSkills) > 0},
		}

	case MenuMoveSelect:
		var out []MenuOption
		for _, a := range e.resolver.Attacks().WeaponAttacks(e.player.EquippedWeapon) {
			out = append(out, MenuOption{
				Choice:  ChoiceMove + a.ID,
				Label:   a.Name,
				Detail:  a.Description,
				Enabled: true,
			})
		}
		return append(out, back)

	case MenuAttackSelect:
		attack, _ := e.resolver.Attacks().Attack(e.menu.PendingAttack())
		var out []MenuOption
		for _, p := range e.enemy.TargetableParts() {
			chance := min(100, max(0, HitThreshold(e.enemy, &p, attack)))
			out = append(out, MenuOption{
				Choice:  ChoiceTarget + p.ID,
				Label:   p.Name,
				Detail:  fmt.Sprintf("%d%% to hit, %d/%d", chance, p.HP, p.MaxHP),
				Enabled: true,
			})
		}
		return append(out, back)

	case MenuSkillSelect:
		var out []MenuOption
		for _, id := range e.player.UnlockedSkills {
			def, ok := e.resolver.Skills().Get(id)
			if !ok {
				continue
			}
			out = append(out, MenuOption{
				Choice:  ChoiceSkill + def.ID,
				Label:   def.Name,
				Detail:  fmt.Sprintf("%d MP", def.Cost),
				Enabled: e.player.MP >= def.Cost,
			})
		}
		return append(out, back)
	}
	return nil
}
