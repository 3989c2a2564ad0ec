// Package combat implements attack and skill resolution against the body-part
// model, and the turn phase state machine that sequences an encounter.
package combat

// Phase is the authoritative stage of an encounter.
// The zero value (PhaseUnknown) is intentionally invalid.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhasePlayerTurn
	PhasePlayerActing
	PhaseEnemyTurn
	PhaseEnemyActing
	PhaseVictory
	PhaseDefeat
)

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case PhasePlayerTurn:
		return "player_turn"
	case PhasePlayerActing:
		return "player_acting"
	case PhaseEnemyTurn:
		return "enemy_turn"
	case PhaseEnemyActing:
		return "enemy_acting"
	case PhaseVictory:
		return "victory"
	case PhaseDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions are possible.
func (p Phase) IsTerminal() bool {
	return p == PhaseVictory || p == PhaseDefeat
}

// awaitsAnimation reports whether p is released only by an animation signal.
func (p Phase) awaitsAnimation() bool {
	return p == PhasePlayerActing || p == PhaseEnemyActing
}
