package combat

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/litany/internal/game/character"
	"github.com/cory-johannsen/litany/internal/game/npc"
)

// Submission describes an accepted player action.
type Submission struct {
	Action Action
	Attack *AttackResult
	Skill  *SkillResult
	Phase  Phase
}

// Animation returns the animation the presentation layer should play.
func (s Submission) Animation() string {
	switch {
	case s.Attack != nil:
		return s.Attack.Animation
	case s.Skill != nil:
		return s.Skill.Animation
	default:
		return ""
	}
}

// Message returns the result text of the accepted action.
func (s Submission) Message() string {
	switch {
	case s.Attack != nil:
		return s.Attack.Message
	case s.Skill != nil:
		return s.Skill.Message
	default:
		return ""
	}
}

// Option configures an Encounter.
type Option func(*Encounter)

// WithIDGenerator overrides how status effect application ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(e *Encounter) { e.newID = gen }
}

// WithLogger attaches a logger for phase transitions.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Encounter) { e.logger = logger }
}

// Encounter is the turn phase state machine for one fight. It is the only
// mutator of its player and enemy, replacing each wholesale with the
// resolver's output.
//
// Encounter is not safe for concurrent use; the caller must serialise access.
type Encounter struct {
	id       string
	resolver *Resolver
	logger   *zap.Logger
	newID    func() string

	phase   Phase
	round   int
	pending bool
	fatal   bool

	player *character.Player
	enemy  *npc.Instance
	menu   *Menu

	lastAttack *AttackResult
	lastSkill  *SkillResult
	lastEnemy  *EnemyAttackResult
	log        []string
}

// NewEncounter starts a fight between player and enemy in player_turn.
// Both combatants are cloned; the caller's values are never touched.
//
// Precondition: player, enemy and resolver must be non-nil.
func NewEncounter(id string, player *character.Player, enemy *npc.Instance, resolver *Resolver, opts ...Option) *Encounter {
	e := &Encounter{
		id:       id,
		resolver: resolver,
		logger:   zap.NewNop(),
		newID:    uuid.NewString,
		phase:    PhasePlayerTurn,
		round:    1,
		player:   player.Clone(),
		enemy:    enemy.Clone(),
		menu:     NewMenu(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the encounter id.
func (e *Encounter) ID() string { return e.id }

// Phase returns the current phase.
func (e *Encounter) Phase() Phase { return e.phase }

// Round returns the 1-based round counter.
func (e *Encounter) Round() int { return e.round }

// AnimationPending reports whether the encounter waits on NotifyAnimationComplete.
func (e *Encounter) AnimationPending() bool { return e.pending }

// Player returns a copy of the current player state.
func (e *Encounter) Player() *character.Player { return e.player.Clone() }

// Enemy returns a copy of the current enemy state.
func (e *Encounter) Enemy() *npc.Instance { return e.enemy.Clone() }

// Menu returns the navigation menu for the player's turn.
func (e *Encounter) Menu() *Menu { return e.menu }

// LastAttack returns the most recent accepted attack result, or nil.
func (e *Encounter) LastAttack() *AttackResult { return e.lastAttack }

// LastSkill returns the most recent accepted skill result, or nil.
func (e *Encounter) LastSkill() *SkillResult { return e.lastSkill }

// LastEnemyAttack returns the most recent enemy attack result, or nil.
func (e *Encounter) LastEnemyAttack() *EnemyAttackResult { return e.lastEnemy }

// Log returns a copy of every result message in order.
func (e *Encounter) Log() []string { return append([]string(nil), e.log...) }

// SubmitAction accepts one player action id.
//
// Postcondition: on error the phase and both combatants are unchanged; on
// success the result is applied and the phase is player_acting.
func (e *Encounter) SubmitAction(actionID string) (Submission, error) {
	if e.phase != PhasePlayerTurn {
		return Submission{}, fmt.Errorf("%w: submit in %s", ErrWrongPhase, e.phase)
	}
	action, err := ParseAction(actionID)
	if err != nil {
		return Submission{}, err
	}

	if action.Kind == ActionAttack && !e.resolver.Attacks().WeaponOffers(e.player.EquippedWeapon, action.AttackID) {
		fallback := e.resolver.Attacks().DefaultAttack()
		e.logger.Debug("attack not offered by weapon; using default",
			zap.String("encounter", e.id),
			zap.String("weapon", e.player.EquippedWeapon),
			zap.String("requested", action.AttackID),
			zap.String("attack", fallback),
		)
		action.AttackID = fallback
	}

	sub := Submission{Action: action}
	switch action.Kind {
	case ActionAttack:
		res := e.resolver.ResolveAttack(e.player, e.enemy, action.PartID, action.AttackID)
		if res.Invalid {
			return Submission{}, &RejectedError{Err: ErrInvalidTarget, Message: res.Message}
		}
		e.enemy = res.Enemy
		e.fatal = res.IsFatal
		e.lastAttack, e.lastSkill = &res, nil
		sub.Attack = &res
		e.record(res.Message)

	case ActionSkill:
		res := e.resolver.ResolveSkill(action.SkillID, e.player, e.enemy)
		if !res.Success {
			return Submission{}, &RejectedError{Err: skillFailureErr(res.Failure), Message: res.Message}
		}
		e.player, e.enemy = ApplySkill(e.player, e.enemy, res, e.newID())
		e.fatal = e.enemy.IsDead()
		e.lastSkill, e.lastAttack = &res, nil
		sub.Skill = &res
		e.record(res.Message)
	}

	e.pending = true
	e.transition(PhasePlayerActing)
	sub.Phase = e.phase
	return sub, nil
}

// ResolveEnemyTurn performs the enemy's fixed attack. The driver calls it
// once the think delay has elapsed.
//
// Postcondition: on success the phase is enemy_acting and an animation is pending.
func (e *Encounter) ResolveEnemyTurn() (EnemyAttackResult, error) {
	if e.phase != PhaseEnemyTurn {
		return EnemyAttackResult{}, fmt.Errorf("%w: enemy attack in %s", ErrWrongPhase, e.phase)
	}
	res := e.resolver.ResolveEnemyAttack(e.enemy, e.player)
	e.player = res.Player
	e.lastEnemy = &res
	e.record(res.Message)
	e.pending = true
	e.transition(PhaseEnemyActing)
	return res, nil
}

// NotifyAnimationComplete releases the pending animation join point. It
// returns the resulting phase and whether a transition happened; duplicate or
// out-of-phase signals are no-ops.
func (e *Encounter) NotifyAnimationComplete() (Phase, bool) {
	if !e.pending || !e.phase.awaitsAnimation() {
		return e.phase, false
	}
	e.pending = false

	switch e.phase {
	case PhasePlayerActing:
		if e.fatal {
			e.transition(PhaseVictory)
		} else {
			e.transition(PhaseEnemyTurn)
		}
	case PhaseEnemyActing:
		var expired []string
		e.player, e.enemy, expired = TickEffects(e.player, e.enemy)
		if len(expired) > 0 {
			e.logger.Debug("status effects expired", zap.String("encounter", e.id), zap.Strings("effects", expired))
		}
		e.round++
		if e.player.IsDead() {
			e.transition(PhaseDefeat)
		} else {
			e.menu.Reset()
			e.transition(PhasePlayerTurn)
		}
	}
	return e.phase, true
}

// SelectMenu forwards a navigation choice to the menu. It is legal only in
// player_turn and never changes the phase. On move_select only the attacks
// of the equipped weapon are accepted.
func (e *Encounter) SelectMenu(choice string) (actionID string, err error) {
	if e.phase != PhasePlayerTurn {
		return "", fmt.Errorf("%w: menu in %s", ErrWrongPhase, e.phase)
	}
	if id, ok := strings.CutPrefix(choice, ChoiceMove); ok && e.menu.State() == MenuMoveSelect {
		if !e.resolver.Attacks().WeaponOffers(e.player.EquippedWeapon, id) {
			return "", fmt.Errorf("%w: %q is not offered by %q", ErrMenuChoice, id, e.player.EquippedWeapon)
		}
	}
	return e.menu.Select(choice)
}

// Choose applies a menu choice and submits the action it completes. It
// returns nil for a choice that only navigates.
//
// Postcondition: when the submission is rejected the menu is back on the
// screen it was on, with the same pending attack.
func (e *Encounter) Choose(choice string) (*Submission, error) {
	saved := *e.menu
	actionID, err := e.SelectMenu(choice)
	if err != nil || actionID == "" {
		return nil, err
	}
	sub, err := e.SubmitAction(actionID)
	if err != nil {
		*e.menu = saved
		return nil, err
	}
	return &sub, nil
}

func (e *Encounter) transition(to Phase) {
	e.logger.Debug("combat phase transition",
		zap.String("encounter", e.id),
		zap.Stringer("from", e.phase),
		zap.Stringer("to", to),
		zap.Int("round", e.round),
	)
	e.phase = to
}

func (e *Encounter) record(msg string) {
	e.log = append(e.log, msg)
}

func skillFailureErr(f SkillFailure) error {
	switch f {
	case SkillLocked:
		return ErrSkillLocked
	case SkillNoMana:
		return ErrInsufficientMana
	default:
		return ErrUnknownSkill
	}
}
