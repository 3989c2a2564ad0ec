package gameserver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/litany/internal/game/character"
	"github.com/cory-johannsen/litany/internal/game/combat"
	"github.com/cory-johannsen/litany/internal/game/dice"
	"github.com/cory-johannsen/litany/internal/game/inventory"
	"github.com/cory-johannsen/litany/internal/game/npc"
	"github.com/cory-johannsen/litany/internal/observability"
)

var (
	// ErrNoEncounter is returned for an unknown session id.
	ErrNoEncounter = errors.New("no encounter for session")
	// ErrSessionBusy is returned when the player is already in an encounter.
	ErrSessionBusy = errors.New("player already in an encounter")
	// ErrPlayerDown is returned when starting an encounter with no hit points.
	ErrPlayerDown = errors.New("player has fallen and must rest")
	// ErrPlayerInCombat is returned by out-of-combat operations during an encounter.
	ErrPlayerInCombat = errors.New("player is in an encounter")
)

// HandlerOption configures a CombatHandler.
type HandlerOption func(*CombatHandler)

// WithClock overrides the handler's time source.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *CombatHandler) { h.now = now }
}

// WithLootSource draws loot from src instead of the combat source.
func WithLootSource(src dice.Source) HandlerOption {
	return func(h *CombatHandler) { h.loot = src }
}

// WithEncounterOptions passes opts to every encounter the handler starts.
func WithEncounterOptions(opts ...combat.Option) HandlerOption {
	return func(h *CombatHandler) { h.encOpts = append(h.encOpts, opts...) }
}

type encounterSession struct {
	playerID   string
	lastActive time.Time
	timer      *combat.DelayTimer
	rewards    *Rewards
	settled    bool
}

// CombatHandler drives encounters for remote clients: it owns the think
// delay before each enemy attack and persists the player when a fight ends.
//
// combatMu serialises all access to encounters and session bookkeeping so
// that timer goroutines and RPC goroutines cannot race on an Encounter.
type CombatHandler struct {
	engine     *combat.Engine
	catalog    *Catalog
	resolver   *combat.Resolver
	loot       dice.Source
	store      SnapshotStore
	logger     *zap.Logger
	thinkDelay time.Duration
	now        func() time.Time
	encOpts    []combat.Option

	combatMu sync.Mutex
	sessions map[string]*encounterSession
}

// NewCombatHandler creates a CombatHandler.
//
// Precondition: catalog, src, store and logger must be non-nil; thinkDelay >= 0.
// A zero thinkDelay resolves the enemy turn inline.
// Postcondition: Returns a non-nil CombatHandler with no live encounters.
func NewCombatHandler(catalog *Catalog, src dice.Source, store SnapshotStore, thinkDelay time.Duration, logger *zap.Logger, opts ...HandlerOption) *CombatHandler {
	h := &CombatHandler{
		engine:     combat.NewEngine(),
		catalog:    catalog,
		resolver:   combat.NewResolver(catalog.Items, catalog.Skills, src),
		loot:       src,
		store:      store,
		logger:     logger,
		thinkDelay: thinkDelay,
		now:        time.Now,
		sessions:   make(map[string]*encounterSession),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start opens an encounter between the stored player and a fresh instance of
// enemyID. Unknown enemy ids fall back to the catalog's fallback template.
//
// The snapshot is loaded under combatMu, so it reflects every settlement and
// player operation that finished before Start.
//
// Postcondition: the returned view is in player_turn.
func (h *CombatHandler) Start(ctx context.Context, playerID, enemyID string) (EncounterView, error) {
	h.combatMu.Lock()
	defer h.combatMu.Unlock()

	if h.inEncounterLocked(playerID) {
		return EncounterView{}, ErrSessionBusy
	}
	snap, err := h.store.Load(ctx, playerID)
	if err != nil {
		return EncounterView{}, fmt.Errorf("loading player %q: %w", playerID, err)
	}
	if snap.Player.IsDead() {
		return EncounterView{}, ErrPlayerDown
	}
	tmpl, found := h.catalog.Enemies.GetOrFallback(enemyID)
	if !found {
		h.logger.Warn("unknown enemy template; using fallback",
			zap.String("requested", enemyID),
			zap.String("fallback", tmpl.ID),
		)
	}

	sessionID := uuid.NewString()
	enemy := npc.NewInstance(tmpl, uuid.NewString())
	encLog := observability.EncounterLogger(h.logger, sessionID, playerID)
	opts := append([]combat.Option{combat.WithLogger(encLog)}, h.encOpts...)
	enc := combat.NewEncounter(uuid.NewString(), snap.Player, enemy, h.resolver, opts...)
	if err := h.engine.Start(sessionID, enc); err != nil {
		return EncounterView{}, err
	}
	h.sessions[sessionID] = &encounterSession{playerID: playerID, lastActive: h.now()}

	encLog.Info("encounter started", zap.String("enemy", tmpl.ID))
	return newView(sessionID, enc, nil), nil
}

// Submit forwards a player action id to the session's encounter.
//
// Postcondition: on error the encounter is unchanged.
func (h *CombatHandler) Submit(sessionID, actionID string) (EncounterView, error) {
	h.combatMu.Lock()
	defer h.combatMu.Unlock()

	enc, sess, err := h.lookupLocked(sessionID)
	if err != nil {
		return EncounterView{}, err
	}
	if _, err := enc.SubmitAction(actionID); err != nil {
		return EncounterView{}, err
	}
	return newView(sessionID, enc, sess.rewards), nil
}

// SelectMenu navigates the session's action menu. A choice that completes
// an action id submits it; a rejected submission leaves the menu on the
// screen it was on.
func (h *CombatHandler) SelectMenu(sessionID, choice string) (EncounterView, error) {
	h.combatMu.Lock()
	defer h.combatMu.Unlock()

	enc, sess, err := h.lookupLocked(sessionID)
	if err != nil {
		return EncounterView{}, err
	}
	if _, err := enc.Choose(choice); err != nil {
		return EncounterView{}, err
	}
	return newView(sessionID, enc, sess.rewards), nil
}

// AnimationComplete releases the encounter's pending animation. Entering
// enemy_turn schedules the enemy's attack after the think delay; entering a
// terminal phase settles the encounter.
func (h *CombatHandler) AnimationComplete(ctx context.Context, sessionID string) (EncounterView, error) {
	h.combatMu.Lock()
	defer h.combatMu.Unlock()

	enc, sess, err := h.lookupLocked(sessionID)
	if err != nil {
		return EncounterView{}, err
	}
	phase, moved := enc.NotifyAnimationComplete()
	if !moved {
		return newView(sessionID, enc, sess.rewards), nil
	}

	switch {
	case phase == combat.PhaseEnemyTurn:
		h.scheduleEnemyLocked(sessionID, enc, sess)
	case phase.IsTerminal():
		if err := h.settleLocked(ctx, sessionID, enc, sess); err != nil {
			return EncounterView{}, err
		}
	}
	return newView(sessionID, enc, sess.rewards), nil
}

// State returns the current view of a session.
func (h *CombatHandler) State(sessionID string) (EncounterView, error) {
	h.combatMu.Lock()
	defer h.combatMu.Unlock()

	enc, sess, err := h.lookupLocked(sessionID)
	if err != nil {
		return EncounterView{}, err
	}
	return newView(sessionID, enc, sess.rewards), nil
}

// End discards a session. An unsettled encounter is abandoned: the player is
// saved as they stand, without rewards.
func (h *CombatHandler) End(ctx context.Context, sessionID string) error {
	h.combatMu.Lock()
	defer h.combatMu.Unlock()
	return h.endLocked(ctx, sessionID)
}

// Sweep ends every session idle for longer than ttl and returns how many
// were ended.
func (h *CombatHandler) Sweep(ctx context.Context, now time.Time, ttl time.Duration) int {
	h.combatMu.Lock()
	defer h.combatMu.Unlock()

	var stale []string
	for id, sess := range h.sessions {
		if now.Sub(sess.lastActive) > ttl {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	for _, id := range stale {
		if err := h.endLocked(ctx, id); err != nil {
			h.logger.Error("ending idle encounter", zap.String("session", id), zap.Error(err))
		}
	}
	if len(stale) > 0 {
		h.logger.Info("swept idle encounters", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Sessions returns the ids of every live session, sorted.
func (h *CombatHandler) Sessions() []string {
	return h.engine.Sessions()
}

// InEncounter reports whether playerID has an unsettled encounter.
func (h *CombatHandler) InEncounter(playerID string) bool {
	h.combatMu.Lock()
	defer h.combatMu.Unlock()
	return h.inEncounterLocked(playerID)
}

func (h *CombatHandler) inEncounterLocked(playerID string) bool {
	for _, sess := range h.sessions {
		if sess.playerID == playerID && !sess.settled {
			return true
		}
	}
	return false
}

func (h *CombatHandler) lookupLocked(sessionID string) (*combat.Encounter, *encounterSession, error) {
	enc, ok := h.engine.Get(sessionID)
	sess, tracked := h.sessions[sessionID]
	if !ok || !tracked {
		return nil, nil, fmt.Errorf("%w %q", ErrNoEncounter, sessionID)
	}
	sess.lastActive = h.now()
	return enc, sess, nil
}

func (h *CombatHandler) scheduleEnemyLocked(sessionID string, enc *combat.Encounter, sess *encounterSession) {
	if h.thinkDelay <= 0 {
		h.enemyTurnLocked(sessionID, enc)
		return
	}
	fire := func() { h.enemyTurn(sessionID) }
	if sess.timer == nil {
		sess.timer = combat.NewDelayTimer(h.thinkDelay, fire)
		return
	}
	sess.timer.Reset(h.thinkDelay, fire)
}

// enemyTurn is the think delay callback.
func (h *CombatHandler) enemyTurn(sessionID string) {
	h.combatMu.Lock()
	defer h.combatMu.Unlock()

	enc, ok := h.engine.Get(sessionID)
	if !ok {
		return
	}
	h.enemyTurnLocked(sessionID, enc)
}

func (h *CombatHandler) enemyTurnLocked(sessionID string, enc *combat.Encounter) {
	res, err := enc.ResolveEnemyTurn()
	if err != nil {
		h.logger.Warn("enemy turn skipped", zap.String("session", sessionID), zap.Error(err))
		return
	}
	h.logger.Debug("enemy attacked",
		zap.String("session", sessionID),
		zap.Int("damage", res.Damage),
		zap.Bool("fatal", res.IsFatal),
	)
}

// settleLocked pays out a victory or records a defeat, then saves the player.
// It runs once per encounter.
func (h *CombatHandler) settleLocked(ctx context.Context, sessionID string, enc *combat.Encounter, sess *encounterSession) error {
	if sess.settled {
		return nil
	}
	if sess.timer != nil {
		sess.timer.Stop()
	}
	player := enc.Player()
	player.StatusEffects = nil

	if enc.Phase() == combat.PhaseVictory {
		sess.rewards = h.payOut(player, enc.Enemy())
	}
	if err := h.store.Save(ctx, character.NewSnapshot(player, h.now())); err != nil {
		return fmt.Errorf("saving player %q: %w", player.ID, err)
	}
	sess.settled = true

	fields := []zap.Field{
		zap.String("session", sessionID),
		zap.String("player", player.ID),
		zap.Stringer("outcome", enc.Phase()),
		zap.Int("rounds", enc.Round()),
	}
	if sess.rewards != nil {
		fields = append(fields, zap.Int("xp", sess.rewards.XP), zap.Int("gold", sess.rewards.Gold))
	}
	h.logger.Info("encounter settled", fields...)
	return nil
}

// payOut grants the enemy's XP reward and a loot roll to player.
func (h *CombatHandler) payOut(player *character.Player, enemy *npc.Instance) *Rewards {
	r := &Rewards{}
	tmpl, ok := h.catalog.Enemies.Get(enemy.TemplateID)
	if !ok {
		return r
	}
	r.XP = tmpl.BaseStats.XPReward
	loot := npc.GenerateLoot(tmpl.Loot, h.loot)
	r.Gold = loot.Gold
	player.GrantRewards(r.XP, r.Gold)

	for _, it := range loot.Items {
		if player.Inventory == nil {
			player.Inventory = inventory.NewBackpack(character.BackpackSlots)
		}
		if err := player.Inventory.Add(it.ItemDefID, it.Quantity, h.catalog.Items); err != nil {
			h.logger.Warn("loot not stored",
				zap.String("player", player.ID),
				zap.String("item", it.ItemDefID),
				zap.Error(err),
			)
			r.Lost = append(r.Lost, it)
			continue
		}
		r.Items = append(r.Items, it)
	}
	return r
}

func (h *CombatHandler) endLocked(ctx context.Context, sessionID string) error {
	enc, ok := h.engine.End(sessionID)
	sess, tracked := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	if !ok || !tracked {
		return fmt.Errorf("%w %q", ErrNoEncounter, sessionID)
	}
	if sess.timer != nil {
		sess.timer.Stop()
	}
	if sess.settled {
		return nil
	}
	player := enc.Player()
	player.StatusEffects = nil
	if err := h.store.Save(ctx, character.NewSnapshot(player, h.now())); err != nil {
		return fmt.Errorf("saving player %q: %w", player.ID, err)
	}
	h.logger.Info("encounter abandoned",
		zap.String("session", sessionID),
		zap.String("player", player.ID),
		zap.Stringer("phase", enc.Phase()),
	)
	return nil
}

// outOfCombat runs fn while holding combatMu, provided playerID has no
// unsettled encounter. No encounter can start for the player while fn runs.
func (h *CombatHandler) outOfCombat(playerID string, fn func() error) error {
	h.combatMu.Lock()
	defer h.combatMu.Unlock()
	if h.inEncounterLocked(playerID) {
		return ErrPlayerInCombat
	}
	return fn()
}
