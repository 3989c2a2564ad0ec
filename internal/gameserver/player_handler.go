package gameserver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/litany/internal/game/character"
)

// PlayerHandler implements the between-encounter player operations. Every
// operation loads the stored snapshot, mutates it and saves it back, and is
// refused while the player is in an encounter.
type PlayerHandler struct {
	catalog *Catalog
	store   SnapshotStore
	combat  *CombatHandler
	logger  *zap.Logger
	now     func() time.Time
}

// NewPlayerHandler creates a PlayerHandler.
//
// Precondition: all arguments must be non-nil.
func NewPlayerHandler(catalog *Catalog, store SnapshotStore, combat *CombatHandler, logger *zap.Logger) *PlayerHandler {
	return &PlayerHandler{
		catalog: catalog,
		store:   store,
		combat:  combat,
		logger:  logger,
		now:     combat.now,
	}
}

// CreatePlayer builds a new level 1 player of classID and stores it.
//
// Postcondition: the returned player has been saved.
func (h *PlayerHandler) CreatePlayer(ctx context.Context, classID, name string) (*character.Player, error) {
	cls, ok := h.catalog.Classes[classID]
	if !ok {
		return nil, fmt.Errorf("%w %q", character.ErrUnknownClass, classID)
	}
	p, err := character.NewPlayer(cls, name, h.catalog.Items)
	if err != nil {
		return nil, err
	}
	if err := h.store.Save(ctx, character.NewSnapshot(p, h.now())); err != nil {
		return nil, fmt.Errorf("saving player: %w", err)
	}
	h.logger.Info("player created",
		zap.String("player", p.ID),
		zap.String("class", classID),
		zap.String("name", name),
	)
	return p, nil
}

// Player returns the stored player.
func (h *PlayerHandler) Player(ctx context.Context, playerID string) (*character.Player, error) {
	snap, err := h.store.Load(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("loading player %q: %w", playerID, err)
	}
	return snap.Player, nil
}

// Rest restores the player's hit points and mana.
func (h *PlayerHandler) Rest(ctx context.Context, playerID string) (*character.Player, error) {
	return h.mutate(ctx, playerID, "rest", func(p *character.Player) error {
		p.Rest()
		return nil
	})
}

// LevelUp spends gold to raise one attribute.
func (h *PlayerHandler) LevelUp(ctx context.Context, playerID, attribute string) (*character.Player, error) {
	return h.mutate(ctx, playerID, "level up", func(p *character.Player) error {
		return p.LevelUp(attribute)
	})
}

// UnlockSkill spends XP to learn skillID.
func (h *PlayerHandler) UnlockSkill(ctx context.Context, playerID, skillID string) (*character.Player, error) {
	return h.mutate(ctx, playerID, "unlock skill", func(p *character.Player) error {
		return p.UnlockSkill(skillID, h.catalog.Skills)
	})
}

// UseItem consumes one charge of itemID.
func (h *PlayerHandler) UseItem(ctx context.Context, playerID, itemID string) (*character.Player, error) {
	return h.mutate(ctx, playerID, "use item", func(p *character.Player) error {
		return p.Consume(itemID, h.catalog.Items)
	})
}

func (h *PlayerHandler) mutate(ctx context.Context, playerID, op string, fn func(*character.Player) error) (*character.Player, error) {
	var out *character.Player
	err := h.combat.outOfCombat(playerID, func() error {
		snap, err := h.store.Load(ctx, playerID)
		if err != nil {
			return fmt.Errorf("loading player %q: %w", playerID, err)
		}
		p := snap.Player
		if err := fn(p); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := h.store.Save(ctx, character.NewSnapshot(p, h.now())); err != nil {
			return fmt.Errorf("saving player %q: %w", playerID, err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	h.logger.Debug("player updated", zap.String("player", playerID), zap.String("op", op))
	return out, nil
}
