package gameserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/litany/internal/config"
	"github.com/cory-johannsen/litany/internal/game/character"
)

func TestMemoryStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Load(ctx, "p1")
	assert.ErrorIs(t, err, character.ErrSnapshotNotFound)

	p := &character.Player{ID: "p1", Name: "Aldric", Class: "knight", Level: 1, HP: 10, MaxHP: 140}
	require.NoError(t, store.Save(ctx, character.NewSnapshot(p, time.Now())))

	// Mutating the caller's copy does not reach the store.
	p.HP = 0
	snap, err := store.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, snap.Player.HP)

	assert.Error(t, store.Save(ctx, character.Snapshot{}))
}

func TestLoadCatalog(t *testing.T) {
	cat := testCatalog(t)
	assert.Len(t, cat.Classes, 3)
	_, ok := cat.Enemies.Get("bone_knight")
	assert.True(t, ok)

	_, err := LoadCatalog(config.ContentConfig{Dir: t.TempDir(), DefaultAttack: "slash", FallbackEnemy: "skeleton"})
	assert.Error(t, err)
}
