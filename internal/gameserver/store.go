package gameserver

import (
	"context"
	"errors"
	"sync"

	"github.com/cory-johannsen/litany/internal/game/character"
)

// SnapshotStore persists player state between encounters.
//
// Load returns character.ErrSnapshotNotFound for unknown players.
type SnapshotStore interface {
	Save(ctx context.Context, snap character.Snapshot) error
	Load(ctx context.Context, playerID string) (character.Snapshot, error)
}

// MemoryStore is an in-process SnapshotStore. Snapshots are kept in their
// encoded form so callers never share state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Save implements SnapshotStore.
func (m *MemoryStore) Save(_ context.Context, snap character.Snapshot) error {
	if snap.Player == nil || snap.Player.ID == "" {
		return errors.New("saving snapshot: player id is required")
	}
	b, err := snap.Marshal()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[snap.Player.ID] = b
	return nil
}

// Load implements SnapshotStore.
func (m *MemoryStore) Load(_ context.Context, playerID string) (character.Snapshot, error) {
	m.mu.RLock()
	b, ok := m.data[playerID]
	m.mu.RUnlock()
	if !ok {
		return character.Snapshot{}, character.ErrSnapshotNotFound
	}
	return character.UnmarshalSnapshot(b)
}
