package character

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SnapshotVersion is the current persisted snapshot layout.
const SnapshotVersion = 1

// ErrSnapshotNotFound is returned by snapshot stores when no snapshot exists.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is the serializable between-encounter state of a player.
type Snapshot struct {
	Version int       `json:"version"`
	Player  *Player   `json:"player"`
	SavedAt time.Time `json:"saved_at"`
}

// NewSnapshot captures a deep copy of p.
func NewSnapshot(p *Player, at time.Time) Snapshot {
	return Snapshot{Version: SnapshotVersion, Player: p.Clone(), SavedAt: at.UTC()}
}

// Marshal encodes s as JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes a JSON snapshot.
//
// Postcondition: returns an error for unsupported versions or a missing player.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if s.Player == nil {
		return Snapshot{}, errors.New("snapshot has no player")
	}
	return s, nil
}
