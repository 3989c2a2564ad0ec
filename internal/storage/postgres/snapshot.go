package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/litany/internal/game/character"
)

// SnapshotSummary is the indexed metadata of a stored snapshot.
type SnapshotSummary struct {
	PlayerID string
	Name     string
	Class    string
	Level    int
	SavedAt  time.Time
}

// SnapshotRepository persists player snapshots as JSONB rows keyed by player id.
type SnapshotRepository struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository creates a SnapshotRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save inserts or replaces the snapshot for snap.Player.ID.
//
// Precondition: snap.Player must be non-nil with a non-empty ID.
// Postcondition: A subsequent Load returns an equal snapshot.
func (r *SnapshotRepository) Save(ctx context.Context, snap character.Snapshot) error {
	if snap.Player == nil || snap.Player.ID == "" {
		return errors.New("saving snapshot: player id is required")
	}
	data, err := snap.Marshal()
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	p := snap.Player
	_, err = r.db.Exec(ctx, `
		INSERT INTO player_snapshots (player_id, name, class, level, version, data, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id) DO UPDATE
		SET name = EXCLUDED.name,
		    class = EXCLUDED.class,
		    level = EXCLUDED.level,
		    version = EXCLUDED.version,
		    data = EXCLUDED.data,
		    saved_at = EXCLUDED.saved_at,
		    updated_at = NOW()`,
		p.ID, p.Name, p.Class, p.Level, snap.Version, data, snap.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting snapshot %s: %w", p.ID, err)
	}
	return nil
}

// Load returns the snapshot for playerID.
//
// Postcondition: Returns character.ErrSnapshotNotFound if no row exists.
func (r *SnapshotRepository) Load(ctx context.Context, playerID string) (character.Snapshot, error) {
	var data []byte
	err := r.db.QueryRow(ctx,
		`SELECT data FROM player_snapshots WHERE player_id = $1`, playerID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return character.Snapshot{}, character.ErrSnapshotNotFound
		}
		return character.Snapshot{}, fmt.Errorf("loading snapshot %s: %w", playerID, err)
	}
	return character.UnmarshalSnapshot(data)
}

// Delete removes the snapshot for playerID.
//
// Postcondition: Returns character.ErrSnapshotNotFound if no row existed.
func (r *SnapshotRepository) Delete(ctx context.Context, playerID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM player_snapshots WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", playerID, err)
	}
	if tag.RowsAffected() == 0 {
		return character.ErrSnapshotNotFound
	}
	return nil
}

// List returns summaries of every stored snapshot, most recently saved first.
func (r *SnapshotRepository) List(ctx context.Context) ([]SnapshotSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT player_id, name, class, level, saved_at
		FROM player_snapshots ORDER BY saved_at DESC, player_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]SnapshotSummary, 0)
	for rows.Next() {
		var s SnapshotSummary
		if err := rows.Scan(&s.PlayerID, &s.Name, &s.Class, &s.Level, &s.SavedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
