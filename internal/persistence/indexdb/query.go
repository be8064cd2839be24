package indexdb

import (
	"context"
	"database/sql"
	"fmt"
)

type RitualRow struct {
	Tick     uint64 `json:"tick"`
	Kind     string `json:"kind"`
	RunID    string `json:"run_id,omitempty"`
	Pos      [3]int `json:"pos"`
	RecipeID string `json:"recipe_id,omitempty"`
	Actor    string `json:"actor,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type SnapshotRow struct {
	Tick      uint64 `json:"tick"`
	Path      string `json:"path"`
	Weather   string `json:"weather"`
	Blocks    int    `json:"blocks"`
	Creatures int    `json:"creatures"`
	Players   int    `json:"players"`
	Altars    int    `json:"altars"`
}

// OpenReadOnly opens an index for queries without starting a writer.
func OpenReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

// RecentRituals returns the newest ritual events, optionally for one recipe.
func RecentRituals(ctx context.Context, db *sql.DB, recipeID string, limit int) ([]RitualRow, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT tick,kind,COALESCE(run_id,''),x,y,z,COALESCE(recipe_id,''),COALESCE(actor,''),COALESCE(reason,'') FROM rituals`
	args := []any{}
	if recipeID != "" {
		q += ` WHERE recipe_id = ?`
		args = append(args, recipeID)
	}
	q += ` ORDER BY tick DESC, seq DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RitualRow
	for rows.Next() {
		var r RitualRow
		var tick int64
		if err := rows.Scan(&tick, &r.Kind, &r.RunID, &r.Pos[0], &r.Pos[1], &r.Pos[2], &r.RecipeID, &r.Actor, &r.Reason); err != nil {
			return nil, err
		}
		r.Tick = uint64(tick)
		out = append(out, r)
	}
	return out, rows.Err()
}

func Snapshots(ctx context.Context, db *sql.DB, limit int) ([]SnapshotRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `SELECT tick,path,weather,blocks,creatures,players,altars FROM snapshots ORDER BY tick DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SnapshotRow
	for rows.Next() {
		var r SnapshotRow
		var tick int64
		if err := rows.Scan(&tick, &r.Path, &r.Weather, &r.Blocks, &r.Creatures, &r.Players, &r.Altars); err != nil {
			return nil, err
		}
		r.Tick = uint64(tick)
		out = append(out, r)
	}
	return out, rows.Err()
}

type SnapshotAltarRow struct {
	Tick        uint64 `json:"tick"`
	Pos         [3]int `json:"pos"`
	RecipeID    string `json:"recipe_id,omitempty"`
	Progress    int    `json:"progress"`
	ProcessTime int    `json:"process_time"`
	Catalyst    string `json:"catalyst,omitempty"`
}

// LatestSnapshotTick returns 0 when no snapshot has been indexed.
func LatestSnapshotTick(ctx context.Context, db *sql.DB) (uint64, error) {
	var t int64
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(tick),0) FROM snapshots`).Scan(&t); err != nil {
		return 0, err
	}
	if t < 0 {
		return 0, nil
	}
	return uint64(t), nil
}

// SnapshotAltars lists the altars captured by the snapshot at tick.
func SnapshotAltars(ctx context.Context, db *sql.DB, tick uint64) ([]SnapshotAltarRow, error) {
	rows, err := db.QueryContext(ctx, `SELECT x,y,z,COALESCE(recipe_id,''),progress,process_time,COALESCE(catalyst,'') FROM snapshot_altars WHERE tick=? ORDER BY x,y,z`, int64(tick))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SnapshotAltarRow
	for rows.Next() {
		r := SnapshotAltarRow{Tick: tick}
		if err := rows.Scan(&r.Pos[0], &r.Pos[1], &r.Pos[2], &r.RecipeID, &r.Progress, &r.ProcessTime, &r.Catalyst); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
