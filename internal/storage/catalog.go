package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/gravsim/internal/analysis"

	_ "modernc.org/sqlite"
)

// Catalog indexes saved runs and their flagged black holes in SQLite.
type Catalog struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewCatalog(path string) *Catalog {
	return &Catalog{path: path}
}

func (c *Catalog) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return errors.New("catalog path is required")
	}
	if c.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", c.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	c.db = db
	return nil
}

func (c *Catalog) InsertRun(ctx context.Context, meta RunMetadata) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}

	timings, err := json.Marshal(meta.TimingsMs)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, matter, n, l, workers, relax, timings, black_holes, has_trajectory)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			matter = excluded.matter,
			timings = excluded.timings
	`, meta.ID, meta.Timestamp.Format(time.RFC3339Nano), meta.Matter, meta.N, meta.L,
		meta.Workers, meta.Relax, timings, meta.BlackHoles, boolInt(meta.HasTrajectory))
	return err
}

func (c *Catalog) MarkTrajectory(ctx context.Context, runID string) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	return execOne(ctx, db, runID, `UPDATE runs SET has_trajectory = 1 WHERE id = ?`, runID)
}

// ReplaceBlackHoles swaps the stored scan result of a run for holes.
func (c *Catalog) ReplaceBlackHoles(ctx context.Context, runID string, holes []analysis.BlackHole) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := execOne(ctx, tx, runID, `UPDATE runs SET black_holes = ? WHERE id = ?`, len(holes), runID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM black_holes WHERE run_id = ?`, runID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO black_holes (run_id, seq, i, j, k, x, y, z, curvature, mass)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for seq, bh := range holes {
		if _, err := stmt.ExecContext(ctx, runID, seq,
			bh.Index[0], bh.Index[1], bh.Index[2],
			bh.Position[0], bh.Position[1], bh.Position[2],
			bh.Curvature, bh.Mass); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (c *Catalog) BlackHoles(ctx context.Context, runID string) ([]analysis.BlackHole, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT i, j, k, x, y, z, curvature, mass
		FROM black_holes WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holes := make([]analysis.BlackHole, 0)
	for rows.Next() {
		var bh analysis.BlackHole
		if err := rows.Scan(&bh.Index[0], &bh.Index[1], &bh.Index[2],
			&bh.Position[0], &bh.Position[1], &bh.Position[2],
			&bh.Curvature, &bh.Mass); err != nil {
			return nil, err
		}
		holes = append(holes, bh)
	}
	return holes, rows.Err()
}

// Runs returns every catalogued run, newest first.
func (c *Catalog) Runs(ctx context.Context) ([]RunMetadata, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, created_at, matter, n, l, workers, relax, timings, black_holes, has_trajectory
		FROM runs ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		var (
			meta    RunMetadata
			created string
			timings []byte
		)
		if err := rows.Scan(&meta.ID, &created, &meta.Matter, &meta.N, &meta.L,
			&meta.Workers, &meta.Relax, &timings, &meta.BlackHoles, &meta.HasTrajectory); err != nil {
			return nil, err
		}
		if meta.Timestamp, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("run %s: %w", meta.ID, err)
		}
		if err := json.Unmarshal(timings, &meta.TimingsMs); err != nil {
			return nil, fmt.Errorf("run %s timings: %w", meta.ID, err)
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *Catalog) getDB() (*sql.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, errors.New("catalog is not initialized")
	}
	return c.db, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execOne(ctx context.Context, db execer, runID, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			matter TEXT NOT NULL,
			n INTEGER NOT NULL,
			l REAL NOT NULL,
			workers INTEGER NOT NULL,
			relax INTEGER NOT NULL,
			timings BLOB NOT NULL,
			black_holes INTEGER NOT NULL DEFAULT 0,
			has_trajectory INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS black_holes (
			run_id TEXT NOT NULL REFERENCES runs(id),
			seq INTEGER NOT NULL,
			i INTEGER NOT NULL,
			j INTEGER NOT NULL,
			k INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			curvature REAL NOT NULL,
			mass REAL NOT NULL,
			PRIMARY KEY (run_id, seq)
		);
	`)
	return err
}
