// Package cache keeps parsed tick data in SQLite so a demo is parsed once
// per player.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/younwookim/keyviz/internal/application/replay"
	"github.com/younwookim/keyviz/internal/domain/entity"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no cgo required)
)

const schema = `
CREATE TABLE IF NOT EXISTS replays (
	key       TEXT PRIMARY KEY,
	source    TEXT NOT NULL,
	player    TEXT NOT NULL,
	parsed_at TEXT NOT NULL,
	truncated INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS round_marks (
	key  TEXT NOT NULL REFERENCES replays(key) ON DELETE CASCADE,
	seq  INTEGER NOT NULL,
	kind INTEGER NOT NULL,
	tick INTEGER NOT NULL,
	PRIMARY KEY (key, seq)
);
CREATE TABLE IF NOT EXISTS tick_rows (
	key         TEXT NOT NULL REFERENCES replays(key) ON DELETE CASCADE,
	tick        INTEGER NOT NULL,
	flags       INTEGER NOT NULL,
	duck_amount REAL NOT NULL,
	velocity_z  REAL NOT NULL,
	PRIMARY KEY (key, tick)
);
`

// row flag bits
const (
	flagForward = 1 << iota
	flagBack
	flagLeft
	flagRight
	flagFire
	flagSecondaryFire
	flagUse
	flagWalking
	flagAirborne
)

// Store is a SQLite backed tick cache
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", path, err)
	}
	// one writer; database/sql would otherwise open several connections
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Key identifies a demo file version and a player. Changing the file
// (size or modification time) changes the key.
func Key(path, player string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s|%d|%d|%s", abs, fi.Size(), fi.ModTime().UnixNano(), player), nil
}

// Get returns the cached data for key
func (s *Store) Get(ctx context.Context, key string) (*replay.ReplayData, bool, error) {
	data := &replay.ReplayData{Version: replay.DataVersion}
	var truncated int

	err := s.db.QueryRowContext(ctx,
		`SELECT source, player, parsed_at, truncated FROM replays WHERE key = ?`, key).
		Scan(&data.Source, &data.Player, &data.ParsedAt, &truncated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cache: %w", err)
	}
	data.Truncated = truncated != 0

	marks, err := s.db.QueryContext(ctx,
		`SELECT kind, tick FROM round_marks WHERE key = ? ORDER BY seq`, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query round marks: %w", err)
	}
	defer func() { _ = marks.Close() }()
	for marks.Next() {
		var ev entity.RoundEvent
		if err := marks.Scan(&ev.Kind, &ev.Tick); err != nil {
			return nil, false, fmt.Errorf("failed to scan round mark: %w", err)
		}
		data.RoundMarks = append(data.RoundMarks, ev)
	}
	if err := marks.Err(); err != nil {
		return nil, false, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT tick, flags, duck_amount, velocity_z FROM tick_rows WHERE key = ? ORDER BY tick`, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query tick rows: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			r     entity.TickRow
			flags int64
		)
		if err := rows.Scan(&r.Tick, &flags, &r.DuckAmount, &r.VelocityZ); err != nil {
			return nil, false, fmt.Errorf("failed to scan tick row: %w", err)
		}
		unpackFlags(&r, flags)
		data.Rows = append(data.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	return data, true, nil
}

// Put stores data under key, replacing any previous entry
func (s *Store) Put(ctx context.Context, key string, data *replay.ReplayData) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cache write: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM replays WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to clear cache entry: %w", err)
	}

	parsedAt := data.ParsedAt
	if parsedAt == "" {
		parsedAt = time.Now().Format(time.RFC3339)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO replays (key, source, player, parsed_at, truncated) VALUES (?, ?, ?, ?, ?)`,
		key, data.Source, data.Player, parsedAt, boolInt(data.Truncated)); err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	markStmt, err := tx.PrepareContext(ctx, `INSERT INTO round_marks (key, seq, kind, tick) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = markStmt.Close() }()
	for i, ev := range data.RoundMarks {
		if _, err = markStmt.ExecContext(ctx, key, i, int(ev.Kind), int(ev.Tick)); err != nil {
			return fmt.Errorf("failed to insert round mark: %w", err)
		}
	}

	rowStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO tick_rows (key, tick, flags, duck_amount, velocity_z) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = rowStmt.Close() }()
	for _, r := range data.Rows {
		if _, err = rowStmt.ExecContext(ctx, key, int(r.Tick), packFlags(r), r.DuckAmount, r.VelocityZ); err != nil {
			return fmt.Errorf("failed to insert tick row: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache write: %w", err)
	}
	return nil
}

func packFlags(r entity.TickRow) int64 {
	var f int64
	set := func(b bool, bit int64) {
		if b {
			f |= bit
		}
	}
	set(r.Forward, flagForward)
	set(r.Back, flagBack)
	set(r.Left, flagLeft)
	set(r.Right, flagRight)
	set(r.Fire, flagFire)
	set(r.SecondaryFire, flagSecondaryFire)
	set(r.Use, flagUse)
	set(r.Walking, flagWalking)
	set(r.Airborne, flagAirborne)
	return f
}

func unpackFlags(r *entity.TickRow, f int64) {
	r.Forward = f&flagForward != 0
	r.Back = f&flagBack != 0
	r.Left = f&flagLeft != 0
	r.Right = f&flagRight != 0
	r.Fire = f&flagFire != 0
	r.SecondaryFire = f&flagSecondaryFire != 0
	r.Use = f&flagUse != 0
	r.Walking = f&flagWalking != 0
	r.Airborne = f&flagAirborne != 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
