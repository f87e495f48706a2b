// Package storage persists rosters, the partner set and the species catalog
// in a local sqlite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tayloree/luckydex/internal/roster"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS creatures (
  dex        INTEGER PRIMARY KEY,
  name       TEXT NOT NULL,
  is_lucky   INTEGER NOT NULL CHECK (is_lucky IN (0,1))
);
CREATE TABLE IF NOT EXISTS roster_meta (
  id           INTEGER PRIMARY KEY CHECK (id = 1),
  last_updated TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS partner (
  id         INTEGER PRIMARY KEY CHECK (id = 1),
  name       TEXT NOT NULL,
  dex        TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog_names (
  dex        INTEGER PRIMARY KEY,
  name       TEXT NOT NULL,
  fetched_at TEXT NOT NULL
);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// withTx runs fn in a transaction, rolling back on error.
func (d *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveRoster replaces the stored roster with r.
func (d *DB) SaveRoster(ctx context.Context, r roster.Roster) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM creatures`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO creatures(dex, name, is_lucky) VALUES(?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, c := range r.Creatures {
			if _, err := stmt.ExecContext(ctx, c.DexNumber, c.Name, boolToInt(c.IsLucky)); err != nil {
				return fmt.Errorf("inserting #%d: %w", c.DexNumber, err)
			}
		}
		return touchRoster(ctx, tx, r.LastUpdated)
	})
}

func touchRoster(ctx context.Context, tx *sql.Tx, at time.Time) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO roster_meta(id, last_updated) VALUES(1, ?)
ON CONFLICT(id) DO UPDATE SET last_updated = excluded.last_updated`, formatTime(at))
	return err
}

// LoadRoster reads the stored roster. ErrNotFound means nothing was saved.
func (d *DB) LoadRoster(ctx context.Context) (roster.Roster, error) {
	var updated string
	err := d.sql.QueryRowContext(ctx, `SELECT last_updated FROM roster_meta WHERE id = 1`).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.Roster{}, ErrNotFound
	}
	if err != nil {
		return roster.Roster{}, err
	}
	lastUpdated, err := parseTime(updated)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("parsing roster timestamp: %w", err)
	}

	rows, err := d.sql.QueryContext(ctx, `SELECT dex, name, is_lucky FROM creatures ORDER BY dex`)
	if err != nil {
		return roster.Roster{}, err
	}
	defer rows.Close()

	var creatures []roster.Creature
	for rows.Next() {
		var (
			c     roster.Creature
			lucky int
		)
		if err := rows.Scan(&c.DexNumber, &c.Name, &lucky); err != nil {
			return roster.Roster{}, err
		}
		c.IsLucky = lucky == 1
		creatures = append(creatures, c)
	}
	if err := rows.Err(); err != nil {
		return roster.Roster{}, err
	}
	return roster.Roster{Creatures: creatures, LastUpdated: lastUpdated}, nil
}

// ToggleLucky flips one creature's lucky flag and returns the updated row.
func (d *DB) ToggleLucky(ctx context.Context, dex int, now time.Time) (roster.Creature, error) {
	var c roster.Creature
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE creatures SET is_lucky = 1 - is_lucky WHERE dex = ?`, dex)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}
		var lucky int
		if err := tx.QueryRowContext(ctx, `SELECT dex, name, is_lucky FROM creatures WHERE dex = ?`, dex).Scan(&c.DexNumber, &c.Name, &lucky); err != nil {
			return err
		}
		c.IsLucky = lucky == 1
		return touchRoster(ctx, tx, now)
	})
	return c, err
}

// SavePartner stores p, replacing any previous partner.
func (d *DB) SavePartner(ctx context.Context, p roster.Partner) error {
	dex, err := json.Marshal(p.Dex)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx, `INSERT INTO partner(id, name, dex, updated_at) VALUES(1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, dex = excluded.dex, updated_at = excluded.updated_at`,
		p.Name, string(dex), formatTime(p.UpdatedAt))
	return err
}

// LoadPartner reads the stored partner. ErrNotFound means none is set.
func (d *DB) LoadPartner(ctx context.Context) (roster.Partner, error) {
	var (
		p              roster.Partner
		dex, updatedAt string
	)
	err := d.sql.QueryRowContext(ctx, `SELECT name, dex, updated_at FROM partner WHERE id = 1`).Scan(&p.Name, &dex, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.Partner{}, ErrNotFound
	}
	if err != nil {
		return roster.Partner{}, err
	}
	if err := json.Unmarshal([]byte(dex), &p.Dex); err != nil {
		return roster.Partner{}, fmt.Errorf("decoding partner dex list: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return roster.Partner{}, fmt.Errorf("parsing partner timestamp: %w", err)
	}
	return p, nil
}

// ClearPartner removes the stored partner. Clearing an empty slot is not an
// error.
func (d *DB) ClearPartner(ctx context.Context) error {
	_, err := d.sql.ExecContext(ctx, `DELETE FROM partner WHERE id = 1`)
	return err
}

// SaveCatalog replaces the stored species names.
func (d *DB) SaveCatalog(ctx context.Context, names map[int]string) error {
	now := formatTime(time.Now())
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_names`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO catalog_names(dex, name, fetched_at) VALUES(?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for dex, name := range names {
			if _, err := stmt.ExecContext(ctx, dex, name, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadCatalog returns the stored species names, empty when none are saved.
func (d *DB) LoadCatalog(ctx context.Context) (map[int]string, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT dex, name FROM catalog_names`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[int]string)
	for rows.Next() {
		var (
			dex  int
			name string
		)
		if err := rows.Scan(&dex, &name); err != nil {
			return nil, err
		}
		names[dex] = name
	}
	return names, rows.Err()
}
