// Package prefs keeps ephemeral UI preferences in a local SQLite file:
// favorite products, the last open tab, per-page size overrides. Nothing
// here is authoritative (the server owns all record state), so every read
// is best-effort and callers tolerate missing data.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

const fileName = "prefs.sqlite"

// Store locates the preference database. Dir defaults to the user config
// directory when empty.
type Store struct {
	Dir string
}

// DefaultDir resolves the per-user preference directory.
func DefaultDir() string {
	if v := os.Getenv("BAZAAR_CONFIG_DIR"); v != "" {
		return v
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "bazaar")
}

func (s Store) dir() string {
	if s.Dir != "" {
		return s.Dir
	}
	return DefaultDir()
}

func (s Store) open(ctx context.Context) (*sql.DB, error) {
	dir := s.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(dir, fileName))
	if err != nil {
		return nil, err
	}
	// WAL + busy_timeout keep concurrent CLI/TUI invocations from tripping
	// over "database is locked".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS favorites (
			product_id TEXT PRIMARY KEY,
			added_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s Store) getKV(ctx context.Context, key string) (string, bool, error) {
	db, err := s.open(ctx)
	if err != nil {
		return "", false, err
	}
	defer db.Close()
	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s Store) setKV(ctx context.Context, key, value string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx,
		`INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		key, value)
	return err
}

// LastTab returns the collection tab that was open when the TUI last exited.
func (s Store) LastTab(ctx context.Context) (string, bool) {
	v, ok, err := s.getKV(ctx, "lastTab")
	if err != nil {
		return "", false
	}
	return v, ok
}

// SetLastTab records the open tab for the next launch.
func (s Store) SetLastTab(ctx context.Context, tab string) error {
	return s.setKV(ctx, "lastTab", tab)
}

// PageSize returns the user's page-size override for a collection.
func (s Store) PageSize(ctx context.Context, collection string) (int, bool) {
	v, ok, err := s.getKV(ctx, "pageSize:"+collection)
	if err != nil || !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// SetPageSize stores a page-size override for a collection.
func (s Store) SetPageSize(ctx context.Context, collection string, n int) error {
	return s.setKV(ctx, "pageSize:"+collection, strconv.Itoa(n))
}

// Favorites returns the locally starred product ids, newest first.
func (s Store) Favorites(ctx context.Context) ([]string, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	rows, err := db.QueryContext(ctx, `SELECT product_id FROM favorites ORDER BY added_at_unixms DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ToggleFavorite stars or unstars a product, returning the new state.
func (s Store) ToggleFavorite(ctx context.Context, productID string) (bool, error) {
	db, err := s.open(ctx)
	if err != nil {
		return false, err
	}
	defer db.Close()
	res, err := db.ExecContext(ctx, `DELETE FROM favorites WHERE product_id = ?`, productID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO favorites (product_id, added_at_unixms) VALUES (?, ?)`,
		productID, time.Now().UnixMilli())
	return err == nil, err
}

// IsFavorite reports whether a product is starred. Best-effort: errors read
// as "not starred".
func (s Store) IsFavorite(ctx context.Context, productID string) bool {
	db, err := s.open(ctx)
	if err != nil {
		return false
	}
	defer db.Close()
	var one int
	err = db.QueryRowContext(ctx, `SELECT 1 FROM favorites WHERE product_id = ?`, productID).Scan(&one)
	return err == nil
}
