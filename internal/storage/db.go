package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"stockbook/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_cents INTEGER NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_items_name ON items(name);

CREATE TABLE IF NOT EXISTS feed_files (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  path TEXT NOT NULL,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(path)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  source TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// No UNIQUE constraint backs the one-record-per-name rule; the
// reconciliation and edit paths enforce it. Lookups therefore take the
// lowest id when duplicates have been introduced upstream.
func (d *DB) GetItemByName(name string) (*internal.ItemRecord, error) {
	row := d.conn.QueryRow(`
SELECT id, name, quantity, price_cents, updated_at
FROM items WHERE name = ? ORDER BY id LIMIT 1
`, name)
	return scanItem(row)
}

func (d *DB) GetItemByID(id int) (*internal.ItemRecord, error) {
	row := d.conn.QueryRow(`
SELECT id, name, quantity, price_cents, updated_at
FROM items WHERE id = ?
`, id)
	return scanItem(row)
}

func (d *DB) InsertItem(item internal.ItemRecord) (int, error) {
	result, err := d.conn.Exec(`
INSERT INTO items (name, quantity, price_cents, updated_at)
VALUES (?, ?, ?, ?)
`, item.Name, item.Quantity, item.PriceCents, item.UpdatedAt.Format(internal.DateLayout))
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func (d *DB) UpdateItem(item internal.ItemRecord) error {
	_, err := d.conn.Exec(`
UPDATE items SET name = ?, quantity = ?, price_cents = ?, updated_at = ?
WHERE id = ?
`, item.Name, item.Quantity, item.PriceCents, item.UpdatedAt.Format(internal.DateLayout), item.ID)
	return err
}

// UpdateItemByName overwrites the mutable fields of the record with the
// given name unconditionally. Reports whether a record was there to update.
func (d *DB) UpdateItemByName(name string, quantity int, priceCents int64, updatedAt time.Time) (bool, error) {
	result, err := d.conn.Exec(`
UPDATE items SET quantity = ?, price_cents = ?, updated_at = ?
WHERE name = ?
`, quantity, priceCents, updatedAt.Format(internal.DateLayout), name)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (d *DB) ListItems() ([]internal.ItemRecord, error) {
	rows, err := d.conn.Query(`
SELECT id, name, quantity, price_cents, updated_at FROM items
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ItemRecord
	for rows.Next() {
		var item internal.ItemRecord
		var date string
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.PriceCents, &date); err != nil {
			return nil, err
		}
		item.UpdatedAt, err = time.Parse(internal.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("item %d: malformed updated_at %q: %w", item.ID, date, err)
		}
		out = append(out, item)
	}

	return out, rows.Err()
}

// Tx scopes one reconciliation batch. The conditional statements below let
// the import path decide create/overwrite/discard without a separate read.
type Tx struct {
	tx *sql.Tx
}

func (d *DB) Begin() (*Tx, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// UpdateItemIfNewer overwrites quantity, price and date for the named
// record only when the incoming date is strictly newer. The stored id is
// untouched. Ties leave the stored record in place.
func (t *Tx) UpdateItemIfNewer(item internal.ItemRecord) (bool, error) {
	date := item.UpdatedAt.Format(internal.DateLayout)
	result, err := t.tx.Exec(`
UPDATE items SET quantity = ?, price_cents = ?, updated_at = ?
WHERE name = ? AND updated_at < ?
`, item.Quantity, item.PriceCents, date, item.Name, date)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// InsertItemIfAbsent creates the record unless one with the same name
// already exists.
func (t *Tx) InsertItemIfAbsent(item internal.ItemRecord) (bool, error) {
	result, err := t.tx.Exec(`
INSERT INTO items (name, quantity, price_cents, updated_at)
SELECT ?, ?, ?, ?
WHERE NOT EXISTS (SELECT 1 FROM items WHERE name = ?)
`, item.Name, item.Quantity, item.PriceCents, item.UpdatedAt.Format(internal.DateLayout), item.Name)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (d *DB) UpsertFeedFile(path, hash, status string) (internal.FeedFileRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO feed_files (path, hash, status)
VALUES (?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
  hash=excluded.hash,
  status=excluded.status,
  updatedAt=CURRENT_TIMESTAMP
`, path, hash, status)
	if err != nil {
		return internal.FeedFileRow{}, err
	}

	row, err := d.GetFeedFileByPath(path)
	if err != nil {
		return internal.FeedFileRow{}, err
	}
	if row == nil {
		return internal.FeedFileRow{}, errors.New("failed to upsert feed file")
	}
	return *row, nil
}

func (d *DB) GetFeedFileByPath(path string) (*internal.FeedFileRow, error) {
	var row internal.FeedFileRow
	err := d.conn.QueryRow(`
SELECT id, path, hash, status, createdAt, updatedAt
FROM feed_files WHERE path = ?
`, path).Scan(&row.ID, &row.Path, &row.Hash, &row.Status, &row.CreatedAt, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) UpdateFeedFileStatus(id int, status string) error {
	_, err := d.conn.Exec(`UPDATE feed_files SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

func (d *DB) InsertRun(runID, source string, counts map[string]int) error {
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (runId, source, countsJson) VALUES (?, ?, ?)`, runID, source, string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func scanItem(row *sql.Row) (*internal.ItemRecord, error) {
	var item internal.ItemRecord
	var date string
	err := row.Scan(&item.ID, &item.Name, &item.Quantity, &item.PriceCents, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item.UpdatedAt, err = time.Parse(internal.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("item %d: malformed updated_at %q: %w", item.ID, date, err)
	}
	return &item, nil
}
