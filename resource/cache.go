package resource

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Cache stores fetched resources in SQLite, keyed by URI. It uses
// modernc.org/sqlite (pure Go).
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the cache database at the given path and
// ensures the schema exists.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	schema := `
	CREATE TABLE IF NOT EXISTS resources (
		uri        TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		fetched_at DATETIME NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Get returns the cached contents for uri, if present.
func (c *Cache) Get(uri string) ([]byte, bool, error) {
	var data []byte
	err := c.db.QueryRow(`SELECT data FROM resources WHERE uri = ?`, uri).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Put stores or replaces the cached contents for uri.
func (c *Cache) Put(uri string, data []byte) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO resources (uri, data, fetched_at) VALUES (?, ?, ?)`,
		uri, data, time.Now().UTC(),
	)
	return err
}

// Delete removes one entry.
func (c *Cache) Delete(uri string) error {
	_, err := c.db.Exec(`DELETE FROM resources WHERE uri = ?`, uri)
	return err
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
