// Package cache memoizes pure code-generation fragments across
// recompiles of the same unit. It is a strict speed optimization: a cache
// miss, or running with no cache attached at all, produces byte-identical
// output to computing the fragment directly (see DESIGN.md). Built on
// modernc.org/sqlite, giving it a concrete home in the long-running
// codegen service (cmd/sindaccd), where recompiling the same unit
// repeatedly is the common case.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// FragmentCache stores content-addressed C-text fragments keyed by a
// compilation-unit UUID and a hash of the fragment's inputs.
type FragmentCache struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (creating if necessary) a sqlite-backed fragment cache at
// path. Pass ":memory:" for a process-local, non-persistent cache.
func Open(path string) (*FragmentCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open fragment cache: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS fragments (
		unit TEXT NOT NULL,
		key  TEXT NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (unit, key)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init fragment cache schema: %w", err)
	}
	return &FragmentCache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *FragmentCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Key hashes an arbitrary set of input strings into a stable cache key.
func Key(inputs ...string) string {
	h := sha256.New()
	for _, in := range inputs {
		h.Write([]byte(in))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached fragment for (unit, key), or ok=false on a miss.
func (c *FragmentCache) Get(unit, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var text string
	err := c.db.QueryRow(`SELECT text FROM fragments WHERE unit = ? AND key = ?`, unit, key).Scan(&text)
	if err != nil {
		return "", false
	}
	return text, true
}

// Put stores a computed fragment for (unit, key).
func (c *FragmentCache) Put(unit, key, text string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.db.Exec(`INSERT OR REPLACE INTO fragments (unit, key, text) VALUES (?, ?, ?)`, unit, key, text)
}

// Memoize runs compute and caches its result under (unit, key), returning
// the cached value on a hit without calling compute again.
func (c *FragmentCache) Memoize(unit, key string, compute func() string) string {
	if c == nil {
		return compute()
	}
	if v, ok := c.Get(unit, key); ok {
		return v
	}
	v := compute()
	c.Put(unit, key, v)
	return v
}
