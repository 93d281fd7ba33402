package localcache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/claude/fitlog/internal/models"
	_ "modernc.org/sqlite"
)

// Slot keys. The pending-sync slot is deleted outright when the set
// becomes empty, so its absence means "nothing pending".
const (
	slotSessions  = "workout_sessions"
	slotPending   = "pending_sync"
	slotTemplates = "workout_templates"
)

// Cache is the durable local store for the session list, the pending-sync
// id set, and the template list. It is a small key-value table over a
// single-file SQLite database.
//
// A nil *Cache is valid: all reads return empty and all writes are no-ops.
// This covers contexts with no writable storage (tests, one-shot tools).
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at dir/fitlog.db.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "fitlog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS slots (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating slots table: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// LoadSessions returns the persisted session list, or nil when the slot is
// absent or the cache is unavailable.
func (c *Cache) LoadSessions() ([]models.WorkoutSession, error) {
	var sessions []models.WorkoutSession
	if err := c.loadJSON(slotSessions, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SaveSessions persists the full session list, replacing the previous value.
func (c *Cache) SaveSessions(sessions []models.WorkoutSession) error {
	if sessions == nil {
		sessions = []models.WorkoutSession{}
	}
	return c.saveJSON(slotSessions, sessions)
}

// LoadPending returns the persisted pending-sync id set.
func (c *Cache) LoadPending() (map[string]struct{}, error) {
	var ids []string
	if err := c.loadJSON(slotPending, &ids); err != nil {
		return nil, err
	}
	pending := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		pending[id] = struct{}{}
	}
	return pending, nil
}

// SavePending persists the pending-sync id set. An empty set removes the
// slot entirely.
func (c *Cache) SavePending(pending map[string]struct{}) error {
	if len(pending) == 0 {
		return c.delete(slotPending)
	}
	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return c.saveJSON(slotPending, ids)
}

// LoadTemplates returns the persisted template list.
func (c *Cache) LoadTemplates() ([]models.WorkoutTemplate, error) {
	var templates []models.WorkoutTemplate
	if err := c.loadJSON(slotTemplates, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// SaveTemplates persists the full template list.
func (c *Cache) SaveTemplates(templates []models.WorkoutTemplate) error {
	if templates == nil {
		templates = []models.WorkoutTemplate{}
	}
	return c.saveJSON(slotTemplates, templates)
}

func (c *Cache) loadJSON(key string, dest any) error {
	if c == nil || c.db == nil {
		return nil
	}
	var value string
	err := c.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading slot %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return fmt.Errorf("decoding slot %s: %w", key, err)
	}
	return nil
}

func (c *Cache) saveJSON(key string, value any) error {
	if c == nil || c.db == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding slot %s: %w", key, err)
	}
	_, err = c.db.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(data),
	)
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

func (c *Cache) delete(key string) error {
	if c == nil || c.db == nil {
		return nil
	}
	if _, err := c.db.Exec(`DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting slot %s: %w", key, err)
	}
	return nil
}

// HasPendingSlot reports whether the pending-sync slot exists at all.
// Exposed for tests asserting the slot is removed when the set empties.
func (c *Cache) HasPendingSlot() (bool, error) {
	if c == nil || c.db == nil {
		return false, nil
	}
	var count int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM slots WHERE key = ?`, slotPending).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
