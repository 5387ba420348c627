// Package cache keeps downloaded photo bytes in SQLite so repeated renders of
// the same report do not hit the network again.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/api"
	"github.com/flanksource/informe/images"
	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrCacheDisabled indicates caching is disabled
	ErrCacheDisabled = errors.New("caching is disabled")
	// ErrNotFound indicates the entry was not found or has expired
	ErrNotFound = errors.New("cache entry not found")
)

// Config holds cache configuration
type Config struct {
	DBPath  string        `yaml:"path,omitempty" json:"path,omitempty"` // default: ~/.cache/informe.db
	TTL     time.Duration `yaml:"ttl,omitempty" json:"ttl,omitempty"`
	NoCache bool          `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// Entry is one cached photo.
type Entry struct {
	ExpiresAt *time.Time

	CacheKey string
	Ref      api.ImageRef
	Data     []byte

	CreatedAt  time.Time
	AccessedAt time.Time
	Hits       int64
}

// Stats summarises the cache contents.
type Stats struct {
	Entries int64
	Bytes   int64
	Hits    int64
	Expired int64
}

// Cache stores photo bytes in SQLite
type Cache struct {
	db     *sql.DB
	config Config
	now    func() time.Time
}

// DefaultPath is the cache database used when Config.DBPath is empty.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to get home directory: %w", herr)
		}
		dir = filepath.Join(homeDir, ".cache")
	}
	return filepath.Join(dir, "informe.db"), nil
}

// New opens, creating if needed, the cache database.
func New(config Config) (*Cache, error) {
	if config.DBPath == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		config.DBPath = path
	}

	if err := os.MkdirAll(filepath.Dir(config.DBPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(embeddedSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Cache{db: db, config: config, now: time.Now}, nil
}

// Path returns the database file in use.
func (c *Cache) Path() string {
	return c.config.DBPath
}

// Close closes the database connection
func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func key(ref api.ImageRef) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(strings.TrimSpace(ref.String()))))
}

// Get returns the cached bytes for ref.
func (c *Cache) Get(ref api.ImageRef) (*Entry, error) {
	if c.config.NoCache {
		return nil, ErrCacheDisabled
	}

	now := c.now().Unix()
	entry := Entry{CacheKey: key(ref)}
	var refText string
	var created, accessed int64
	var expires sql.NullInt64
	err := c.db.QueryRow(`
		SELECT ref, data, created_at, accessed_at, expires_at, hits
		FROM photo_cache
		WHERE cache_key = ? AND (expires_at IS NULL OR expires_at > ?)
	`, entry.CacheKey, now).Scan(&refText, &entry.Data, &created, &accessed, &expires, &entry.Hits)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	entry.Ref = api.ImageRef(refText)
	entry.CreatedAt = time.Unix(created, 0)
	entry.AccessedAt = time.Unix(accessed, 0)
	if expires.Valid {
		t := time.Unix(expires.Int64, 0)
		entry.ExpiresAt = &t
	}

	_, _ = c.db.Exec("UPDATE photo_cache SET accessed_at = ?, hits = hits + 1 WHERE cache_key = ?", now, entry.CacheKey)
	return &entry, nil
}

// Set stores data for ref, replacing any previous entry.
func (c *Cache) Set(ref api.ImageRef, data []byte) error {
	if c.config.NoCache {
		return nil
	}
	now := c.now()
	var expiresAt *int64
	if c.config.TTL > 0 {
		exp := now.Add(c.config.TTL).Unix()
		expiresAt = &exp
	}

	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO photo_cache (cache_key, ref, data, size, created_at, accessed_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, key(ref), ref.String(), data, len(data), now.Unix(), now.Unix(), expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// Stats reports the number and size of cached photos.
func (c *Cache) Stats() (Stats, error) {
	var s Stats
	err := c.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(size), 0),
		       COALESCE(SUM(hits), 0),
		       COALESCE(SUM(CASE WHEN expires_at IS NOT NULL AND expires_at <= ? THEN 1 ELSE 0 END), 0)
		FROM photo_cache
	`, c.now().Unix()).Scan(&s.Entries, &s.Bytes, &s.Hits, &s.Expired)
	if err != nil {
		return s, fmt.Errorf("failed to get stats: %w", err)
	}
	return s, nil
}

// Clear removes every entry, or only expired ones when expiredOnly is set.
func (c *Cache) Clear(expiredOnly bool) (int64, error) {
	query := "DELETE FROM photo_cache"
	var args []interface{}
	if expiredOnly {
		query += " WHERE expires_at IS NOT NULL AND expires_at <= ?"
		args = append(args, c.now().Unix())
	}
	result, err := c.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// Resolver serves remote photos from the cache, falling back to Next and
// storing what it fetched. Local paths always go straight to Next.
type Resolver struct {
	Cache *Cache
	Next  images.Resolver
}

func NewResolver(c *Cache, next images.Resolver) *Resolver {
	return &Resolver{Cache: c, Next: next}
}

func (r *Resolver) Resolve(ctx context.Context, ref api.ImageRef) ([]byte, error) {
	if r.Cache == nil || !remote(ref) {
		return r.Next.Resolve(ctx, ref)
	}
	entry, err := r.Cache.Get(ref)
	if err == nil {
		logger.Tracef("photo cache hit %s", ref)
		return entry.Data, nil
	}
	if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrCacheDisabled) {
		logger.Warnf("photo cache lookup %s: %v", ref, err)
	}

	data, err := r.Next.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ref, data); err != nil {
		logger.Warnf("photo cache store %s: %v", ref, err)
	}
	return data, nil
}

func remote(ref api.ImageRef) bool {
	s := strings.TrimSpace(ref.String())
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
