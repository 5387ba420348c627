package cache

// embeddedSchema contains the SQLite schema of the photo cache
const embeddedSchema = `
CREATE TABLE IF NOT EXISTS photo_cache (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cache_key TEXT NOT NULL UNIQUE,
    ref TEXT NOT NULL,
    data BLOB NOT NULL,
    size INTEGER NOT NULL,

    -- unix seconds
    created_at INTEGER NOT NULL,
    accessed_at INTEGER NOT NULL,
    expires_at INTEGER,
    hits INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_photo_expires ON photo_cache(expires_at);
`
