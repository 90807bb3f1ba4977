package store

// Schema is the complete avis schema.
const Schema = `
-- One row per scrape run
CREATE TABLE IF NOT EXISTS runs (
    id               TEXT PRIMARY KEY,
    business         TEXT NOT NULL,
    total_found      INTEGER NOT NULL DEFAULT 0,
    total_extracted  INTEGER NOT NULL DEFAULT 0,
    errors_json      TEXT NOT NULL DEFAULT '[]',
    scraped_at       INTEGER NOT NULL,
    created_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_business ON runs(business, scraped_at DESC);

-- Reviews, deduplicated across runs by content hash
CREATE TABLE IF NOT EXISTS reviews (
    id                TEXT PRIMARY KEY,
    run_id            TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    content_hash      TEXT NOT NULL UNIQUE,
    reviewer          TEXT NOT NULL DEFAULT '',
    rating            TEXT NOT NULL DEFAULT '',
    stars             REAL NOT NULL DEFAULT 0,
    text              TEXT NOT NULL DEFAULT '',
    published         TEXT NOT NULL DEFAULT '',
    owner_response    TEXT NOT NULL DEFAULT '',
    business          TEXT NOT NULL,
    scraped_at        INTEGER NOT NULL,
    translated        INTEGER NOT NULL DEFAULT 0,
    original_language TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_reviews_run ON reviews(run_id);
CREATE INDEX IF NOT EXISTS idx_reviews_business ON reviews(business);
`
