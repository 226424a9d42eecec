package store

import "fmt"

// schemaSQL returns the DDL for all tables. embeddingDim controls the
// vec0 virtual table dimension.
func schemaSQL(embeddingDim int) string {
	return fmt.Sprintf(`
-- One row per knowledge base build
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Every typed entity of a knowledge base, one row per section.
-- uuid is the cross-reference key used by relationships.
CREATE TABLE IF NOT EXISTS sections (
    id INTEGER PRIMARY KEY,
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    uuid TEXT NOT NULL UNIQUE,
    category TEXT NOT NULL,
    ref_id TEXT,
    title TEXT,
    content TEXT,
    payload JSON
);

-- Inferred traceability edges between sections
CREATE TABLE IF NOT EXISTS relationships (
    id INTEGER PRIMARY KEY,
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    category TEXT NOT NULL,
    source_uuid TEXT NOT NULL,
    target_uuid TEXT NOT NULL,
    source_type TEXT,
    relation_type TEXT NOT NULL
);

-- Vector embeddings via sqlite-vec
CREATE VIRTUAL TABLE IF NOT EXISTS vec_sections USING vec0(
    section_id INTEGER PRIMARY KEY,
    embedding float[%d]
);

-- Full-text search via FTS5
CREATE VIRTUAL TABLE IF NOT EXISTS sections_fts USING fts5(
    title,
    content,
    content='sections',
    content_rowid='id',
    tokenize='porter unicode61'
);

-- FTS triggers to keep index in sync
CREATE TRIGGER IF NOT EXISTS sections_ai AFTER INSERT ON sections BEGIN
    INSERT INTO sections_fts(rowid, title, content) VALUES (new.id, new.title, new.content);
END;
CREATE TRIGGER IF NOT EXISTS sections_ad AFTER DELETE ON sections BEGIN
    INSERT INTO sections_fts(sections_fts, rowid, title, content) VALUES ('delete', old.id, old.title, old.content);
END;
CREATE TRIGGER IF NOT EXISTS sections_au AFTER UPDATE ON sections BEGIN
    INSERT INTO sections_fts(sections_fts, rowid, title, content) VALUES ('delete', old.id, old.title, old.content);
    INSERT INTO sections_fts(sections_fts, rowid, title, content) VALUES (new.id, new.title, new.content);
END;

-- Indexes
CREATE INDEX IF NOT EXISTS idx_sections_run ON sections(run_id);
CREATE INDEX IF NOT EXISTS idx_sections_category ON sections(category);
CREATE INDEX IF NOT EXISTS idx_relationships_run ON relationships(run_id);
CREATE INDEX IF NOT EXISTS idx_relationships_category ON relationships(category);
CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships(source_uuid);
CREATE INDEX IF NOT EXISTS idx_relationships_target ON relationships(target_uuid);
`, embeddingDim)
}
