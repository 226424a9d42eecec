// Package store persists built knowledge bases to SQLite, with sqlite-vec
// embeddings and FTS5 full-text search over entity sections.
package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"tracekb/kb"
)

func init() {
	sqlite_vec.Auto()
}

// Run represents a row in the runs table.
type Run struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// Section represents a row in the sections table. Payload holds the full
// entity as JSON; the scalar columns are the searchable projection.
type Section struct {
	ID       int64  `json:"id"`
	RunID    int64  `json:"run_id"`
	UUID     string `json:"uuid"`
	Category string `json:"category"`
	RefID    string `json:"ref_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Payload  string `json:"payload,omitempty"`
}

// Relationship represents a row in the relationships table.
type Relationship struct {
	ID           int64  `json:"id"`
	RunID        int64  `json:"run_id"`
	Category     string `json:"category"`
	SourceUUID   string `json:"source_uuid"`
	TargetUUID   string `json:"target_uuid"`
	SourceType   string `json:"source_type,omitempty"`
	RelationType string `json:"relation_type"`
}

// SearchResult holds a section with its retrieval score.
type SearchResult struct {
	SectionID int64   `json:"section_id"`
	UUID      string  `json:"uuid"`
	Category  string  `json:"category"`
	RefID     string  `json:"ref_id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Score     float64 `json:"score"`
}

// Section categories as stored in the category column.
const (
	CategoryContext       = "context"
	CategoryFunctional    = "requirement_functional"
	CategoryNonFunctional = "requirement_nonfunctional"
	CategoryDesign        = "design"
	CategoryCode          = "code"
	CategoryTestCase      = "test_case"
)

// Store wraps the SQLite database for all tracekb persistence.
type Store struct {
	db           *sql.DB
	embeddingDim int
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema including sqlite-vec and FTS5 virtual tables.
func New(dbPath string, embeddingDim int) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL(embeddingDim)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db, embeddingDim: embeddingDim}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// EmbeddingDim returns the configured embedding dimension.
func (s *Store) EmbeddingDim() int {
	return s.embeddingDim
}

// SaveKnowledgeBase persists a whole knowledge base as a new run: one
// section row per entity, one relationship row per edge, all in a single
// transaction. Returns the run ID.
func (s *Store) SaveKnowledgeBase(ctx context.Context, name string, base *kb.KnowledgeBase) (int64, error) {
	var runID int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "INSERT INTO runs (name) VALUES (?)", name)
		if err != nil {
			return err
		}
		runID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sections (run_id, uuid, category, ref_id, title, content, payload)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		insert := func(uuid, category, refID, title, content string, payload any) error {
			data, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			_, err = stmt.ExecContext(ctx, runID, uuid, category, refID, title, content, string(data))
			return err
		}

		for _, c := range base.Context.Sections {
			if err := insert(c.ID, CategoryContext, c.Type, c.Title, c.Content, c); err != nil {
				return err
			}
		}
		for _, fr := range base.Requirements.FR {
			if err := insert(fr.ID, CategoryFunctional, fr.FRID, fr.Title, fr.Content, fr); err != nil {
				return err
			}
		}
		for _, nfr := range base.Requirements.NFR {
			if err := insert(nfr.ID, CategoryNonFunctional, nfr.NFRID, nfr.Title, nfr.Content, nfr); err != nil {
				return err
			}
		}
		for _, d := range base.Design.Sections {
			if err := insert(d.ID, CategoryDesign, d.DesID, d.Title, d.Content, d); err != nil {
				return err
			}
		}
		for _, c := range base.Code.Sections {
			title := c.Name
			if title == "" {
				title = c.FilePath
			}
			if err := insert(c.ID, CategoryCode, c.CodeID, title, c.Content, c); err != nil {
				return err
			}
		}
		for _, tc := range base.TestCases.Sections {
			if err := insert(tc.ID, CategoryTestCase, tc.TCID, tc.Name, tc.Content, tc); err != nil {
				return err
			}
		}

		relStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO relationships (run_id, category, source_uuid, target_uuid, source_type, relation_type)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer relStmt.Close()

		rels := base.Relationships
		for _, r := range rels.Req2Des {
			if _, err := relStmt.ExecContext(ctx, runID, "Req2Des",
				r.RequirementID, r.DesignID, r.RequirementType, r.RelationshipType); err != nil {
				return err
			}
		}
		for _, r := range rels.Req2Code {
			if _, err := relStmt.ExecContext(ctx, runID, "Req2Code",
				r.RequirementID, r.CodeID, r.RequirementType, r.RelationshipType); err != nil {
				return err
			}
		}
		for _, r := range rels.Des2Code {
			if _, err := relStmt.ExecContext(ctx, runID, "Des2Code",
				r.DesignID, r.CodeID, "", r.RelationshipType); err != nil {
				return err
			}
		}
		for _, r := range rels.Code2TC {
			if _, err := relStmt.ExecContext(ctx, runID, "Code2TC",
				r.CodeID, r.TestCaseID, "", r.RelationshipType); err != nil {
				return err
			}
		}
		for _, r := range rels.Req2TC {
			if _, err := relStmt.ExecContext(ctx, runID, "Req2TC",
				r.RequirementID, r.TestCaseID, r.RequirementType, r.RelationshipType); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return runID, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM runs ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SectionsByCategory returns all sections of a run in one category.
func (s *Store) SectionsByCategory(ctx context.Context, runID int64, category string) ([]Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, uuid, category, ref_id, title, content, payload
		FROM sections WHERE run_id = ? AND category = ? ORDER BY id
	`, runID, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []Section
	for rows.Next() {
		var sec Section
		var refID, title, content, payload sql.NullString
		if err := rows.Scan(&sec.ID, &sec.RunID, &sec.UUID, &sec.Category,
			&refID, &title, &content, &payload); err != nil {
			return nil, err
		}
		sec.RefID = refID.String
		sec.Title = title.String
		sec.Content = content.String
		sec.Payload = payload.String
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

// RelationshipsByRun returns all relationship rows of a run.
func (s *Store) RelationshipsByRun(ctx context.Context, runID int64) ([]Relationship, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, category, source_uuid, target_uuid, source_type, relation_type
		FROM relationships WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rels []Relationship
	for rows.Next() {
		var r Relationship
		var srcType sql.NullString
		if err := rows.Scan(&r.ID, &r.RunID, &r.Category, &r.SourceUUID,
			&r.TargetUUID, &srcType, &r.RelationType); err != nil {
			return nil, err
		}
		r.SourceType = srcType.String
		rels = append(rels, r)
	}
	return rels, rows.Err()
}

// InsertSectionEmbedding stores a vector embedding for a section row.
func (s *Store) InsertSectionEmbedding(ctx context.Context, sectionID int64, embedding []float32) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO vec_sections (section_id, embedding) VALUES (?, ?)",
		sectionID, serializeFloat32(embedding))
	return err
}

// SectionIDByUUID resolves a section's database row ID from its entity UUID.
func (s *Store) SectionIDByUUID(ctx context.Context, uuid string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM sections WHERE uuid = ?", uuid).Scan(&id)
	return id, err
}

// SearchSimilar performs a KNN search returning the top-k nearest sections.
func (s *Store) SearchSimilar(ctx context.Context, queryEmbedding []float32, k int) ([]SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.section_id, v.distance,
			sec.uuid, sec.category, sec.ref_id, sec.title, sec.content
		FROM vec_sections v
		JOIN sections sec ON sec.id = v.section_id
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance
	`, serializeFloat32(queryEmbedding), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var distance float64
		var refID, title, content sql.NullString
		if err := rows.Scan(&r.SectionID, &distance,
			&r.UUID, &r.Category, &refID, &title, &content); err != nil {
			return nil, err
		}
		r.RefID = refID.String
		r.Title = title.String
		r.Content = content.String
		// Convert distance to similarity score (1 - distance for cosine)
		r.Score = 1.0 - distance
		results = append(results, r)
	}
	return results, rows.Err()
}

// SearchText performs a full-text search using FTS5 BM25 ranking.
func (s *Store) SearchText(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.rowid, f.rank,
			sec.uuid, sec.category, sec.ref_id, sec.title, sec.content
		FROM sections_fts f
		JOIN sections sec ON sec.id = f.rowid
		WHERE sections_fts MATCH ?
		ORDER BY f.rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var rank float64
		var refID, title, content sql.NullString
		if err := rows.Scan(&r.SectionID, &rank,
			&r.UUID, &r.Category, &refID, &title, &content); err != nil {
			return nil, err
		}
		r.RefID = refID.String
		r.Title = title.String
		r.Content = content.String
		// FTS5 rank is negative (lower = better), convert to positive score
		r.Score = -rank
		results = append(results, r)
	}
	return results, rows.Err()
}

// RunStats holds counts of key database objects for one run.
type RunStats struct {
	Sections      int `json:"sections"`
	Relationships int `json:"relationships"`
	Embeddings    int `json:"embeddings"`
}

// Stats returns section, relationship, and embedding counts for a run.
func (s *Store) Stats(ctx context.Context, runID int64) (*RunStats, error) {
	stats := &RunStats{}
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sections WHERE run_id = ?", runID).Scan(&stats.Sections); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM relationships WHERE run_id = ?", runID).Scan(&stats.Relationships); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vec_sections v
		JOIN sections sec ON sec.id = v.section_id
		WHERE sec.run_id = ?`, runID).Scan(&stats.Embeddings); err != nil {
		return nil, err
	}
	return stats, nil
}

// --- helpers ---

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// serializeFloat32 converts a float32 slice to little-endian bytes for sqlite-vec.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
