// Package store persists trained embeddings in sqlite as a table of
// (word, dimension-index, value) triples, one run per training invocation.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/adalundhe/lexembed/core/embed"
	"github.com/adalundhe/lexembed/core/vocab"
)

//go:embed schema.sql
var schemaSQL string

// Errors returned by the store.
var (
	// ErrRunNotFound indicates a run ID with no stored rows.
	ErrRunNotFound = errors.New("run not found")

	// ErrNoRuns indicates an empty store.
	ErrNoRuns = errors.New("store holds no runs")
)

// Connection pool defaults, sized for a local single-user tool.
const (
	DefaultMaxOpenConns    = 10
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = time.Hour
)

// Config configures the embedding store.
type Config struct {
	Path         string
	MaxOpenConns int
	MaxIdleConns int
}

// RunMeta describes one training run.
type RunMeta struct {
	ID         string
	Corpus     string
	WindowSize int
	Dimensions int
	VocabSize  int
	CreatedAt  time.Time
}

// DB is the embedding store.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the store at cfg.Path.
func Open(cfg Config) (*DB, error) {
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = DefaultMaxOpenConns
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = DefaultMaxIdleConns
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close releases the database handle.
func (s *DB) Close() error {
	return s.db.Close()
}

// SaveEmbedding writes one run and its triples in a single transaction,
// returning the generated run ID.
func (s *DB) SaveEmbedding(ctx context.Context, corpus string, windowSize int, emb *embed.Embedding) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save embedding: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, corpus, window_size, dimensions, vocab_size) VALUES (?, ?, ?, ?, ?)`,
		runID, corpus, windowSize, emb.Dim(), emb.Size())
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vectors (run_id, word, dim, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for id, word := range emb.Words() {
		vec := emb.VectorByID(id)
		for d, value := range vec {
			if _, err := stmt.ExecContext(ctx, runID, word, d, value); err != nil {
				return "", fmt.Errorf("save vector %q[%d]: %w", word, d, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save embedding: %w", err)
	}
	return runID, nil
}

// LoadEmbedding reconstructs the embedding for a run from its triples.
func (s *DB) LoadEmbedding(ctx context.Context, runID string) (*embed.Embedding, error) {
	meta, err := s.Run(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT word, dim, value FROM vectors WHERE run_id = ? ORDER BY word, dim`, runID)
	if err != nil {
		return nil, fmt.Errorf("load vectors: %w", err)
	}
	defer rows.Close()

	words := make([]string, 0, meta.VocabSize)
	values := make([]float64, 0, meta.VocabSize*meta.Dimensions)
	var lastWord string
	for rows.Next() {
		var word string
		var dim int
		var value float64
		if err := rows.Scan(&word, &dim, &value); err != nil {
			return nil, fmt.Errorf("load vectors: %w", err)
		}
		if word != lastWord || len(words) == 0 {
			words = append(words, word)
			lastWord = word
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load vectors: %w", err)
	}

	// Words arrive sorted from the index, matching vocabulary ID order.
	return embed.New(vocab.FromWords(words), meta.Dimensions, values)
}

// Run returns the metadata for one run.
func (s *DB) Run(ctx context.Context, runID string) (RunMeta, error) {
	var meta RunMeta
	err := s.db.QueryRowContext(ctx,
		`SELECT id, corpus, window_size, dimensions, vocab_size, created_at
		 FROM runs WHERE id = ?`, runID).
		Scan(&meta.ID, &meta.Corpus, &meta.WindowSize, &meta.Dimensions, &meta.VocabSize, &meta.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return RunMeta{}, fmt.Errorf("%q: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return RunMeta{}, fmt.Errorf("load run: %w", err)
	}
	return meta, nil
}

// LatestRun returns the metadata of the most recent run.
func (s *DB) LatestRun(ctx context.Context) (RunMeta, error) {
	var meta RunMeta
	err := s.db.QueryRowContext(ctx,
		`SELECT id, corpus, window_size, dimensions, vocab_size, created_at
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`).
		Scan(&meta.ID, &meta.Corpus, &meta.WindowSize, &meta.Dimensions, &meta.VocabSize, &meta.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return RunMeta{}, ErrNoRuns
	}
	if err != nil {
		return RunMeta{}, fmt.Errorf("load latest run: %w", err)
	}
	return meta, nil
}

// Runs lists all runs, newest first.
func (s *DB) Runs(ctx context.Context) ([]RunMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, corpus, window_size, dimensions, vocab_size, created_at
		 FROM runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var metas []RunMeta
	for rows.Next() {
		var meta RunMeta
		if err := rows.Scan(&meta.ID, &meta.Corpus, &meta.WindowSize, &meta.Dimensions,
			&meta.VocabSize, &meta.CreatedAt); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// DeleteRun removes a run and its vectors.
func (s *DB) DeleteRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", runID, ErrRunNotFound)
	}
	return nil
}
