package catalog

import (
	"context"
	"fmt"
	"slices"

	"localize-collector/internal/parser"
	"localize-collector/internal/textutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

const schemaSQL = `CREATE TABLE IF NOT EXISTS localize_messages (
	id           TEXT PRIMARY KEY,
	source       TEXT NOT NULL,
	source_hash  TEXT NOT NULL,
	file         TEXT NOT NULL,
	placeholders TEXT[] NOT NULL DEFAULT '{}',
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertSQL = `INSERT INTO localize_messages (id, source, source_hash, file, placeholders, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (id) DO UPDATE SET
	source = EXCLUDED.source,
	source_hash = EXCLUDED.source_hash,
	file = EXCLUDED.file,
	placeholders = EXCLUDED.placeholders,
	updated_at = now()
WHERE localize_messages.source_hash <> EXCLUDED.source_hash
	OR localize_messages.file <> EXCLUDED.file
	OR localize_messages.placeholders <> EXCLUDED.placeholders`

// Store persists the extracted message catalog in PostgreSQL so other tools
// can query which messages exist and where they come from. The file column
// holds the first file a message was found in.
type Store struct {
	db        DB
	batchSize int
}

// NewStore creates a new catalog store. Rows are written in transactions of
// batchSize.
func NewStore(db DB, batchSize int) *Store {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Store{db: db, batchSize: batchSize}
}

// EnsureSchema creates the catalog table if needed.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create catalog table: %w", err)
	}
	return nil
}

// Publish upserts fragments and returns the number of rows that changed.
// Unchanged messages are left alone.
func (s *Store) Publish(ctx context.Context, fragments []parser.Fragment) (int, error) {
	changed := 0
	for batch := range slices.Chunk(fragments, s.batchSize) {
		n, err := s.publishBatch(ctx, batch)
		if err != nil {
			return changed, err
		}
		changed += n
	}

	log.Info().Int("messages", len(fragments)).Int("changed", changed).Msg("Published message catalog")
	return changed, nil
}

func (s *Store) publishBatch(ctx context.Context, batch []parser.Fragment) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin catalog transaction: %w", err)
	}

	changed := 0
	for _, f := range batch {
		placeholders := f.Placeholders
		if placeholders == nil {
			placeholders = []string{}
		}
		tag, err := tx.Exec(ctx, upsertSQL, f.ID, f.Source, textutil.Hash(f.Source), f.File, placeholders)
		if err != nil {
			_ = tx.Rollback(ctx)
			return 0, fmt.Errorf("upsert message %s: %w", f.ID, err)
		}
		changed += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit catalog transaction: %w", err)
	}
	return changed, nil
}
