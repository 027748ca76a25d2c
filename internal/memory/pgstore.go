package memory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// PGStore mirrors a Memory to PostgreSQL with write-through semantics.
// Lookups run against the in-memory maps; Preload warms them from the
// database. Observable lookup results are identical to a plain Memory.
type PGStore struct {
	pool *pgxpool.Pool
	mem  *Memory
}

// NewPGStore creates a store backed by the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool, mem: New()}
}

// Memory exposes the in-memory view for lookups.
func (s *PGStore) Memory() *Memory {
	return s.mem
}

// Init creates the backing table if it does not exist.
func (s *PGStore) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS translation_memory (
			lang        TEXT NOT NULL,
			entry_id    TEXT NOT NULL,
			original    TEXT NOT NULL,
			translation TEXT NOT NULL,
			PRIMARY KEY (lang, entry_id)
		)`)
	if err != nil {
		return fmt.Errorf("create translation_memory table: %w", err)
	}
	return nil
}

// Add stores a pair under the original text itself.
func (s *PGStore) Add(ctx context.Context, lang, original, translation string) error {
	return s.AddEntry(ctx, lang, original, original, translation)
}

// AddEntry writes through: in-memory first, then an upsert.
func (s *PGStore) AddEntry(ctx context.Context, lang, id, original, translation string) error {
	s.mem.AddEntry(lang, id, original, translation)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO translation_memory (lang, entry_id, original, translation)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (lang, entry_id)
		DO UPDATE SET original = EXCLUDED.original, translation = EXCLUDED.translation`,
		lang, id, original, translation)
	if err != nil {
		return fmt.Errorf("upsert translation memory entry: %w", err)
	}
	return nil
}

// Preload loads every stored entry into the in-memory maps.
func (s *PGStore) Preload(ctx context.Context) error {
	rows, err := s.pool.Query(ctx,
		`SELECT lang, entry_id, original, translation FROM translation_memory`)
	if err != nil {
		return fmt.Errorf("query translation memory: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var lang, id, original, translation string
		if err := rows.Scan(&lang, &id, &original, &translation); err != nil {
			return fmt.Errorf("scan translation memory row: %w", err)
		}
		s.mem.AddEntry(lang, id, original, translation)
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate translation memory rows: %w", err)
	}

	log.Info().Int("count", count).Msg("Preloaded translation memory")
	return nil
}
