package cli

import (
	"context"
	"fmt"

	"renloc/internal/memory"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// connect opens and pings a PostgreSQL pool.
func connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return pool, nil
}

// loadFromDatabase preloads the full translation memory from PostgreSQL.
func loadFromDatabase(databaseURL string) (*memory.Memory, error) {
	ctx, cancel := setupContext()
	defer cancel()

	pool, err := connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	store := memory.NewPGStore(pool)
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	if err := store.Preload(ctx); err != nil {
		return nil, err
	}
	return store.Memory(), nil
}

// mirrorToDatabase write-throughs a flat corpus into PostgreSQL.
func mirrorToDatabase(databaseURL string, flat map[string]map[string]string) error {
	ctx, cancel := setupContext()
	defer cancel()

	pool, err := connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := memory.NewPGStore(pool)
	if err := store.Init(ctx); err != nil {
		return err
	}
	for lang, pairs := range flat {
		for original, translation := range pairs {
			if err := store.Add(ctx, lang, original, translation); err != nil {
				return err
			}
		}
	}
	return nil
}
