// Package extract turns scanner token streams into deduplicated
// translation entries, the unit the reconciler and translation memory
// operate on.
package extract

import (
	"context"
	"fmt"

	"renloc/internal/scanner"
	"renloc/internal/textload"
	"renloc/internal/textutil"
	"renloc/internal/worker"

	"github.com/rs/zerolog/log"
)

// Entry is one candidate translatable string.
type Entry struct {
	// ID is a stable identifier derived from the text.
	ID string `json:"id"`
	// Text is the unescaped original string.
	Text string `json:"text"`
	// File and Line locate the first occurrence.
	File string `json:"file"`
	Line int    `json:"line"`
	// Context is the scope path at the first occurrence.
	Context []string `json:"context,omitempty"`
	// Type is "dialogue" or "ui".
	Type string `json:"type"`
}

// FromTokens filters a token stream down to translatable entries,
// deduplicated by text. The first occurrence of a text wins; entries keep
// the stream's order.
func FromTokens(tokens []scanner.Token) []Entry {
	seen := make(map[string]bool, len(tokens))
	var entries []Entry
	for _, tok := range tokens {
		if !textutil.IsTranslatable(tok.Text) {
			continue
		}
		if seen[tok.Text] {
			continue
		}
		seen[tok.Text] = true
		entries = append(entries, Entry{
			ID:      entryID(tok.Text),
			Text:    tok.Text,
			File:    tok.File,
			Line:    tok.Line,
			Context: tok.ContextPath,
			Type:    tok.TextType,
		})
	}
	return entries
}

// entryID derives a short stable identifier from the text itself, so the
// same string extracted from two script versions gets the same ID.
func entryID(text string) string {
	return textutil.Hash(text)[:16]
}

// CollectDir scans every script under root concurrently and merges the
// per-file entries in walk order. Files that fail to scan are logged and
// skipped; the collection continues.
func CollectDir(ctx context.Context, root, ext string, skipDirs []string, workers int) ([]Entry, error) {
	files, err := textload.Walk(root, ext, skipDirs)
	if err != nil {
		return nil, fmt.Errorf("walk scripts: %w", err)
	}

	pool := worker.NewPool(workers, func(ctx context.Context, path string) ([]scanner.Token, error) {
		return scanner.ScanFile(path)
	})
	results := pool.Run(ctx, files)

	seen := make(map[string]bool)
	var entries []Entry
	for _, res := range results {
		if res.Err != nil {
			log.Warn().Err(res.Err).Str("path", res.Input).Msg("Skipping unscannable script")
			continue
		}
		for _, e := range FromTokens(res.Output) {
			if seen[e.Text] {
				continue
			}
			seen[e.Text] = true
			entries = append(entries, e)
		}
	}

	log.Info().Int("files", len(files)).Int("entries", len(entries)).Msg("Extraction complete")
	return entries, nil
}

// ToMap renders entries as the id → original mapping the reconciler
// consumes.
func ToMap(entries []Entry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.ID] = e.Text
	}
	return m
}
