// Package memory implements a per-language translation memory with exact
// and fuzzy retrieval, persisted as a JSON snapshot or mirrored to
// PostgreSQL.
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"renloc/internal/fuzzy"

	"github.com/rs/zerolog/log"
)

// DefaultFuzzyThreshold is the minimum similarity for fuzzy lookups.
const DefaultFuzzyThreshold = 0.80

// Lookup sources returned by GetOrSuggest.
const (
	SourceExact = "exact"
	SourceFuzzy = "fuzzy"
	SourceNone  = "none"
)

// Entry is one stored (original, translation) pair.
type Entry struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
}

// Memory stores entries per language, keyed by entry ID. The entry ID
// defaults to the original text, so repeated adds of the same original
// overwrite.
type Memory struct {
	mu        sync.RWMutex
	languages map[string]map[string]Entry
}

// New creates an empty Memory.
func New() *Memory {
	return &Memory{languages: make(map[string]map[string]Entry)}
}

// Add stores a pair under the original text itself.
func (m *Memory) Add(lang, original, translation string) {
	m.AddEntry(lang, original, original, translation)
}

// AddEntry stores a pair under an explicit entry ID.
func (m *Memory) AddEntry(lang, id, original, translation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, ok := m.languages[lang]
	if !ok {
		entries = make(map[string]Entry)
		m.languages[lang] = entries
	}
	entries[id] = Entry{Original: original, Translation: translation}
}

// GetExact scans the language's entries in sorted-ID order and returns
// the first translation whose original equals the query.
func (m *Memory) GetExact(lang, original string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.sortedIDs(lang) {
		e := m.languages[lang][id]
		if e.Original == original {
			return e.Translation, true
		}
	}
	return "", false
}

// GetFuzzy scans every entry of the language and returns the best
// candidate at or above minSimilarity, with its score. Sorted-ID order
// with a strict comparison keeps results deterministic on ties.
func (m *Memory) GetFuzzy(lang, original string, minSimilarity float64) (string, float64, bool) {
	if minSimilarity <= 0 {
		minSimilarity = DefaultFuzzyThreshold
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	best := ""
	bestScore := 0.0
	found := false
	for _, id := range m.sortedIDs(lang) {
		e := m.languages[lang][id]
		score := fuzzy.Similarity(original, e.Original)
		if score > bestScore {
			bestScore = score
			best = e.Translation
			found = true
		}
	}
	if !found || bestScore < minSimilarity {
		return "", 0, false
	}
	return best, bestScore, true
}

// GetOrSuggest tries exact lookup, then fuzzy, and reports where the
// result came from: "exact", "fuzzy" or "none".
func (m *Memory) GetOrSuggest(lang, original string) (string, float64, string) {
	if t, ok := m.GetExact(lang, original); ok {
		return t, 1.0, SourceExact
	}
	if t, score, ok := m.GetFuzzy(lang, original, DefaultFuzzyThreshold); ok {
		return t, score, SourceFuzzy
	}
	return "", 0, SourceNone
}

// Count returns the number of entries stored for a language.
func (m *Memory) Count(lang string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.languages[lang])
}

// Languages returns the stored language codes, sorted.
func (m *Memory) Languages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	langs := make([]string, 0, len(m.languages))
	for l := range m.languages {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Export flattens the memory to language → original → translation. The
// flattening is lossy when distinct entry IDs share one original text;
// the entry with the last ID in sorted order wins.
func (m *Memory) Export() map[string]map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]map[string]string, len(m.languages))
	for lang := range m.languages {
		flat := make(map[string]string, len(m.languages[lang]))
		for _, id := range m.sortedIDs(lang) {
			e := m.languages[lang][id]
			flat[e.Original] = e.Translation
		}
		out[lang] = flat
	}
	return out
}

// Import merges a flat mapping produced by Export. Originals become the
// entry IDs, so a round-trip collapses duplicate originals.
func (m *Memory) Import(flat map[string]map[string]string) {
	for lang, pairs := range flat {
		for original, translation := range pairs {
			m.Add(lang, original, translation)
		}
	}
}

// SaveFile writes the exported mapping as an indented JSON snapshot.
func (m *Memory) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create memory file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(m.Export()); err != nil {
		return fmt.Errorf("encode memory: %w", err)
	}

	log.Info().Str("path", path).Int("languages", len(m.Languages())).Msg("Saved translation memory")
	return nil
}

// LoadFile merges a JSON snapshot written by SaveFile.
func (m *Memory) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read memory file: %w", err)
	}
	var flat map[string]map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("decode memory file: %w", err)
	}
	m.Import(flat)
	return nil
}

// sortedIDs returns the language's entry IDs in sorted order. Callers
// hold at least a read lock.
func (m *Memory) sortedIDs(lang string) []string {
	entries := m.languages[lang]
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
