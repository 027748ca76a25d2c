package fuzzy

import (
	"sort"

	"github.com/rs/zerolog/log"
)

// Default thresholds for claiming and auto-applying matches.
const (
	DefaultMinThreshold  = 0.70
	DefaultAutoThreshold = 0.90
)

// OldEntry is one previously translated (original, translation) pair.
type OldEntry struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
}

// Match pairs a new entry with a claimed old entry.
type Match struct {
	NewID          string  `json:"new_id"`
	NewOriginal    string  `json:"new_original"`
	OldID          string  `json:"old_id"`
	OldOriginal    string  `json:"old_original"`
	OldTranslation string  `json:"old_translation"`
	Similarity     float64 `json:"similarity"`
}

// Report partitions the inputs: every new ID lands in exactly one of
// Matches or UnmatchedNew, every old ID in exactly one of Matches (as
// OldID) or UnmatchedOld, and no old ID is claimed twice.
type Report struct {
	// Matches is sorted by similarity descending.
	Matches      []Match  `json:"matches"`
	UnmatchedNew []string `json:"unmatched_new"`
	UnmatchedOld []string `json:"unmatched_old"`
}

// Matcher reconciles corpora. Zero thresholds mean the defaults.
type Matcher struct {
	// MinThreshold is the lowest similarity that claims an old entry.
	MinThreshold float64
	// AutoThreshold separates auto-apply matches from needs-review ones.
	AutoThreshold float64
	// CaseFold makes normalization case-insensitive.
	CaseFold bool
}

// NewMatcher returns a Matcher with the default thresholds.
func NewMatcher() *Matcher {
	return &Matcher{
		MinThreshold:  DefaultMinThreshold,
		AutoThreshold: DefaultAutoThreshold,
	}
}

func (m *Matcher) minThreshold() float64 {
	if m.MinThreshold <= 0 {
		return DefaultMinThreshold
	}
	return m.MinThreshold
}

func (m *Matcher) autoThreshold() float64 {
	if m.AutoThreshold <= 0 {
		return DefaultAutoThreshold
	}
	return m.AutoThreshold
}

// Match reconciles newEntries (id → original text) against oldEntries
// (id → previously translated pair). An exact pass runs first; remaining
// entries fall through to a best-candidate fuzzy pass. Iteration order is
// sorted by ID so results are reproducible; on equal similarity the
// earliest old ID in sorted order wins.
func (m *Matcher) Match(newEntries map[string]string, oldEntries map[string]OldEntry) *Report {
	newIDs := sortedKeys(newEntries)
	oldIDs := make([]string, 0, len(oldEntries))
	for id := range oldEntries {
		oldIDs = append(oldIDs, id)
	}
	sort.Strings(oldIDs)

	claimed := make(map[string]bool, len(oldEntries))
	matchedNew := make(map[string]bool, len(newEntries))
	report := &Report{}

	// Exact pass: normalized equality claims the first unclaimed old entry.
	for _, newID := range newIDs {
		norm := Normalize(newEntries[newID], m.CaseFold)
		for _, oldID := range oldIDs {
			if claimed[oldID] {
				continue
			}
			old := oldEntries[oldID]
			if Normalize(old.Original, m.CaseFold) != norm {
				continue
			}
			claimed[oldID] = true
			matchedNew[newID] = true
			report.Matches = append(report.Matches, Match{
				NewID:          newID,
				NewOriginal:    newEntries[newID],
				OldID:          oldID,
				OldOriginal:    old.Original,
				OldTranslation: old.Translation,
				Similarity:     1.0,
			})
			break
		}
	}

	// Fuzzy pass: best unclaimed candidate at or above the threshold.
	for _, newID := range newIDs {
		if matchedNew[newID] {
			continue
		}
		bestSim := 0.0
		bestOld := ""
		for _, oldID := range oldIDs {
			if claimed[oldID] {
				continue
			}
			sim := similarity(newEntries[newID], oldEntries[oldID].Original, m.CaseFold)
			if sim > bestSim {
				bestSim = sim
				bestOld = oldID
			}
		}
		if bestOld == "" || bestSim < m.minThreshold() {
			report.UnmatchedNew = append(report.UnmatchedNew, newID)
			continue
		}
		claimed[bestOld] = true
		old := oldEntries[bestOld]
		report.Matches = append(report.Matches, Match{
			NewID:          newID,
			NewOriginal:    newEntries[newID],
			OldID:          bestOld,
			OldOriginal:    old.Original,
			OldTranslation: old.Translation,
			Similarity:     bestSim,
		})
	}

	for _, oldID := range oldIDs {
		if !claimed[oldID] {
			report.UnmatchedOld = append(report.UnmatchedOld, oldID)
		}
	}

	sort.SliceStable(report.Matches, func(i, j int) bool {
		if report.Matches[i].Similarity != report.Matches[j].Similarity {
			return report.Matches[i].Similarity > report.Matches[j].Similarity
		}
		return report.Matches[i].NewID < report.Matches[j].NewID
	})

	log.Info().
		Int("matches", len(report.Matches)).
		Int("unmatched_new", len(report.UnmatchedNew)).
		Int("unmatched_old", len(report.UnmatchedOld)).
		Msg("Fuzzy reconciliation complete")
	return report
}

// AutoApply returns the matches confident enough to apply unreviewed.
func (m *Matcher) AutoApply(r *Report) []Match {
	var out []Match
	for _, match := range r.Matches {
		if match.Similarity >= m.autoThreshold() {
			out = append(out, match)
		}
	}
	return out
}

// NeedsReview returns the matches below the auto threshold.
func (m *Matcher) NeedsReview(r *Report) []Match {
	var out []Match
	for _, match := range r.Matches {
		if match.Similarity < m.autoThreshold() {
			out = append(out, match)
		}
	}
	return out
}

// SuggestTranslations maps new original text to the claimed old
// translation. With autoOnly only auto-apply matches are included;
// otherwise every match above the minimum threshold is.
func (m *Matcher) SuggestTranslations(r *Report, autoOnly bool) map[string]string {
	threshold := m.minThreshold()
	if autoOnly {
		threshold = m.autoThreshold()
	}
	out := make(map[string]string)
	for _, match := range r.Matches {
		if match.Similarity >= threshold {
			out[match.NewOriginal] = match.OldTranslation
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
