// Package fuzzy reconciles a newly extracted corpus against a previously
// translated one using a normalized string-similarity metric.
package fuzzy

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize collapses internal whitespace runs to single spaces and trims
// the ends, optionally case-folding.
func Normalize(s string, caseFold bool) string {
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	if caseFold {
		s = strings.ToLower(s)
	}
	return s
}

// Similarity returns the normalized similarity of a and b in [0,1].
// Equal normalized strings short-circuit to 1.0; otherwise the classic
// longest-matching-blocks ratio 2*M/(len(a)+len(b)) is computed, where M
// is the total length of recursively matched common substrings
// (Ratcliff/Obershelp, the difflib SequenceMatcher ratio).
func Similarity(a, b string) float64 {
	return similarity(a, b, false)
}

func similarity(a, b string, caseFold bool) float64 {
	na := Normalize(a, caseFold)
	nb := Normalize(b, caseFold)
	if na == nb {
		return 1.0
	}
	ra := []rune(na)
	rb := []rune(nb)
	if len(ra)+len(rb) == 0 {
		return 1.0
	}
	m := matchTotal(ra, rb, 0, len(ra), 0, len(rb))
	return 2.0 * float64(m) / float64(len(ra)+len(rb))
}

// matchTotal sums matched-block lengths: find the longest common
// contiguous run, then recurse on the left and right remainders.
func matchTotal(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		matchTotal(a, b, alo, i, blo, j) +
		matchTotal(a, b, i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest contiguous matching block between
// a[alo:ahi] and b[blo:bhi], preferring the earliest position in a, then
// in b, on ties.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	// Positions of each rune in b's window.
	b2j := make(map[rune][]int, bhi-blo)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
