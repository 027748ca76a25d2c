package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// technicalKeywords are engine literals and layout words that look like
// text but must never reach a translator.
var technicalKeywords = map[string]bool{
	"true": true, "false": true, "none": true, "null": true,
	"vbox": true, "hbox": true, "fixed": true, "side": true,
	"grid": true, "frame": true, "window": true, "viewport": true,
	"left": true, "right": true, "center": true, "top": true, "bottom": true,
}

// fileExtPattern matches a common asset or data extension embedded
// anywhere in the string.
var fileExtPattern = regexp.MustCompile(`(?i)\.(png|jpe?g|webp|gif|avif|ogg|opus|mp3|wav|webm|ttf|otf|rpy|rpyc|json|txt)\b`)

// versionPattern matches dotted numeric strings like "1.2.3".
var versionPattern = regexp.MustCompile(`^\d+(\.\d+)+$`)

// IsTranslatable reports whether a string literal is meaningful content
// rather than a technical artifact. The rejection rules run before the
// generic letter-acceptance rule; reordering them changes results (for
// example "save.png" contains letters but must be rejected first).
func IsTranslatable(s string) bool {
	t := strings.TrimSpace(s)
	if utf8.RuneCountInString(t) < 2 {
		return false
	}
	if technicalKeywords[strings.ToLower(t)] {
		return false
	}
	if fileExtPattern.MatchString(t) {
		return false
	}
	if isInteger(t) {
		return false
	}
	if versionPattern.MatchString(t) {
		return true
	}
	return ContainsLetter(t)
}

// ContainsLetter reports whether s contains at least one Unicode letter,
// covering accented and non-Latin ranges.
func ContainsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Hash computes a SHA-256 hex hash of a string for deduplication.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to maxLen, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
