package scanner

import "strings"

// TokenKind distinguishes single-line from triple-quoted literals.
type TokenKind int

const (
	// Single is a one-line string literal.
	Single TokenKind = iota
	// Triple is a triple-quoted, possibly multi-line literal.
	Triple
)

func (k TokenKind) String() string {
	if k == Triple {
		return "triple"
	}
	return "single"
}

// Token is one string literal extracted from script source.
type Token struct {
	// Kind is Single or Triple.
	Kind TokenKind
	// Text is the unescaped content of the literal. For raw literals
	// (r-prefix) it equals the inner content unmodified.
	Text string
	// RawText is the exact original slice including prefix and quotes.
	// Triple-quoted literals span all physical lines.
	RawText string
	// Prefix holds any literal-prefix letters (r, b, u, f).
	Prefix string
	// File is the scanned file's path, empty for in-memory sources.
	File string
	// Line is the 1-based line number where the literal starts.
	Line int
	// ContextPath lists enclosing scopes outermost first, each rendered
	// as "kind:name" ("kind" alone when the scope has no name).
	ContextPath []string
	// ContextLine is the stripped source line containing the token start.
	ContextLine string
	// TextType is "dialogue" or "ui".
	TextType string
}

// ScopeKind names a structural construct that opens an indented block.
type ScopeKind string

const (
	ScopeLabel  ScopeKind = "label"
	ScopeScreen ScopeKind = "screen"
	ScopeMenu   ScopeKind = "menu"
	ScopePython ScopeKind = "python"
)

// ScopeFrame records one open scope. Frames are immutable; the scanner
// replaces the stack rather than mutating frames in place.
type ScopeFrame struct {
	Kind ScopeKind
	// Indent is the column at which the construct was declared. The frame
	// stays open for lines indented strictly deeper than this.
	Indent int
	// Name is the declared identifier, empty when the construct has none.
	Name string
}

// Descriptor renders the frame as it appears in Token.ContextPath.
func (f ScopeFrame) Descriptor() string {
	if f.Name == "" {
		return string(f.Kind)
	}
	return string(f.Kind) + ":" + f.Name
}

// IsRaw reports whether the literal prefix disables escape processing.
func IsRaw(prefix string) bool {
	return strings.ContainsAny(prefix, "rR")
}

// Unescape applies the scripting language's escape substitutions in their
// fixed order. The order is part of the contract: later replacements must
// not reinterpret the output of earlier ones differently than the engine
// itself would.
func Unescape(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "\t")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\'`, `'`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}
