// Package scanner extracts string literals from visual-novel scripts,
// tagging each literal with the stack of structural scopes (label, screen,
// menu, inline python) open at its location.
package scanner

import (
	"fmt"
	"strings"

	"renloc/internal/textload"
)

// Scanner walks script source one line at a time, maintaining a stack of
// open scope frames. A frame stays open for lines indented strictly deeper
// than the column it was declared at and is popped on the first line at or
// below that column, before the line's own content is inspected.
type Scanner struct {
	file     string
	lines    []string
	pos      int
	stack    []ScopeFrame
	stripped string
	tokens   []Token
}

// ScanString extracts all string literals from src. The file name is only
// used for reporting and may be empty.
func ScanString(file, src string) []Token {
	s := &Scanner{file: file, lines: strings.Split(src, "\n")}
	for s.pos < len(s.lines) {
		s.scanLine()
		s.pos++
	}
	return s.tokens
}

// ScanFile reads and scans a script file. Undecodable content yields no
// tokens and no error; only an unreadable file is an error.
func ScanFile(path string) ([]Token, error) {
	text, err := textload.ReadText(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ScanString(path, text), nil
}

func (s *Scanner) scanLine() {
	line := strings.TrimRight(s.lines[s.pos], "\r")
	stripped := strings.TrimSpace(line)

	// Blank lines carry no indentation information and leave scopes open.
	if stripped == "" {
		return
	}

	s.popTo(indentWidth(line))

	if strings.HasPrefix(stripped, "#") {
		return
	}

	if frame, ok := matchScope(stripped, indentWidth(line)); ok {
		s.stack = append(s.stack, frame)
	}

	s.stripped = stripped
	s.scanLiterals(line)
}

// popTo closes every frame declared at or beyond the given column.
func (s *Scanner) popTo(indent int) {
	for len(s.stack) > 0 && s.stack[len(s.stack)-1].Indent >= indent {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// scanLiterals walks the line left to right emitting literal tokens. Triple
// quoted literals may consume following physical lines, in which case the
// current line is swapped for the remainder of the closing line.
func (s *Scanner) scanLiterals(line string) {
	i := 0
	for i < len(line) {
		c := line[i]
		if c == '#' {
			return
		}
		if c == '"' || c == '\'' {
			line, i = s.scanLiteral(line, i, i, "")
			continue
		}
		if isPrefixLetter(c) {
			j := i + 1
			if j < len(line) && isPrefixLetter(line[j]) {
				j++
			}
			if j < len(line) && (line[j] == '"' || line[j] == '\'') {
				line, i = s.scanLiteral(line, i, j, line[i:j])
				continue
			}
		}
		i++
	}
}

// scanLiteral handles one literal starting at quotePos. rawStart points at
// the first prefix letter (or the quote itself). It returns the line the
// outer loop should keep scanning and the index to resume at.
func (s *Scanner) scanLiteral(line string, rawStart, quotePos int, prefix string) (string, int) {
	q := line[quotePos]
	if quotePos+3 <= len(line) && line[quotePos+1] == q && line[quotePos+2] == q {
		return s.scanTriple(line, rawStart, quotePos, prefix)
	}

	k := quotePos + 1
	escaped := false
	for k < len(line) {
		if escaped {
			escaped = false
			k++
			continue
		}
		if line[k] == '\\' {
			escaped = true
			k++
			continue
		}
		if line[k] == q {
			break
		}
		k++
	}
	if k >= len(line) {
		// Unterminated single-line literal: the remainder of the line is
		// discarded without a token. Hand-authored scripts contain enough
		// of these that reporting them would drown real defects.
		return line, len(line)
	}

	s.emit(Single, line[quotePos+1:k], line[rawStart:k+1], prefix, s.pos+1)
	return line, k + 1
}

func (s *Scanner) scanTriple(line string, rawStart, quotePos int, prefix string) (string, int) {
	delim := line[quotePos : quotePos+3]
	rest := line[quotePos+3:]

	if idx := strings.Index(rest, delim); idx >= 0 {
		end := quotePos + 3 + idx + 3
		s.emit(Triple, rest[:idx], line[rawStart:end], prefix, s.pos+1)
		return line, end
	}

	startLine := s.pos + 1
	textLines := []string{rest}
	rawLines := []string{line[rawStart:]}

	for s.pos+1 < len(s.lines) {
		s.pos++
		next := strings.TrimRight(s.lines[s.pos], "\r")
		idx := strings.Index(next, delim)
		if idx < 0 {
			textLines = append(textLines, next)
			rawLines = append(rawLines, next)
			continue
		}
		textLines = append(textLines, next[:idx])
		rawLines = append(rawLines, next[:idx+3])
		s.emitAt(Triple, strings.Join(textLines, "\n"), strings.Join(rawLines, "\n"), prefix, startLine, s.stripped)
		s.stripped = strings.TrimSpace(next)
		return next[idx+3:], 0
	}

	// End of input without a closing delimiter: the literal is treated as
	// implicitly closed and everything collected becomes its text.
	s.emitAt(Triple, strings.Join(textLines, "\n"), strings.Join(rawLines, "\n"), prefix, startLine, s.stripped)
	return "", 0
}

func (s *Scanner) emit(kind TokenKind, inner, raw, prefix string, lineNum int) {
	s.emitAt(kind, inner, raw, prefix, lineNum, s.stripped)
}

func (s *Scanner) emitAt(kind TokenKind, inner, raw, prefix string, lineNum int, contextLine string) {
	text := inner
	if !IsRaw(prefix) {
		text = Unescape(inner)
	}
	path := make([]string, len(s.stack))
	for i, f := range s.stack {
		path[i] = f.Descriptor()
	}
	s.tokens = append(s.tokens, Token{
		Kind:        kind,
		Text:        text,
		RawText:     raw,
		Prefix:      prefix,
		File:        s.file,
		Line:        lineNum,
		ContextPath: path,
		ContextLine: contextLine,
		TextType:    s.textType(),
	})
}

// textType classifies the token by its enclosing scopes: anything under a
// label (or outside every scope) is dialogue, everything else is UI text.
func (s *Scanner) textType() string {
	if len(s.stack) == 0 {
		return "dialogue"
	}
	for _, f := range s.stack {
		if f.Kind == ScopeLabel {
			return "dialogue"
		}
	}
	return "ui"
}

// matchScope recognizes a scope-opening statement at the start of a
// stripped line. Pure; the caller owns the stack.
func matchScope(stripped string, indent int) (ScopeFrame, bool) {
	fields := strings.Fields(stripped)
	if len(fields) == 0 {
		return ScopeFrame{}, false
	}
	head := strings.ToLower(strings.TrimSuffix(fields[0], ":"))
	switch head {
	case "label", "screen", "menu":
		name := ""
		if len(fields) > 1 {
			name = scopeName(fields[1])
		}
		return ScopeFrame{Kind: ScopeKind(head), Indent: indent, Name: name}, true
	case "python", "init":
		// "python:", "init:", "init python:" and "init 10 python:" all
		// open one inline code block.
		return ScopeFrame{Kind: ScopePython, Indent: indent}, true
	}
	return ScopeFrame{}, false
}

// scopeName extracts the declared identifier from the field after a scope
// keyword, trimming a trailing colon and any parameter list.
func scopeName(field string) string {
	field = strings.TrimSuffix(field, ":")
	if i := strings.IndexByte(field, '('); i >= 0 {
		field = field[:i]
	}
	if field == "" {
		return ""
	}
	c := field[0]
	if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
		return ""
	}
	return field
}

func indentWidth(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

func isPrefixLetter(c byte) bool {
	switch c {
	case 'r', 'b', 'u', 'f', 'R', 'B', 'U', 'F':
		return true
	}
	return false
}
