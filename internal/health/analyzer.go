// Package health statically validates script source and translation
// corpora for localization-breaking defects. Every check reports and
// moves on; no defect aborts a scan.
package health

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"renloc/internal/placeholder"
	"renloc/internal/textload"

	"github.com/rs/zerolog/log"
)

// DefaultLookback bounds the backward scan used to decide whether a line
// sits in UI context. A window, not a full scope reconstruction: deeply
// nested screens beyond the window are deliberately out of reach.
const DefaultLookback = 50

// translationMarker is the project convention for wrapping UI strings.
const translationMarker = "_("

var (
	// uiLiteralPattern matches a text/textbutton statement with a bare,
	// unwrapped string argument.
	uiLiteralPattern = regexp.MustCompile(`\b(text|textbutton)\s+"((?:[^"\\]|\\.)*)"`)
	// hexColorPattern matches bare color codes like #fff or #ffddee88.
	hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)
	// dottedIdentPattern matches config-style identifiers like gui.text_size.
	dottedIdentPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z0-9_]+)+$`)
	// numericPattern matches numbers, including dotted ones.
	numericPattern = regexp.MustCompile(`^\d+(\.\d+)*$`)

	oldLinePattern = regexp.MustCompile(`^old\s+"((?:[^"\\]|\\.)*)"`)
	newLinePattern = regexp.MustCompile(`^new\s+"((?:[^"\\]|\\.)*)"`)
)

// Analyzer runs the static checks. Each instance owns private state and
// instances are independent; a single instance is not for concurrent use.
type Analyzer struct {
	// Lookback is the UI-context detection window in lines.
	Lookback int
}

// NewAnalyzer returns an Analyzer with the default lookback window.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Lookback: DefaultLookback}
}

// CheckSource scans raw script source for unwrapped UI strings and
// unbalanced quoting.
func (a *Analyzer) CheckSource(file, src string) *Report {
	report := &Report{FilesScanned: 1}
	lines := strings.Split(src, "\n")
	report.LinesScanned = len(lines)

	for idx, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}

		if countUnescapedQuotes(stripped)%2 != 0 {
			report.add(Issue{
				File:     file,
				Line:     idx + 1,
				Severity: Error,
				Kind:     KindUnbalancedQuotes,
				Message:  "odd number of unescaped double quotes",
				Excerpt:  stripped,
			})
		}

		m := uiLiteralPattern.FindStringSubmatch(stripped)
		if m == nil {
			continue
		}
		report.StringsChecked++

		if !a.inUIContext(lines, idx) {
			continue
		}
		literal := m[2]
		if isTechnicalUIString(literal) {
			continue
		}
		report.add(Issue{
			File:       file,
			Line:       idx + 1,
			Severity:   Warning,
			Kind:       KindUnwrappedString,
			Message:    fmt.Sprintf("UI string %q is not wrapped for translation", literal),
			Suggestion: fmt.Sprintf(`%s _("%s")`, m[1], literal),
			Excerpt:    stripped,
		})
	}

	return report
}

// inUIContext scans backward up to Lookback lines for the nearest
// scope-opening line; a screen or style declaration wins over a label.
func (a *Analyzer) inUIContext(lines []string, idx int) bool {
	lookback := a.Lookback
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	for back := idx; back >= 0 && idx-back <= lookback; back-- {
		stripped := strings.ToLower(strings.TrimSpace(strings.TrimRight(lines[back], "\r")))
		if hasKeyword(stripped, "screen") || hasKeyword(stripped, "style") {
			return true
		}
		if hasKeyword(stripped, "label") {
			return false
		}
	}
	return false
}

// hasKeyword reports whether the stripped lowercase line starts with the
// keyword as a whole word.
func hasKeyword(stripped, kw string) bool {
	if !strings.HasPrefix(stripped, kw) {
		return false
	}
	rest := stripped[len(kw):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == ':'
}

// isTechnicalUIString filters literals that only look like text: asset
// paths, color codes, numbers, single characters, dotted identifiers.
func isTechnicalUIString(s string) bool {
	if strings.ContainsAny(s, `/\`) {
		return true
	}
	if hexColorPattern.MatchString(s) {
		return true
	}
	if numericPattern.MatchString(s) {
		return true
	}
	if utf8.RuneCountInString(s) <= 1 {
		return true
	}
	return dottedIdentPattern.MatchString(s)
}

// countUnescapedQuotes counts double quotes on a line; a backslash
// immediately before a quote consumes both characters.
func countUnescapedQuotes(line string) int {
	count := 0
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' && i+1 < len(line) && line[i+1] == '"' {
			i++
			continue
		}
		if line[i] == '"' {
			count++
		}
	}
	return count
}

// CheckCorpus scans a paired old/new translation corpus: every `old "..."`
// line immediately followed by a `new "..."` line is one translated pair.
func (a *Analyzer) CheckCorpus(file, src string) *Report {
	report := &Report{FilesScanned: 1}
	lines := strings.Split(src, "\n")
	report.LinesScanned = len(lines)

	for idx := 0; idx+1 < len(lines); idx++ {
		oldMatch := oldLinePattern.FindStringSubmatch(strings.TrimSpace(lines[idx]))
		if oldMatch == nil {
			continue
		}
		newMatch := newLinePattern.FindStringSubmatch(strings.TrimSpace(lines[idx+1]))
		if newMatch == nil {
			continue
		}
		report.StringsChecked++
		a.checkPair(report, file, idx+2, oldMatch[1], newMatch[1])
		idx++
	}

	return report
}

// checkPair validates one (original, translation) pair. line points at the
// `new` line, where a fix would be applied.
func (a *Analyzer) checkPair(report *Report, file string, line int, original, translated string) {
	if strings.TrimSpace(translated) == "" {
		report.add(Issue{
			File:     file,
			Line:     line,
			Severity: Warning,
			Kind:     KindEmptyTranslation,
			Message:  fmt.Sprintf("translation for %q is empty", original),
		})
		return
	}

	origVars := placeholder.Variables(original)
	transVars := placeholder.Variables(translated)

	if missing := placeholder.Missing(origVars, transVars); len(missing) > 0 {
		report.add(Issue{
			File:     file,
			Line:     line,
			Severity: Error,
			Kind:     KindMissingPlaceholder,
			Message:  fmt.Sprintf("translation is missing variable(s): %s", strings.Join(missing, ", ")),
			Excerpt:  translated,
		})
	}
	if extra := placeholder.Missing(transVars, origVars); len(extra) > 0 {
		report.add(Issue{
			File:     file,
			Line:     line,
			Severity: Warning,
			Kind:     KindExtraPlaceholder,
			Message:  fmt.Sprintf("translation has extra variable(s): %s", strings.Join(extra, ", ")),
			Excerpt:  translated,
		})
	}

	if missing := placeholder.Missing(placeholder.Tags(original), placeholder.Tags(translated)); len(missing) > 0 {
		report.add(Issue{
			File:     file,
			Line:     line,
			Severity: Warning,
			Kind:     KindMissingTag,
			Message:  fmt.Sprintf("translation is missing tag(s): %s", strings.Join(missing, ", ")),
			Excerpt:  translated,
		})
	}
}

// DirOptions configures a directory scan.
type DirOptions struct {
	// SkipDirs are directory base names excluded from the walk, such as
	// the embedded engine runtime.
	SkipDirs []string
	// TranslationsDir names the translation-output folder. Files under it
	// are checked in paired-corpus mode instead of source mode. Empty
	// means every file is treated as source.
	TranslationsDir string
	// ScriptExt is the script file extension, ".rpy" when empty.
	ScriptExt string
}

// DefaultDirOptions skips the engine runtime and corpus-checks the
// conventional tl folder.
func DefaultDirOptions() DirOptions {
	return DirOptions{
		SkipDirs:        []string{"renpy"},
		TranslationsDir: "tl",
		ScriptExt:       ".rpy",
	}
}

// CheckDir recursively analyzes every script file under root, folding all
// results into one report. A file that cannot be read becomes a single
// Error issue; the scan continues.
func (a *Analyzer) CheckDir(root string, opts DirOptions) (*Report, error) {
	ext := opts.ScriptExt
	if ext == "" {
		ext = ".rpy"
	}

	files, err := textload.Walk(root, ext, opts.SkipDirs)
	if err != nil {
		return nil, fmt.Errorf("walk scripts: %w", err)
	}

	report := &Report{}
	for _, path := range files {
		src, err := textload.ReadText(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Unreadable script file")
			report.FilesScanned++
			report.add(Issue{
				File:     path,
				Line:     0,
				Severity: Error,
				Kind:     KindFileReadError,
				Message:  err.Error(),
			})
			continue
		}
		if opts.TranslationsDir != "" && underDir(root, path, opts.TranslationsDir) {
			report.merge(a.CheckCorpus(path, src))
		} else {
			report.merge(a.CheckSource(path, src))
		}
	}

	log.Info().
		Int("files", report.FilesScanned).
		Int("issues", len(report.Issues)).
		Bool("healthy", report.Healthy()).
		Msg("Health scan complete")
	return report, nil
}

// underDir reports whether path has dir as a component below root.
func underDir(root, path, dir string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == dir {
			return true
		}
	}
	return false
}
