package health

import "fmt"

// Severity grades how urgent an issue is. Only Error and Critical make a
// report unhealthy.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Critical
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Critical:
		return "critical"
	}
	return "unknown"
}

// IssueKind tags a defect class.
type IssueKind string

const (
	KindUnwrappedString    IssueKind = "unwrapped_string"
	KindUnbalancedQuotes   IssueKind = "unbalanced_quotes"
	KindEmptyTranslation   IssueKind = "empty_translation"
	KindMissingPlaceholder IssueKind = "missing_placeholder"
	KindExtraPlaceholder   IssueKind = "extra_placeholder"
	KindMissingTag         IssueKind = "missing_tag"
	KindFileReadError      IssueKind = "file_read_error"
)

// Issue is one detected localization defect.
type Issue struct {
	File       string    `json:"file"`
	Line       int       `json:"line"`
	Severity   Severity  `json:"severity"`
	Kind       IssueKind `json:"kind"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	Excerpt    string    `json:"excerpt,omitempty"`
}

// Location renders the file:line position for logs.
func (i Issue) Location() string {
	return fmt.Sprintf("%s:%d", i.File, i.Line)
}

// Report is an immutable snapshot of one analysis run. Analysis never
// mutates the scanned content.
type Report struct {
	Issues         []Issue `json:"issues"`
	FilesScanned   int     `json:"files_scanned"`
	LinesScanned   int     `json:"lines_scanned"`
	StringsChecked int     `json:"strings_checked"`
}

// Healthy reports whether no issue reaches Error severity.
func (r *Report) Healthy() bool {
	for _, i := range r.Issues {
		if i.Severity >= Error {
			return false
		}
	}
	return true
}

// CountBySeverity returns how many issues carry the given severity.
func (r *Report) CountBySeverity(s Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

func (r *Report) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// merge folds other's issues and counters into r.
func (r *Report) merge(other *Report) {
	r.Issues = append(r.Issues, other.Issues...)
	r.FilesScanned += other.FilesScanned
	r.LinesScanned += other.LinesScanned
	r.StringsChecked += other.StringsChecked
}
