package validation

// Severity ranks a validation issue. Only error-severity issues fail a
// report; warnings and suggestions are advisory.
type Severity string

const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// Category groups issues for display and filtering.
type Category string

const (
	CategorySyntax       Category = "syntax"
	CategoryStructure    Category = "structure"
	CategoryPerformance  Category = "performance"
	CategorySecurity     Category = "security"
	CategoryBestPractice Category = "best-practice"
)

// Issue is one validation finding. Location, when present, is a dotted
// path into the rendered document.
type Issue struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Location string   `json:"location,omitempty"`
}

// Report is the ordered list of issues from one validation pass.
type Report struct {
	Issues []Issue `json:"issues"`
}

// Passed reports whether the document is acceptable: true iff no
// error-severity issue is present. Strict-mode findings never flip this.
func (r Report) Passed() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Count returns the number of issues at the given severity.
func (r Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}
