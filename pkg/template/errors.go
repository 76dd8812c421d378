package template

import "fmt"

// ParseErrorKind classifies template parse failures.
type ParseErrorKind string

const (
	ParseUnbalancedBlock    ParseErrorKind = "unbalanced-block"
	ParseUnknownFilter      ParseErrorKind = "unknown-filter"
	ParseMalformedDirective ParseErrorKind = "malformed-directive"
)

// ParseError reports a load-time template defect. Parse errors are never
// retried; the template text itself has to change.
type ParseError struct {
	Kind   ParseErrorKind
	Line   int
	Detail string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("template: parse error (%s) at line %d: %s", e.Kind, e.Line, e.Detail)
	}
	return fmt.Sprintf("template: parse error (%s): %s", e.Kind, e.Detail)
}

// RenderErrorKind classifies render-time failures.
type RenderErrorKind string

const (
	RenderUndefinedReference RenderErrorKind = "undefined-reference"
	RenderTypeMismatch       RenderErrorKind = "type-mismatch"
)

// RenderError aborts a render. Rendering is all-or-nothing: a partial
// document is never returned alongside a RenderError.
type RenderError struct {
	Kind   RenderErrorKind
	Path   string
	Detail string
}

func (e *RenderError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("template: render error (%s) at %q: %s", e.Kind, e.Path, e.Detail)
	}
	return fmt.Sprintf("template: render error (%s) at %q", e.Kind, e.Path)
}
