package params

import "fmt"

// ResolutionErrorKind classifies parameter resolution failures.
type ResolutionErrorKind string

const (
	MissingRequired ResolutionErrorKind = "missing-required"
	TypeMismatch    ResolutionErrorKind = "type-mismatch"
)

// ResolutionError is surfaced before any rendering attempt; nothing
// downstream of Resolve runs with a partially resolved set.
type ResolutionError struct {
	Kind   ResolutionErrorKind
	Param  string
	Detail string
}

func (e *ResolutionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("params: %s for parameter %q: %s", e.Kind, e.Param, e.Detail)
	}
	return fmt.Sprintf("params: %s for parameter %q", e.Kind, e.Param)
}
