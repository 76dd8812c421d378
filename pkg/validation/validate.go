// Package validation checks rendered dashboard documents in two tiers:
// structural correctness that gates artifact acceptance, and an optional
// strict mode that lints query content for performance and security
// anti-patterns without ever blocking generation.
package validation

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-dashgen/internal/spl"
)

// Shape names the top-level sections a rendered document must contain.
type Shape struct {
	Required []string
}

// DefaultShape is the Dashboard Studio document shape.
func DefaultShape() Shape {
	return Shape{Required: []string{"title", "dataSources", "visualizations", "layout"}}
}

// Document is the parsed form handed to strict rules.
type Document struct {
	Raw     []byte
	Parsed  map[string]any
	Queries []spl.Query
}

// Validate parses the rendered text and checks it against the expected
// shape. A parse failure short-circuits with a single syntax error. Strict
// rules run only when requested and only on a structurally sound document;
// they are advisory by construction.
func Validate(rendered []byte, shape Shape, strict bool) Report {
	return validate(rendered, shape, strict, StrictRules())
}

func validate(rendered []byte, shape Shape, strict bool, rules []Rule) Report {
	var report Report

	var parsed map[string]any
	if err := json.Unmarshal(rendered, &parsed); err != nil {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Category: CategorySyntax,
			Message:  fmt.Sprintf("rendered document is not valid JSON: %v", err),
		})
		return report
	}

	for _, section := range shape.Required {
		if _, ok := parsed[section]; !ok {
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityError,
				Category: CategoryStructure,
				Message:  fmt.Sprintf("missing required section %q", section),
				Location: section,
			})
		}
	}

	if !strict || !report.Passed() {
		return report
	}

	doc := &Document{
		Raw:     rendered,
		Parsed:  parsed,
		Queries: spl.FromDashboard(parsed),
	}
	for _, rule := range rules {
		report.Issues = append(report.Issues, rule(doc)...)
	}
	return report
}
