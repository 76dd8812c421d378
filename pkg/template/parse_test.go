package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLiteralOnly(t *testing.T) {
	const text = `{"title": "static", "rows": [1, 2]}`

	tree, err := Parse(text)
	if err != nil {
		t.Fatalf("parse literal template: %v", err)
	}
	if len(tree.Nodes) != 1 {
		t.Fatalf("expected a single literal node, got %d nodes", len(tree.Nodes))
	}
	literal, ok := tree.Nodes[0].(Literal)
	if !ok {
		t.Fatalf("expected Literal, got %T", tree.Nodes[0])
	}
	if literal.Text != text {
		t.Fatalf("literal text not preserved byte-for-byte:\n%s", cmp.Diff(text, literal.Text))
	}
}

func TestParseVariableWithFilters(t *testing.T) {
	tree, err := Parse(`{{ dashboard_title | replace '_' ' ' | title }}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	variable, ok := tree.Nodes[0].(Variable)
	if !ok {
		t.Fatalf("expected Variable, got %T", tree.Nodes[0])
	}

	want := Variable{
		Path: []string{"dashboard_title"},
		Filters: []FilterCall{
			{Name: "replace", Args: []string{"_", " "}},
			{Name: "title"},
		},
		Line: 1,
	}
	if diff := cmp.Diff(want, variable); diff != "" {
		t.Fatalf("variable mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDottedPath(t *testing.T) {
	tree, err := Parse(`{{thresholds.critical.value}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	variable := tree.Nodes[0].(Variable)
	if got := joinPath(variable.Path); got != "thresholds.critical.value" {
		t.Fatalf("path = %q, want thresholds.critical.value", got)
	}
}

func TestParseNestedBlocks(t *testing.T) {
	tree, err := Parse(`{{#each rows}}{{#if this}}x{{/if}}{{/each}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	each, ok := tree.Nodes[0].(Each)
	if !ok {
		t.Fatalf("expected Each, got %T", tree.Nodes[0])
	}
	if len(each.Body) != 1 {
		t.Fatalf("expected one child node, got %d", len(each.Body))
	}
	if _, ok := each.Body[0].(Cond); !ok {
		t.Fatalf("expected nested Cond, got %T", each.Body[0])
	}
}

func TestParseElseBranch(t *testing.T) {
	tree, err := Parse(`{{#if enabled}}on{{else}}off{{/if}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cond := tree.Nodes[0].(Cond)
	if len(cond.Body) != 1 || len(cond.Else) != 1 {
		t.Fatalf("expected one node per branch, got body=%d else=%d", len(cond.Body), len(cond.Else))
	}
	if got := cond.Else[0].(Literal).Text; got != "off" {
		t.Fatalf("else branch = %q, want off", got)
	}
}

func TestParseDeepNestingUsesExplicitStack(t *testing.T) {
	const depth = 5000
	text := strings.Repeat("{{#if flag}}", depth) + "x" + strings.Repeat("{{/if}}", depth)

	if _, err := Parse(text); err != nil {
		t.Fatalf("deeply nested template should parse: %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		kind ParseErrorKind
	}{
		{"unclosed each", `{{#each rows}}never closed`, ParseUnbalancedBlock},
		{"mismatched close", `{{#each rows}}{{/if}}`, ParseUnbalancedBlock},
		{"stray close", `{{/each}}`, ParseUnbalancedBlock},
		{"crossed blocks", `{{#if a}}{{#each b}}{{/if}}{{/each}}`, ParseUnbalancedBlock},
		{"unknown filter", `{{name | sparkle}}`, ParseUnknownFilter},
		{"unknown block kind", `{{#with ctx}}{{/with}}`, ParseMalformedDirective},
		{"unterminated directive", `{{name`, ParseMalformedDirective},
		{"empty directive", `{{}}`, ParseMalformedDirective},
		{"missing block argument", `{{#each}}{{/each}}`, ParseMalformedDirective},
		{"path with spaces", `{{two words}}`, ParseMalformedDirective},
		{"trailing dot path", `{{rows.}}`, ParseMalformedDirective},
		{"replace missing args", `{{name | replace}}`, ParseMalformedDirective},
		{"unquoted filter arg", `{{name | replace old new}}`, ParseMalformedDirective},
		{"else inside each", `{{#each rows}}{{else}}{{/each}}`, ParseMalformedDirective},
		{"duplicate else", `{{#if a}}{{else}}{{else}}{{/if}}`, ParseMalformedDirective},
		{"else outside block", `{{else}}`, ParseMalformedDirective},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.text)
			if err == nil {
				t.Fatalf("expected parse error for %q", tc.text)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if parseErr.Kind != tc.kind {
				t.Fatalf("kind = %s, want %s (%v)", parseErr.Kind, tc.kind, err)
			}
		})
	}
}

func TestParseReportsLineNumbers(t *testing.T) {
	_, err := Parse("line one\nline two\n{{#each rows}}\nno close")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Line != 3 {
		t.Fatalf("line = %d, want 3", parseErr.Line)
	}
}
