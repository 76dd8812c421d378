package template

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheckRefsResolvesDeclaredAndReserved(t *testing.T) {
	tree := mustParse(t, `{{ENV_NAME}}: {{#each indexes}}{{this}}{{/each}} {{#if strict}}strict{{/if}}`)

	unresolved := CheckRefs(tree, []string{"indexes", "strict"}, []string{"ENV_NAME"})
	if unresolved != nil {
		t.Fatalf("expected no unresolved references, got %v", unresolved)
	}
}

func TestCheckRefsFlagsUnknownRoots(t *testing.T) {
	tree := mustParse(t, `{{title}} {{#each rows}}{{this.name}} {{mystery}}{{/each}} {{#unless ghost}}x{{/unless}}`)

	got := CheckRefs(tree, []string{"title", "rows", "mystery"}, nil)
	want := []string{"ghost"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unresolved mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckRefsLoopBindingsOnlyInsideLoops(t *testing.T) {
	tree := mustParse(t, `{{this}} {{@index}}`)

	got := CheckRefs(tree, nil, nil)
	want := []string{"@index", "this"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unresolved mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckRefsNestedLoops(t *testing.T) {
	tree := mustParse(t, `{{#each outer}}{{#each this.items}}{{@index}}{{this}}{{/each}}{{@last}}{{/each}}`)

	if got := CheckRefs(tree, []string{"outer"}, nil); got != nil {
		t.Fatalf("expected no unresolved references, got %v", got)
	}
}

func TestCheckRefsReportsDottedPathOnce(t *testing.T) {
	tree := mustParse(t, `{{missing.deep.path}} {{missing.deep.path}}`)

	got := CheckRefs(tree, nil, nil)
	want := []string{"missing.deep.path"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unresolved mismatch (-want +got):\n%s", diff)
	}
}
