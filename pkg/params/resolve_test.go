package params

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dashgen/pkg/template"
)

func TestResolveNumberFromNumericString(t *testing.T) {
	specs := []Spec{{Name: "count", Type: TypeNumber, Required: true}}

	set, err := Resolve(specs, map[string]any{"count": "7"}, "dev")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	value, ok := set.Get("count")
	if !ok {
		t.Fatalf("count not resolved")
	}
	if value.Kind() != TypeNumber || value.Number() != 7 {
		t.Fatalf("count = %v (%s), want number 7", value.Interface(), value.Kind())
	}
}

func TestResolveExpandsEnvTokenInStringDefault(t *testing.T) {
	specs := []Spec{{Name: "title", Type: TypeString, Default: "{{ENV_NAME}} Dashboard"}}

	set, err := Resolve(specs, nil, "production")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	value, _ := set.Get("title")
	if value.String() != "production Dashboard" {
		t.Fatalf("title = %q, want %q", value.String(), "production Dashboard")
	}
}

func TestResolveMissingRequired(t *testing.T) {
	specs := []Spec{{Name: "idx", Type: TypeString, Required: true}}

	_, err := Resolve(specs, nil, "dev")
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ResolutionError, got %T: %v", err, err)
	}
	if resErr.Kind != MissingRequired || resErr.Param != "idx" {
		t.Fatalf("got (%s, %s), want (%s, idx)", resErr.Kind, resErr.Param, MissingRequired)
	}
}

func TestResolveErrorOrderFollowsDeclarationOrder(t *testing.T) {
	specs := []Spec{
		{Name: "first", Type: TypeString, Required: true},
		{Name: "second", Type: TypeString, Required: true},
	}

	_, err := Resolve(specs, nil, "dev")
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ResolutionError, got %v", err)
	}
	if resErr.Param != "first" {
		t.Fatalf("param = %q, want first", resErr.Param)
	}
}

func TestResolveBooleanTokens(t *testing.T) {
	cases := []struct {
		raw  any
		want bool
	}{
		{true, true}, {"true", true}, {"yes", true}, {"1", true}, {"on", true},
		{false, false}, {"false", false}, {"no", false}, {"0", false}, {"off", false},
	}
	for _, tc := range cases {
		specs := []Spec{{Name: "flag", Type: TypeBoolean}}
		set, err := Resolve(specs, map[string]any{"flag": tc.raw}, "dev")
		if err != nil {
			t.Fatalf("resolve %v: %v", tc.raw, err)
		}
		value, _ := set.Get("flag")
		if value.Bool() != tc.want {
			t.Fatalf("flag(%v) = %v, want %v", tc.raw, value.Bool(), tc.want)
		}
	}
}

func TestResolveArrayFromCommaSeparatedString(t *testing.T) {
	specs := []Spec{{Name: "indexes", Type: TypeArray}}

	set, err := Resolve(specs, map[string]any{"indexes": "security, firewall ,ids"}, "dev")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	value, _ := set.Get("indexes")
	want := []any{"security", "firewall", "ids"}
	if diff := cmp.Diff(want, value.Interface()); diff != "" {
		t.Fatalf("indexes mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveArrayFromNativeList(t *testing.T) {
	specs := []Spec{{Name: "thresholds", Type: TypeArray}}

	set, err := Resolve(specs, map[string]any{"thresholds": []any{1.0, 2.5}}, "dev")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	value, _ := set.Get("thresholds")
	if diff := cmp.Diff([]any{1.0, 2.5}, value.Interface()); diff != "" {
		t.Fatalf("thresholds mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveTypeMismatches(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
		raw  any
	}{
		{"non-numeric string", Spec{Name: "n", Type: TypeNumber}, "not a number"},
		{"bogus boolean token", Spec{Name: "b", Type: TypeBoolean}, "maybe"},
		{"number into array", Spec{Name: "a", Type: TypeArray}, 3.0},
		{"string into object", Spec{Name: "o", Type: TypeObject}, "{}"},
		{"array into string", Spec{Name: "s", Type: TypeString}, []any{"x"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve([]Spec{tc.spec}, map[string]any{tc.spec.Name: tc.raw}, "dev")
			var resErr *ResolutionError
			if !errors.As(err, &resErr) {
				t.Fatalf("expected *ResolutionError, got %T: %v", err, err)
			}
			if resErr.Kind != TypeMismatch {
				t.Fatalf("kind = %s, want %s", resErr.Kind, TypeMismatch)
			}
			if resErr.Param != tc.spec.Name {
				t.Fatalf("param = %q, want %q", resErr.Param, tc.spec.Name)
			}
		})
	}
}

func TestResolveObjectPassesThroughOpaquely(t *testing.T) {
	raw := map[string]any{"Authentication": []any{"user", "src"}}
	specs := []Spec{{Name: "cim_fields", Type: TypeObject}}

	set, err := Resolve(specs, map[string]any{"cim_fields": raw}, "dev")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	value, _ := set.Get("cim_fields")
	if diff := cmp.Diff(raw, value.Object()); diff != "" {
		t.Fatalf("object mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveObjectAgainstDeclaredSchema(t *testing.T) {
	schema := json.RawMessage(`{
		"type": "object",
		"required": ["host"],
		"properties": {"host": {"type": "string"}, "port": {"type": "number"}}
	}`)
	specs := []Spec{{Name: "endpoint", Type: TypeObject, Schema: schema}}

	if _, err := Resolve(specs, map[string]any{"endpoint": map[string]any{"host": "splunk.local", "port": 8089.0}}, "dev"); err != nil {
		t.Fatalf("conforming object rejected: %v", err)
	}

	_, err := Resolve(specs, map[string]any{"endpoint": map[string]any{"port": 8089.0}}, "dev")
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ResolutionError for missing required property, got %v", err)
	}
	if resErr.Kind != TypeMismatch {
		t.Fatalf("kind = %s, want %s", resErr.Kind, TypeMismatch)
	}
}

func TestResolveSuppliedValueBeatsDefault(t *testing.T) {
	specs := []Spec{{Name: "index", Type: TypeString, Default: "main"}}

	set, err := Resolve(specs, map[string]any{"index": "security"}, "dev")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	value, _ := set.Get("index")
	if value.String() != "security" {
		t.Fatalf("index = %q, want security", value.String())
	}
}

func TestResolveOptionalWithoutDefaultResolvesEmpty(t *testing.T) {
	specs := []Spec{
		{Name: "note", Type: TypeString},
		{Name: "limit", Type: TypeNumber},
		{Name: "verbose", Type: TypeBoolean},
		{Name: "extra_indexes", Type: TypeArray},
		{Name: "overrides", Type: TypeObject},
	}

	set, err := Resolve(specs, nil, "dev")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	want := map[string]any{
		"note":          "",
		"limit":         0.0,
		"verbose":       false,
		"extra_indexes": []any{},
		"overrides":     map[string]any{},
	}
	for name, wantValue := range want {
		value, ok := set.Get(name)
		if !ok {
			t.Fatalf("declared optional parameter %q missing from set", name)
		}
		if diff := cmp.Diff(wantValue, value.Interface()); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", name, diff)
		}
	}
}

func TestResolvedSetRendersEveryDeclaredReference(t *testing.T) {
	specs := []Spec{
		{Name: "title", Type: TypeString, Default: "Overview"},
		{Name: "note", Type: TypeString},
		{Name: "extra_indexes", Type: TypeArray},
	}
	tree, err := template.Parse(`{{title}}[{{note}}]{{#if note}}annotated{{/if}}{{#each extra_indexes}}{{this}}{{/each}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	set, err := Resolve(specs, nil, "dev")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	rendered, err := tree.Render(set.Context())
	if err != nil {
		t.Fatalf("render with a schema-satisfying set must not fail: %v", err)
	}
	if rendered != "Overview[]" {
		t.Fatalf("rendered = %q, want %q", rendered, "Overview[]")
	}
}

func TestResolveInjectsEnvironmentBindings(t *testing.T) {
	set, err := Resolve(nil, nil, "staging")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	ctx := set.Context()
	if ctx[EnvParam] != "staging" || ctx["environment"] != "staging" {
		t.Fatalf("environment bindings missing from context: %v", ctx)
	}
}

func TestSpecValidateRejectsRequiredWithDefault(t *testing.T) {
	spec := Spec{Name: "x", Type: TypeString, Required: true, Default: "y"}
	if err := spec.Validate(); err == nil {
		t.Fatalf("required parameter with a default should be rejected")
	}
}

func TestSetMarshalJSONKeepsDeclarationOrder(t *testing.T) {
	specs := []Spec{
		{Name: "zulu", Type: TypeString, Default: "z"},
		{Name: "alpha", Type: TypeNumber, Default: 1.0},
	}
	set, err := Resolve(specs, nil, "dev")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"ENV_NAME":"dev","environment":"dev","zulu":"z","alpha":1}`
	if string(data) != want {
		t.Fatalf("marshal = %s, want %s", data, want)
	}
}
