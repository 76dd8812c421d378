package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-dashgen/pkg/artifact"
	"github.com/goliatone/go-dashgen/pkg/manifest"
	"github.com/goliatone/go-dashgen/pkg/params"
	"github.com/goliatone/go-dashgen/pkg/validation"
)

const sampleTemplate = `{
  "template_info": {
    "name": "security-overview",
    "title": "Security Overview",
    "description": "Core security posture dashboard",
    "version": "1.2.0"
  },
  "parameters": {
    "dashboard_title": {"type": "string", "default": "{{ENV_NAME}} Security Overview"},
    "primary_index": {"type": "string", "required": true}
  },
  "dashboard": {
    "title": "{{dashboard_title}}",
    "dataSources": {
      "ds_main": {
        "type": "ds.search",
        "options": {"query": "index={{primary_index}} earliest=-24h | stats count"}
      }
    },
    "visualizations": {"viz_total": {"type": "splunk.singlevalue"}},
    "layout": {"type": "grid"}
  }
}`

func writeTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "security-overview.json"), []byte(sampleTemplate), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return dir
}

func TestGenerateWritesArtifactPair(t *testing.T) {
	templates := writeTemplates(t)
	output := t.TempDir()
	stamp := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	gen := New(
		WithTemplatesDir(templates),
		WithClock(func() time.Time { return stamp }),
	)
	result, err := gen.Generate(context.Background(), Request{
		Template:    "security-overview",
		Values:      map[string]any{"primary_index": "security"},
		Environment: "staging",
		OutputDir:   output,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !result.Written {
		t.Fatalf("artifact not written")
	}
	if !result.Report.Passed() {
		t.Fatalf("unexpected validation issues: %+v", result.Report.Issues)
	}

	document, err := os.ReadFile(result.Paths.Document)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if !strings.Contains(string(document), `"title": "staging Security Overview"`) {
		t.Fatalf("rendered title wrong:\n%s", document)
	}
	if filepath.Base(result.Paths.Document) != "staging_security_overview.json" {
		t.Fatalf("document filename = %s", filepath.Base(result.Paths.Document))
	}

	record, err := os.ReadFile(result.Paths.Metadata)
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	var meta map[string]any
	if err := json.Unmarshal(record, &meta); err != nil {
		t.Fatalf("metadata json: %v", err)
	}
	if meta["template_used"] != "security-overview" || meta["template_version"] != "1.2.0" {
		t.Fatalf("metadata = %v", meta)
	}
	if meta["generated_at"] != "2026-08-01T12:00:00Z" {
		t.Fatalf("generated_at = %v", meta["generated_at"])
	}
	if meta["environment"] != "staging" {
		t.Fatalf("environment = %v", meta["environment"])
	}
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	templates := writeTemplates(t)
	output := filepath.Join(t.TempDir(), "out")

	gen := New(WithTemplatesDir(templates))
	result, err := gen.Generate(context.Background(), Request{
		Template:  "security-overview",
		Values:    map[string]any{"primary_index": "main"},
		OutputDir: output,
		DryRun:    true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Written {
		t.Fatalf("dry run must not write")
	}
	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output directory created on dry run")
	}
	if len(result.Rendered) == 0 {
		t.Fatalf("dry run should still render")
	}
}

func TestGenerateMissingRequiredParameter(t *testing.T) {
	gen := New(WithTemplatesDir(writeTemplates(t)))
	_, err := gen.Generate(context.Background(), Request{Template: "security-overview"})

	var resolution *params.ResolutionError
	if !errors.As(err, &resolution) {
		t.Fatalf("expected *params.ResolutionError, got %T: %v", err, err)
	}
	if resolution.Param != "primary_index" {
		t.Fatalf("param = %s", resolution.Param)
	}
}

func TestGenerateValidationFailureBlocksWrite(t *testing.T) {
	dir := t.TempDir()
	body := `{"title": "{{name}}"}`
	doc := `{
  "template_info": {"name": "partial", "title": "Partial", "description": "d"},
  "parameters": {"name": {"type": "string", "default": "x"}},
  "dashboard_template_raw": "` + strings.ReplaceAll(body, `"`, `\"`) + `"
}`
	if err := os.WriteFile(filepath.Join(dir, "partial.json"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	output := filepath.Join(t.TempDir(), "out")

	gen := New(WithTemplatesDir(dir))
	result, err := gen.Generate(context.Background(), Request{
		Template:  "partial",
		OutputDir: output,
	})
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	if result == nil || result.Report.Passed() {
		t.Fatalf("expected failing report alongside the error")
	}
	if _, statErr := os.Stat(output); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("failed document must not be written")
	}
}

func TestGenerateStrictIssuesDoNotBlock(t *testing.T) {
	dir := t.TempDir()
	doc := `{
  "template_info": {"name": "wild", "title": "Wild", "description": "d"},
  "dashboard": {
    "title": "Wild",
    "dataSources": {"ds": {"type": "ds.search", "options": {"query": "index=* | stats count"}}},
    "visualizations": {},
    "layout": {}
  }
}`
	if err := os.WriteFile(filepath.Join(dir, "wild.json"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	gen := New(WithTemplatesDir(dir))
	result, err := gen.Generate(context.Background(), Request{
		Template:  "wild",
		OutputDir: t.TempDir(),
		Strict:    true,
	})
	if err != nil {
		t.Fatalf("strict findings must stay advisory: %v", err)
	}
	if !result.Written {
		t.Fatalf("artifact should be written despite warnings")
	}
	if result.Report.Count(validation.SeverityWarning) == 0 {
		t.Fatalf("expected unbounded wildcard warning, got %+v", result.Report.Issues)
	}
}

func TestGenerateWithPreloadedDefinition(t *testing.T) {
	def, err := manifest.Load("security-overview", []byte(sampleTemplate))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	gen := New()
	result, err := gen.Generate(context.Background(), Request{
		Definition: def,
		Values:     map[string]any{"primary_index": "main"},
		OutputDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Definition != def {
		t.Fatalf("definition not threaded through")
	}
}

func TestGenerateUsesInjectedWriter(t *testing.T) {
	var gotDir, gotTitle string
	writer := func(dir, title string, rendered []byte, meta artifact.Metadata) (artifact.Paths, error) {
		gotDir, gotTitle = dir, title
		return artifact.Paths{Document: "captured.json"}, nil
	}

	gen := New(WithTemplatesDir(writeTemplates(t)), WithWriter(writer))
	result, err := gen.Generate(context.Background(), Request{
		Template:  "security-overview",
		Values:    map[string]any{"primary_index": "main"},
		OutputDir: "unused-dir",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gotDir != "unused-dir" || gotTitle != "production Security Overview" {
		t.Fatalf("writer got dir=%q title=%q", gotDir, gotTitle)
	}
	if result.Paths.Document != "captured.json" {
		t.Fatalf("paths not taken from writer: %+v", result.Paths)
	}
}

func TestGenerateRequiresTemplateOrDefinition(t *testing.T) {
	if _, err := New().Generate(context.Background(), Request{}); err == nil {
		t.Fatalf("empty request must fail")
	}
}

func TestGenerateHonoursContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := New(WithTemplatesDir(writeTemplates(t)))
	if _, err := gen.Generate(ctx, Request{Template: "security-overview"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPreviewUsesTestContextAndDefaults(t *testing.T) {
	def, err := manifest.Load("security-overview", []byte(sampleTemplate))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	gen := New()
	result, err := gen.Preview(context.Background(), def, "", false)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(string(result.Rendered), "index=security") {
		t.Fatalf("test context value not applied:\n%s", result.Rendered)
	}
	if !strings.Contains(string(result.Rendered), "production Security Overview") {
		t.Fatalf("default with environment token not applied:\n%s", result.Rendered)
	}
}

func TestPreviewReportsStructuralFailure(t *testing.T) {
	def, err := manifest.Load("fragment", []byte(`{"title": "{{dashboard_title}}"}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	result, err := New().Preview(context.Background(), def, "test", false)
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	if result.Report.Passed() {
		t.Fatalf("fragment should fail the shape check")
	}
}
