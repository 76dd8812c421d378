// Package dashgen generates Splunk Dashboard Studio documents from
// parameterized templates. The root package re-exports the pipeline types so
// most callers only import this module path.
package dashgen

import (
	"context"

	"github.com/goliatone/go-dashgen/pkg/manifest"
	"github.com/goliatone/go-dashgen/pkg/orchestrator"
	"github.com/goliatone/go-dashgen/pkg/validation"
)

// Definition is a loaded dashboard template.
type Definition = manifest.Definition

// Store discovers and loads templates from a directory or fs.FS.
type Store = manifest.Store

// Request describes one generation run.
type Request = orchestrator.Request

// Result carries everything a generation run produced.
type Result = orchestrator.Result

// Report is the validation outcome for a rendered document.
type Report = validation.Report

// Issue is a single validation finding.
type Issue = validation.Issue

// ErrValidationFailed marks a structurally unsound rendered document.
var ErrValidationFailed = orchestrator.ErrValidationFailed

// NewGenerator exposes the pipeline constructor from the top-level module.
func NewGenerator(options ...orchestrator.Option) *orchestrator.Generator {
	return orchestrator.New(options...)
}

// Generate loads a template by name from templatesDir, resolves values
// against its declared parameters, renders, validates, and writes the
// artifact pair. It is the simplest entry point for callers that just want
// a dashboard on disk.
func Generate(ctx context.Context, templatesDir string, req Request, options ...orchestrator.Option) (*Result, error) {
	options = append([]orchestrator.Option{orchestrator.WithTemplatesDir(templatesDir)}, options...)
	return orchestrator.New(options...).Generate(ctx, req)
}

// WithStore injects a pre-built template store.
func WithStore(store *Store) orchestrator.Option {
	return orchestrator.WithStore(store)
}

// WithShape overrides the document shape rendered output is checked against.
func WithShape(shape validation.Shape) orchestrator.Option {
	return orchestrator.WithShape(shape)
}

// WithSplunkVersion sets the target Splunk version recorded in metadata.
func WithSplunkVersion(version string) orchestrator.Option {
	return orchestrator.WithSplunkVersion(version)
}
