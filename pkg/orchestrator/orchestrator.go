// Package orchestrator coordinates the full pipeline from template
// definition to written artifact: load, resolve parameters, render,
// validate, write. Each stage short-circuits on failure so no artifact is
// ever written from an unvalidated document.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-dashgen/pkg/artifact"
	"github.com/goliatone/go-dashgen/pkg/manifest"
	"github.com/goliatone/go-dashgen/pkg/params"
	"github.com/goliatone/go-dashgen/pkg/template"
	"github.com/goliatone/go-dashgen/pkg/validation"
)

const (
	defaultEnvironment = "production"
	defaultOutputDir   = "generated_dashboards"
	defaultSplunkVer   = "9.0+"
	dashboardType      = "splunk_dashboard_studio"

	// titleParam, when declared and resolved, names the artifact instead of
	// the template title.
	titleParam = "dashboard_title"
)

// ErrValidationFailed marks a structurally unsound rendered document. The
// Result returned alongside it carries the full report.
var ErrValidationFailed = errors.New("orchestrator: rendered document failed validation")

// Option customises the generator configuration.
type Option func(*Generator)

// WithStore injects the template store used to resolve requests by name.
func WithStore(store *manifest.Store) Option {
	return func(g *Generator) {
		g.store = store
	}
}

// WithTemplatesDir is shorthand for WithStore over an on-disk directory.
func WithTemplatesDir(dir string) Option {
	return func(g *Generator) {
		g.store = manifest.NewStore(dir)
	}
}

// WithShape overrides the document shape rendered output is checked
// against. The default is the Dashboard Studio shape.
func WithShape(shape validation.Shape) Option {
	return func(g *Generator) {
		g.shape = shape
	}
}

// WithSplunkVersion sets the target Splunk version recorded in artifact
// metadata.
func WithSplunkVersion(version string) Option {
	return func(g *Generator) {
		g.splunkVersion = version
	}
}

// WithClock injects the time source stamped into metadata records. Tests
// use it to pin generated_at.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithStrict makes every request run the advisory lint tier, regardless of
// the per-request Strict field.
func WithStrict(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

// ValidateFunc checks a rendered document against a shape.
type ValidateFunc func(rendered []byte, shape validation.Shape, strict bool) validation.Report

// WriteFunc persists an artifact pair under dir.
type WriteFunc func(dir, title string, rendered []byte, meta artifact.Metadata) (artifact.Paths, error)

// WithValidator replaces the document validator.
func WithValidator(fn ValidateFunc) Option {
	return func(g *Generator) {
		if fn != nil {
			g.validate = fn
		}
	}
}

// WithWriter replaces the artifact writer.
func WithWriter(fn WriteFunc) Option {
	return func(g *Generator) {
		if fn != nil {
			g.write = fn
		}
	}
}

// Generator runs the generation pipeline. The zero value is not usable;
// construct with New.
type Generator struct {
	store         *manifest.Store
	shape         validation.Shape
	splunkVersion string
	strict        bool
	now           func() time.Time
	validate      ValidateFunc
	write         WriteFunc
}

// New constructs a Generator applying any provided options.
func New(options ...Option) *Generator {
	g := &Generator{
		shape:         validation.DefaultShape(),
		splunkVersion: defaultSplunkVer,
		now:           time.Now,
		validate:      validation.Validate,
		write:         artifact.Write,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	return g
}

// Request describes one generation run.
type Request struct {
	// Template names a template resolved through the store. Optional when
	// Definition is supplied.
	Template string

	// Definition bypasses the store when the caller already loaded one.
	Definition *manifest.Definition

	// Values are the caller-supplied parameter values, keyed by name.
	Values map[string]any

	// Environment is the deployment environment injected as ENV_NAME.
	// Empty means production.
	Environment string

	// OutputDir receives the artifact pair. Empty means
	// generated_dashboards.
	OutputDir string

	// Strict enables the advisory lint tier on top of structural checks.
	Strict bool

	// DryRun runs the full pipeline but writes nothing.
	DryRun bool
}

// Result carries everything a run produced. On ErrValidationFailed the
// result is still returned so callers can present the report.
type Result struct {
	Definition *manifest.Definition
	Parameters *params.Set
	Rendered   []byte
	Report     validation.Report
	Metadata   artifact.Metadata

	// Paths is zero unless Written is true.
	Paths   artifact.Paths
	Written bool
}

// Generate executes the load, resolve, render, validate, write sequence.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	def, err := g.resolveDefinition(req)
	if err != nil {
		return nil, err
	}

	env := req.Environment
	if env == "" {
		env = defaultEnvironment
	}

	set, err := params.Resolve(def.Parameters, req.Values, env)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: template %q: %w", def.Name, err)
	}

	rendered, err := def.Body.Render(set.Context())
	if err != nil {
		return nil, fmt.Errorf("orchestrator: template %q: %w", def.Name, err)
	}

	result := &Result{
		Definition: def,
		Parameters: set,
		Rendered:   []byte(rendered),
		Metadata:   g.metadata(def, set, env),
	}

	result.Report = g.validate(result.Rendered, g.shape, req.Strict || g.strict)
	if !result.Report.Passed() {
		return result, ErrValidationFailed
	}

	if req.DryRun {
		return result, nil
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = defaultOutputDir
	}
	paths, err := g.write(outputDir, g.title(def, set), result.Rendered, result.Metadata)
	if err != nil {
		return result, err
	}
	result.Paths = paths
	result.Written = true
	return result, nil
}

func (g *Generator) resolveDefinition(req Request) (*manifest.Definition, error) {
	if req.Definition != nil {
		return req.Definition, nil
	}
	if req.Template == "" {
		return nil, errors.New("orchestrator: template name or definition is required")
	}
	if g.store == nil {
		return nil, errors.New("orchestrator: no template store configured")
	}
	return g.store.Load(req.Template)
}

// title prefers the resolved dashboard_title parameter over the template
// title so one template can name artifacts per environment.
func (g *Generator) title(def *manifest.Definition, set *params.Set) string {
	if value, ok := set.Get(titleParam); ok {
		if text := value.Text(); text != "" {
			return text
		}
	}
	return def.Title
}

func (g *Generator) metadata(def *manifest.Definition, set *params.Set, env string) artifact.Metadata {
	return artifact.Metadata{
		TemplateName:    def.Name,
		TemplateVersion: def.Version,
		GeneratedAt:     g.now().UTC(),
		Environment:     env,
		Parameters:      set,
		SplunkVersion:   g.splunkVersion,
		DashboardType:   dashboardType,
	}
}

// Preview renders a definition against the standard test context overlaid
// with its declared defaults, without resolving caller values or touching
// disk. The validate workflow uses it to exercise templates that declare
// required parameters.
func (g *Generator) Preview(ctx context.Context, def *manifest.Definition, env string, strict bool) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if def == nil {
		return nil, errors.New("orchestrator: definition is required")
	}
	if env == "" {
		env = defaultEnvironment
	}

	vars := validation.TestContext()
	vars[params.EnvParam] = env
	vars["environment"] = env
	for _, spec := range def.Parameters {
		if spec.Default != nil {
			value := spec.Default
			if text, ok := value.(string); ok {
				value = params.ExpandEnvToken(text, env)
			}
			vars[spec.Name] = value
			continue
		}
		if _, ok := vars[spec.Name]; !ok {
			vars[spec.Name] = validation.SampleValue(string(spec.Type), spec.Name)
		}
	}

	rendered, err := def.Body.Render(vars)
	if err != nil {
		var renderErr *template.RenderError
		if errors.As(err, &renderErr) {
			return &Result{
				Definition: def,
				Report: validation.Report{Issues: []validation.Issue{{
					Severity: validation.SeverityError,
					Category: validation.CategorySyntax,
					Message:  err.Error(),
				}}},
			}, ErrValidationFailed
		}
		return nil, fmt.Errorf("orchestrator: template %q: %w", def.Name, err)
	}

	result := &Result{
		Definition: def,
		Rendered:   []byte(rendered),
	}
	result.Report = g.validate(result.Rendered, g.shape, strict || g.strict)
	if !result.Report.Passed() {
		return result, ErrValidationFailed
	}
	return result, nil
}
