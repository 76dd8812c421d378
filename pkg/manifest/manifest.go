// Package manifest loads dashboard template documents: the template_info
// metadata block, the declared parameter schema, and the dashboard body,
// parsed once into the template AST at load time. Documents are JSON or
// YAML; handlebars-heavy bodies can also ship as raw .hbs files.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dashgen/pkg/params"
	"github.com/goliatone/go-dashgen/pkg/template"
)

var (
	// ErrMissingTemplateInfo reports a manifest without its metadata block.
	ErrMissingTemplateInfo = errors.New("missing required section template_info")
	// ErrMissingDashboard reports a manifest without dashboard content.
	ErrMissingDashboard = errors.New("missing dashboard content")
)

// UnresolvedError lists template references that resolve to neither a
// declared parameter, a reserved token, nor a loop-local binding. It is a
// load-time error by design: schema drift surfaces before any render.
type UnresolvedError struct {
	Template string
	Refs     []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("manifest: template %q references undeclared parameters: %s",
		e.Template, strings.Join(e.Refs, ", "))
}

// Definition is an immutable loaded template: metadata, declared parameter
// schema in declaration order, and the parsed body. The AST is owned
// exclusively by its definition and never shared across templates.
type Definition struct {
	Name        string
	Title       string
	Description string
	Category    string
	Version     string
	Parameters  []params.Spec
	Body        *template.Tree

	// RawBody is the body text the AST was parsed from, kept for display
	// and debugging.
	RawBody string

	// Raw marks a bare handlebars template with no manifest envelope.
	// Such templates declare no parameter schema, so reference checking
	// is deferred to validation against a test context.
	Raw bool
}

type infoDoc struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Version     string `yaml:"version"`
}

type paramDoc struct {
	Type        string `yaml:"type"`
	Default     any    `yaml:"default"`
	Required    bool   `yaml:"required"`
	Description string `yaml:"description"`
	Schema      any    `yaml:"schema"`
}

type manifestDoc struct {
	TemplateInfo *infoDoc  `yaml:"template_info"`
	Parameters   yaml.Node `yaml:"parameters"`
	Dashboard    yaml.Node `yaml:"dashboard"`
	DashboardRaw string    `yaml:"dashboard_template_raw"`
}

// Load parses manifest data into a Definition. JSON manifests parse
// through the YAML decoder unchanged. Data that is not a manifest document
// at all is treated as a raw handlebars body; a manifest that carries
// dashboard content but no metadata block is an error, not a fallback.
func Load(name string, data []byte) (*Definition, error) {
	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return loadRaw(name, data)
	}
	if doc.TemplateInfo == nil {
		if doc.DashboardRaw != "" || !doc.Dashboard.IsZero() || !doc.Parameters.IsZero() {
			return nil, fmt.Errorf("manifest: template %q: %w", name, ErrMissingTemplateInfo)
		}
		return loadRaw(name, data)
	}
	return loadDocument(name, doc)
}

func loadDocument(name string, doc manifestDoc) (*Definition, error) {
	info := doc.TemplateInfo
	if info.Name == "" || info.Title == "" || info.Description == "" {
		return nil, fmt.Errorf("manifest: template %q: template_info requires name, title, and description", name)
	}
	version := info.Version
	if version == "" {
		version = "1.0.0"
	}

	specs, err := parameterSpecs(name, doc.Parameters)
	if err != nil {
		return nil, err
	}

	body, err := dashboardBody(name, doc)
	if err != nil {
		return nil, err
	}

	tree, err := template.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("manifest: template %q: %w", name, err)
	}

	declared := make([]string, len(specs))
	for i, spec := range specs {
		declared[i] = spec.Name
	}
	if refs := template.CheckRefs(tree, declared, params.Reserved()); refs != nil {
		return nil, &UnresolvedError{Template: name, Refs: refs}
	}

	return &Definition{
		Name:        info.Name,
		Title:       info.Title,
		Description: info.Description,
		Category:    info.Category,
		Version:     version,
		Parameters:  specs,
		Body:        tree,
		RawBody:     body,
	}, nil
}

// loadRaw wraps a bare handlebars body. Parse errors still fail the load;
// only schema-dependent checks are skipped.
func loadRaw(name string, data []byte) (*Definition, error) {
	body := string(data)
	tree, err := template.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("manifest: template %q: %w", name, err)
	}
	return &Definition{
		Name:    name,
		Title:   titleize(name),
		Version: "1.0.0",
		Body:    tree,
		RawBody: body,
		Raw:     true,
	}, nil
}

// parameterSpecs walks the parameters mapping node directly so declaration
// order survives decoding.
func parameterSpecs(tmpl string, node yaml.Node) ([]params.Spec, error) {
	if node.IsZero() {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("manifest: template %q: parameters section must be an object", tmpl)
	}

	var specs []params.Spec
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var doc paramDoc
		if err := node.Content[i+1].Decode(&doc); err != nil {
			return nil, fmt.Errorf("manifest: template %q: parameter %q: %w", tmpl, name, err)
		}
		if doc.Type == "" {
			doc.Type = string(params.TypeString)
		}

		spec := params.Spec{
			Name:        name,
			Type:        params.Type(doc.Type),
			Default:     doc.Default,
			Required:    doc.Required,
			Description: doc.Description,
		}
		if doc.Schema != nil {
			raw, err := json.Marshal(doc.Schema)
			if err != nil {
				return nil, fmt.Errorf("manifest: template %q: parameter %q schema: %w", tmpl, name, err)
			}
			spec.Schema = raw
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("manifest: template %q: %w", tmpl, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// dashboardBody extracts the template text: either the raw handlebars
// string, or the structured dashboard section re-serialised to indented
// JSON so directives embedded in its strings render in place.
func dashboardBody(tmpl string, doc manifestDoc) (string, error) {
	if doc.DashboardRaw != "" {
		return doc.DashboardRaw, nil
	}
	if doc.Dashboard.IsZero() {
		return "", fmt.Errorf("manifest: template %q: %w", tmpl, ErrMissingDashboard)
	}

	var dashboard any
	if err := doc.Dashboard.Decode(&dashboard); err != nil {
		return "", fmt.Errorf("manifest: template %q: dashboard section: %w", tmpl, err)
	}
	body, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return "", fmt.Errorf("manifest: template %q: dashboard section: %w", tmpl, err)
	}
	return string(body), nil
}

func titleize(name string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	words := strings.Fields(cleaned)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
