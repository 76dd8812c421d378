// Package template implements the dashboard templating language: a
// handlebars-style dialect with variable interpolation, filter pipelines,
// and each/if/unless blocks. Parse produces an AST owned by its template
// definition; Render evaluates it against a scoped parameter context and
// preserves literal text byte-for-byte so the output can stay valid JSON.
package template
