// Package params resolves a template's declared parameter schema against
// caller-supplied values and the active environment name, producing the
// immutable typed set one render consumes.
package params
