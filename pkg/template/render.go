package template

import (
	"fmt"
	"strings"
)

// Scope is a chain of binding maps consulted innermost-first. Loop bodies
// push a child scope so this/@index/@first/@last shadow outer parameters
// without leaking past the block.
type Scope struct {
	vars   map[string]any
	parent *Scope
}

// NewScope wraps the outermost bindings, normally a resolved parameter set.
func NewScope(vars map[string]any) *Scope {
	return &Scope{vars: vars}
}

func (s *Scope) child(vars map[string]any) *Scope {
	return &Scope{vars: vars, parent: s}
}

// Lookup walks the scope chain for the first path segment, then descends
// the remaining segments through nested maps. The second return reports
// whether the full path resolved.
func (s *Scope) Lookup(path []string) (any, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		value, ok := scope.vars[path[0]]
		if !ok {
			continue
		}
		return descend(value, path[1:])
	}
	return nil, false
}

func descend(value any, rest []string) (any, bool) {
	for _, key := range rest {
		m, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		value, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return value, true
}

// Render evaluates the tree against the supplied bindings. It is a pure,
// single-pass computation: no I/O, deterministic, and all-or-nothing on
// error.
func (t *Tree) Render(vars map[string]any) (string, error) {
	var out strings.Builder
	if err := renderNodes(&out, t.Nodes, NewScope(vars)); err != nil {
		return "", err
	}
	return out.String(), nil
}

func renderNodes(out *strings.Builder, nodes []Node, scope *Scope) error {
	for _, node := range nodes {
		switch n := node.(type) {
		case Literal:
			out.WriteString(n.Text)
		case Variable:
			value, ok := scope.Lookup(n.Path)
			if !ok {
				return &RenderError{Kind: RenderUndefinedReference, Path: joinPath(n.Path)}
			}
			text, err := applyFilters(value, n.Filters)
			if err != nil {
				return err
			}
			out.WriteString(text)
		case Each:
			if err := renderEach(out, n, scope); err != nil {
				return err
			}
		case Cond:
			value, _ := scope.Lookup(n.Path)
			take := truthy(value)
			if n.Negate {
				take = !take
			}
			body := n.Body
			if !take {
				body = n.Else
			}
			if err := renderNodes(out, body, scope); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderEach(out *strings.Builder, each Each, scope *Scope) error {
	value, ok := scope.Lookup(each.Path)
	if !ok {
		return &RenderError{Kind: RenderUndefinedReference, Path: joinPath(each.Path)}
	}
	items, ok := asSlice(value)
	if !ok {
		return &RenderError{
			Kind:   RenderTypeMismatch,
			Path:   joinPath(each.Path),
			Detail: fmt.Sprintf("#each expects an array, got %T", value),
		}
	}
	for i, item := range items {
		iteration := scope.child(map[string]any{
			"this":   item,
			"@index": i,
			"@first": i == 0,
			"@last":  i == len(items)-1,
		})
		if err := renderNodes(out, each.Body, iteration); err != nil {
			return err
		}
	}
	return nil
}

func asSlice(value any) ([]any, bool) {
	switch items := value.(type) {
	case []any:
		return items, true
	case []string:
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

// truthy follows the engine's falsy set: absent values, false, zero, empty
// strings, and empty collections.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case float32:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
