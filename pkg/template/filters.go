package template

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type filterSpec struct {
	minArgs int
	maxArgs int
	apply   func(value any, args []string) (string, error)
}

// filterRegistry is the fixed filter set. Names are resolved here at parse
// time so an unknown filter fails the load, not the render.
var filterRegistry = map[string]filterSpec{
	"upper": {apply: func(v any, _ []string) (string, error) {
		return strings.ToUpper(stringify(v)), nil
	}},
	"lower": {apply: func(v any, _ []string) (string, error) {
		return strings.ToLower(stringify(v)), nil
	}},
	"title": {apply: func(v any, _ []string) (string, error) {
		return titleCase(stringify(v)), nil
	}},
	"length": {apply: func(v any, _ []string) (string, error) {
		return strconv.Itoa(lengthOf(v)), nil
	}},
	"json": {apply: func(v any, _ []string) (string, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("template: json filter: %w", err)
		}
		return string(data), nil
	}},
	"replace": {minArgs: 1, maxArgs: 2, apply: func(v any, args []string) (string, error) {
		replacement := ""
		if len(args) > 1 {
			replacement = args[1]
		}
		return strings.ReplaceAll(stringify(v), args[0], replacement), nil
	}},
}

func applyFilters(value any, filters []FilterCall) (string, error) {
	var (
		out      any = value
		rendered string
		err      error
	)
	for _, call := range filters {
		spec := filterRegistry[call.Name]
		rendered, err = spec.apply(out, call.Args)
		if err != nil {
			return "", err
		}
		out = rendered
	}
	return stringify(out), nil
}

// stringify produces the canonical textual form of a scope value. Numbers
// drop a trailing .0 so count-style parameters interpolate cleanly into
// query strings.
func stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case json.Number:
		return value.String()
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(data)
	}
}

func lengthOf(v any) int {
	switch value := v.(type) {
	case string:
		return len(value)
	case []any:
		return len(value)
	case []string:
		return len(value)
	case map[string]any:
		return len(value)
	default:
		return 0
	}
}

func titleCase(s string) string {
	prevLetter := false
	return strings.Map(func(r rune) rune {
		mapped := r
		if unicode.IsLetter(r) {
			if prevLetter {
				mapped = unicode.ToLower(r)
			} else {
				mapped = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		return mapped
	}, s)
}
