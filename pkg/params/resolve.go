package params

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// EnvParam is the reserved parameter carrying the active environment name.
// It is injected into the supplied map before resolution rather than being
// string-substituted during rendering.
const EnvParam = "ENV_NAME"

// envAlias mirrors EnvParam under the lower-case name older templates use.
const envAlias = "environment"

// Reserved lists the parameter names the resolver injects itself. Template
// definitions treat these as always-resolvable references.
func Reserved() []string {
	return []string{EnvParam, envAlias}
}

// Set is an immutable resolved parameter set: every declared parameter that
// resolved, coerced to its declared type, in declaration order.
type Set struct {
	names  []string
	values map[string]Value
}

// Get returns the resolved value for name.
func (s *Set) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Names returns the resolved parameter names in declaration order.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Context flattens the set into the plain map form the renderer consumes.
// The returned map is a fresh copy on every call; the set itself is never
// exposed mutably.
func (s *Set) Context() map[string]any {
	out := make(map[string]any, len(s.values))
	for name, value := range s.values {
		out[name] = value.Interface()
	}
	return out
}

// MarshalJSON writes the set as an object in declaration order so metadata
// records stay diffable across regenerations.
func (s *Set) MarshalJSON() ([]byte, error) {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(s.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return []byte(buf.String()), nil
}

// Resolve merges declared specs with caller-supplied values and the active
// environment name. For each spec, in declaration order: take the supplied
// value, else the default (with the environment token expanded in string
// defaults), else fail if required. Optional parameters with neither
// resolve to their type's empty value. The chosen value is then coerced to
// the declared type.
func Resolve(specs []Spec, supplied map[string]any, env string) (*Set, error) {
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
	}

	merged := make(map[string]any, len(supplied)+2)
	for name, value := range supplied {
		merged[name] = value
	}
	merged[EnvParam] = env
	merged[envAlias] = env

	set := &Set{values: make(map[string]Value, len(specs)+2)}
	set.names = append(set.names, EnvParam, envAlias)
	set.values[EnvParam] = StringValue(env)
	set.values[envAlias] = StringValue(env)

	for _, spec := range specs {
		if spec.Name == EnvParam || spec.Name == envAlias {
			continue
		}
		chosen, ok := merged[spec.Name]
		if !ok {
			if spec.Default == nil {
				if spec.Required {
					return nil, &ResolutionError{Kind: MissingRequired, Param: spec.Name}
				}
				set.names = append(set.names, spec.Name)
				set.values[spec.Name] = zeroValue(spec.Type)
				continue
			}
			chosen = spec.Default
			if text, isString := chosen.(string); isString {
				chosen = ExpandEnvToken(text, env)
			}
		}

		value, err := coerce(chosen, spec)
		if err != nil {
			return nil, err
		}
		set.names = append(set.names, spec.Name)
		set.values[spec.Name] = value
	}
	return set, nil
}

// ExpandEnvToken substitutes the environment token inside a string default
// before coercion, so defaults like "{{ENV_NAME}} Dashboard" resolve to a
// plain value instead of leaking a directive into the rendered document.
func ExpandEnvToken(text, env string) string {
	text = strings.ReplaceAll(text, "{{"+EnvParam+"}}", env)
	return strings.ReplaceAll(text, "{{ "+EnvParam+" }}", env)
}

// zeroValue is what a declared optional parameter resolves to when neither
// a supplied value nor a default exists. Every declared name resolves to
// something, so a template reference to it never trips the
// undefined-reference error; the empty forms are all falsy, so conditionals
// treat them as unset.
func zeroValue(t Type) Value {
	switch t {
	case TypeNumber:
		return NumberValue(0)
	case TypeBoolean:
		return BoolValue(false)
	case TypeArray:
		return ArrayValue()
	case TypeObject:
		return ObjectValue(map[string]any{})
	default:
		return StringValue("")
	}
}

func coerce(raw any, spec Spec) (Value, error) {
	switch spec.Type {
	case TypeString:
		return coerceString(raw, spec.Name)
	case TypeNumber:
		return coerceNumber(raw, spec.Name)
	case TypeBoolean:
		return coerceBool(raw, spec.Name)
	case TypeArray:
		return coerceArray(raw, spec.Name)
	case TypeObject:
		return coerceObject(raw, spec)
	default:
		return Value{}, &ResolutionError{
			Kind:   TypeMismatch,
			Param:  spec.Name,
			Detail: fmt.Sprintf("unknown declared type %q", spec.Type),
		}
	}
}

func coerceString(raw any, name string) (Value, error) {
	switch v := raw.(type) {
	case string:
		return StringValue(v), nil
	case bool:
		return StringValue(strconv.FormatBool(v)), nil
	case float64:
		return StringValue(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case int:
		return StringValue(strconv.Itoa(v)), nil
	case int64:
		return StringValue(strconv.FormatInt(v, 10)), nil
	case json.Number:
		return StringValue(v.String()), nil
	default:
		return Value{}, &ResolutionError{
			Kind:   TypeMismatch,
			Param:  name,
			Detail: fmt.Sprintf("expected string, got %T", raw),
		}
	}
}

func coerceNumber(raw any, name string) (Value, error) {
	switch v := raw.(type) {
	case float64:
		return NumberValue(v), nil
	case float32:
		return NumberValue(float64(v)), nil
	case int:
		return NumberValue(float64(v)), nil
	case int64:
		return NumberValue(float64(v)), nil
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return Value{}, &ResolutionError{Kind: TypeMismatch, Param: name, Detail: err.Error()}
		}
		return NumberValue(n), nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Value{}, &ResolutionError{
				Kind:   TypeMismatch,
				Param:  name,
				Detail: fmt.Sprintf("%q is not numeric", v),
			}
		}
		return NumberValue(n), nil
	default:
		return Value{}, &ResolutionError{
			Kind:   TypeMismatch,
			Param:  name,
			Detail: fmt.Sprintf("expected number, got %T", raw),
		}
	}
}

func coerceBool(raw any, name string) (Value, error) {
	switch v := raw.(type) {
	case bool:
		return BoolValue(v), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1", "on":
			return BoolValue(true), nil
		case "false", "no", "0", "off":
			return BoolValue(false), nil
		}
		return Value{}, &ResolutionError{
			Kind:   TypeMismatch,
			Param:  name,
			Detail: fmt.Sprintf("%q is not a boolean token", v),
		}
	default:
		return Value{}, &ResolutionError{
			Kind:   TypeMismatch,
			Param:  name,
			Detail: fmt.Sprintf("expected boolean, got %T", raw),
		}
	}
}

func coerceArray(raw any, name string) (Value, error) {
	switch v := raw.(type) {
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = inferValue(item)
		}
		return ArrayValue(items...), nil
	case []string:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = StringValue(item)
		}
		return ArrayValue(items...), nil
	case string:
		parts := strings.Split(v, ",")
		items := make([]Value, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			items = append(items, StringValue(trimmed))
		}
		return ArrayValue(items...), nil
	default:
		return Value{}, &ResolutionError{
			Kind:   TypeMismatch,
			Param:  name,
			Detail: fmt.Sprintf("expected array or comma-separated string, got %T", raw),
		}
	}
}

func coerceObject(raw any, spec Spec) (Value, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Value{}, &ResolutionError{
			Kind:   TypeMismatch,
			Param:  spec.Name,
			Detail: fmt.Sprintf("expected object, got %T", raw),
		}
	}
	if spec.Schema != nil {
		if err := validateObjectSchema(spec.Schema, obj); err != nil {
			return Value{}, &ResolutionError{Kind: TypeMismatch, Param: spec.Name, Detail: err.Error()}
		}
	}
	return ObjectValue(obj), nil
}

// inferValue maps a plain Go value onto the variant without coercion, used
// for array elements where the template declares no element type.
func inferValue(raw any) Value {
	switch v := raw.(type) {
	case string:
		return StringValue(v)
	case bool:
		return BoolValue(v)
	case float64:
		return NumberValue(v)
	case int:
		return NumberValue(float64(v))
	case int64:
		return NumberValue(float64(v))
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = inferValue(item)
		}
		return ArrayValue(items...)
	case map[string]any:
		return ObjectValue(v)
	default:
		return StringValue(fmt.Sprintf("%v", v))
	}
}
