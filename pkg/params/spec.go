package params

import (
	"encoding/json"
	"fmt"
)

// Spec declares a single template parameter. Declaration order is
// significant: resolution (and therefore error reporting) walks specs in
// the order the template listed them.
type Spec struct {
	Name        string
	Type        Type
	Default     any
	Required    bool
	Description string

	// Schema optionally carries a JSON Schema fragment for object-typed
	// parameters. Objects without one pass through opaquely.
	Schema json.RawMessage
}

// Validate enforces the declaration invariants: a known type, and no
// default on a required parameter. A required parameter with a default
// could never fail resolution, which would hide caller mistakes.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("params: parameter spec is missing a name")
	}
	if !s.Type.valid() {
		return fmt.Errorf("params: parameter %q declares unknown type %q", s.Name, s.Type)
	}
	if s.Required && s.Default != nil {
		return fmt.Errorf("params: required parameter %q must not declare a default", s.Name)
	}
	if s.Schema != nil && s.Type != TypeObject {
		return fmt.Errorf("params: parameter %q declares a schema but is not object-typed", s.Name)
	}
	return nil
}
