package params

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// validateObjectSchema checks an object parameter against the JSON Schema
// fragment its spec declared. Objects without a schema are never inspected.
func validateObjectSchema(raw json.RawMessage, value map[string]any) error {
	var schema openapi3.Schema
	if err := schema.UnmarshalJSON(raw); err != nil {
		return fmt.Errorf("invalid parameter schema: %w", err)
	}
	if err := schema.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("object does not match declared schema: %w", err)
	}
	return nil
}
