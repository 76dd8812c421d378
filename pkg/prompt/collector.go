package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-dashgen/pkg/params"
)

// Collector walks a template's parameter specs in declaration order and
// prompts for every value the caller did not supply. Answers stay in their
// entry form (strings, bools, decoded objects); parameter resolution owns
// type coercion.
type Collector struct {
	driver Driver
}

// NewCollector returns a Collector backed by the given driver.
func NewCollector(driver Driver) *Collector {
	return &Collector{driver: driver}
}

// Collect returns supplied merged with prompted answers. Supplied values are
// never re-prompted. Optional parameters answered with an empty string are
// left unset so their defaults apply downstream.
func (c *Collector) Collect(ctx context.Context, specs []params.Spec, supplied map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(specs))
	for name, value := range supplied {
		out[name] = value
	}

	for _, spec := range specs {
		if _, ok := out[spec.Name]; ok {
			continue
		}
		value, answered, err := c.ask(ctx, spec)
		if err != nil {
			return nil, err
		}
		if answered {
			out[spec.Name] = value
		}
	}
	return out, nil
}

func (c *Collector) ask(ctx context.Context, spec params.Spec) (any, bool, error) {
	switch spec.Type {
	case params.TypeBoolean:
		value, err := c.driver.Confirm(ctx, ConfirmConfig{
			Message: message(spec),
			Default: boolDefault(spec.Default),
			Help:    spec.Description,
		})
		if err != nil {
			return nil, false, err
		}
		return value, true, nil

	case params.TypeNumber:
		text, err := c.driver.Input(ctx, InputConfig{
			Message:   message(spec),
			Default:   defaultText(spec.Default),
			Help:      spec.Description,
			Validator: validateNumber(spec),
		})
		if err != nil {
			return nil, false, err
		}
		if text == "" {
			return nil, false, nil
		}
		return text, true, nil

	case params.TypeObject:
		text, err := c.driver.Input(ctx, InputConfig{
			Message:   message(spec) + " (JSON object)",
			Default:   defaultText(spec.Default),
			Help:      spec.Description,
			Validator: validateObject(spec),
		})
		if err != nil {
			return nil, false, err
		}
		if text == "" {
			return nil, false, nil
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			return nil, false, fmt.Errorf("prompt: parameter %q: %w", spec.Name, err)
		}
		return obj, true, nil

	default:
		// Strings and arrays both enter as text; arrays split on commas
		// during resolution.
		text, err := c.driver.Input(ctx, InputConfig{
			Message:   message(spec),
			Default:   defaultText(spec.Default),
			Help:      spec.Description,
			Validator: validateRequired(spec),
		})
		if err != nil {
			return nil, false, err
		}
		if text == "" {
			return nil, false, nil
		}
		return text, true, nil
	}
}

func message(spec params.Spec) string {
	if spec.Required {
		return fmt.Sprintf("%s (%s, required)", spec.Name, spec.Type)
	}
	return fmt.Sprintf("%s (%s)", spec.Name, spec.Type)
}

func defaultText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func boolDefault(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1", "on":
			return true
		}
	}
	return false
}

func validateRequired(spec params.Spec) func(string) error {
	if !spec.Required {
		return nil
	}
	return func(text string) error {
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("parameter %q is required", spec.Name)
		}
		return nil
	}
}

func validateNumber(spec params.Spec) func(string) error {
	required := validateRequired(spec)
	return func(text string) error {
		if required != nil {
			if err := required(text); err != nil {
				return err
			}
		}
		if text == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err != nil {
			return fmt.Errorf("%q is not a number", text)
		}
		return nil
	}
}

func validateObject(spec params.Spec) func(string) error {
	required := validateRequired(spec)
	return func(text string) error {
		if required != nil {
			if err := required(text); err != nil {
				return err
			}
		}
		if text == "" {
			return nil
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			return fmt.Errorf("not a JSON object: %v", err)
		}
		return nil
	}
}
