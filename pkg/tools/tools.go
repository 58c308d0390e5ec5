package tools

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// officePhone appears in every contact-fallback string the executors emit.
const officePhone = "(555) 123-4567"

// decodeArgs maps the engine-supplied argument object onto a typed input
// struct and validates it. The round-trip through JSON keeps the handling
// tolerant of extra keys the engine may invent.
func decodeArgs(args map[string]any, v *validator.Validate, into any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := v.Struct(into); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}
