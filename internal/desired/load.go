package desired

import (
	"encoding/json"
	"os"

	"github.com/xeipuuv/gojsonschema"

	wserrors "github.com/systmms/wsops/internal/errors"
)

// planSchema is the shape contract for the desired-state file. Anything
// that fails it is invalid input, not a partially-usable plan.
const planSchema = `{
  "type": "object",
  "required": ["attendees"],
  "additionalProperties": false,
  "properties": {
    "attendees": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["email", "first_name", "last_name"],
        "properties": {
          "email": {"type": "string", "minLength": 1},
          "first_name": {"type": "string"},
          "last_name": {"type": "string"},
          "company": {"type": "string"},
          "namespace_suffix": {"type": "string"}
        }
      }
    }
  }
}`

// LoadFile reads and validates a previously generated desired-state file.
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wserrors.ConfigError{
				Field:      "desired-state",
				Value:      path,
				Message:    "desired-state file not found",
				Suggestion: "Run 'wsops prepare --roster <csv>' to generate it",
			}
		}
		return nil, wserrors.ConfigError{
			Field:   "desired-state",
			Value:   path,
			Message: "failed to read desired-state file: " + err.Error(),
		}
	}
	return Decode(data, path)
}

// Decode validates raw desired-state bytes against the schema and
// unmarshals them.
func Decode(data []byte, source string) (*Plan, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(planSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, wserrors.ConfigError{
			Field:      "desired-state",
			Value:      source,
			Message:    "desired-state file is not well-formed JSON: " + err.Error(),
			Suggestion: "Regenerate it with 'wsops prepare'",
		}
	}
	if !result.Valid() {
		detail := ""
		for _, desc := range result.Errors() {
			if detail != "" {
				detail += "; "
			}
			detail += desc.String()
		}
		return nil, wserrors.ConfigError{
			Field:      "desired-state",
			Value:      source,
			Message:    "desired-state file failed validation: " + detail,
			Suggestion: "Regenerate it with 'wsops prepare'",
		}
	}

	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, wserrors.ConfigError{
			Field:   "desired-state",
			Value:   source,
			Message: "failed to decode desired-state file: " + err.Error(),
		}
	}
	return &plan, nil
}
