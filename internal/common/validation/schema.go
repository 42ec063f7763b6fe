package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	apperrors "livest/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON schema for one request body, with optional
// per-field messages that replace the generic schema descriptions.
type Schema struct {
	compiled *gojsonschema.Schema
	messages map[string]string
}

// Compile parses a JSON schema document.
func Compile(schemaJSON string) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// MustCompile is Compile for package-level schemas.
func MustCompile(schemaJSON string) *Schema {
	s, err := Compile(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// WithMessages returns a copy of s reporting messages[field] for any failure on field.
func (s *Schema) WithMessages(messages map[string]string) *Schema {
	return &Schema{compiled: s.compiled, messages: messages}
}

// Validate checks document and returns one FieldError per failing field.
func (s *Schema) Validate(document interface{}) ([]apperrors.FieldError, error) {
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}

	seen := make(map[string]bool)
	var out []apperrors.FieldError
	for _, re := range result.Errors() {
		field := re.Field()
		if re.Type() == "required" {
			if p, ok := re.Details()["property"].(string); ok {
				field = p
			}
		}
		if seen[field] {
			continue
		}
		seen[field] = true

		msg := re.Description()
		if m, ok := s.messages[field]; ok {
			msg = m
		}
		out = append(out, apperrors.FieldError{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out, nil
}

// DecodeJSON reads a JSON body, validates it against schema and decodes it into dest.
// Malformed JSON is INVALID_INPUT; schema failures are VALIDATION_FAILED.
func DecodeJSON(body io.Reader, schema *Schema, dest interface{}) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return apperrors.NewInvalidInputError("Could not read request body")
	}

	var document interface{}
	if err := json.Unmarshal(raw, &document); err != nil {
		return apperrors.NewInvalidInputError("Request body must be valid JSON")
	}

	fields, err := schema.Validate(document)
	if err != nil {
		return apperrors.NewInternalError("Schema validation failed", err)
	}
	if len(fields) > 0 {
		return apperrors.NewValidationFailedError(fields)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return apperrors.NewInvalidInputError("Request body does not match the expected shape")
	}
	return nil
}
