package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled JSON schema that can be reused across documents.
type Schema struct {
	schema *gojsonschema.Schema
}

// Compile parses a JSON schema document.
func Compile(schemaJSON string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is Compile for package-level schemas known at build time.
func MustCompile(schemaJSON string) *Schema {
	s, err := Compile(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// ValidateBytes validates a raw JSON document.
func (s *Schema) ValidateBytes(doc []byte) (*ValidationResult, error) {
	return s.validate(gojsonschema.NewBytesLoader(doc))
}

// ValidateValue validates an already-decoded Go value.
func (s *Schema) ValidateValue(doc interface{}) (*ValidationResult, error) {
	return s.validate(gojsonschema.NewGoLoader(doc))
}

func (s *Schema) validate(loader gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := s.schema.Validate(loader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// Err collapses an invalid result into a single error, or nil when valid.
func (r *ValidationResult) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
