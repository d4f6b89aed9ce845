package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// DocumentValidator validates raw JSON documents against a fixed schema.
type DocumentValidator interface {
	Validate(data []byte) error
}

// JSONSchemaValidator implements DocumentValidator using a schema compiled once with gojsonschema.
type JSONSchemaValidator struct {
	schema *gojsonschema.Schema
}

// NewJSONSchemaValidator compiles the given JSON schema.
func NewJSONSchemaValidator(schema string) (*JSONSchemaValidator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON schema: %w", err)
	}
	return &JSONSchemaValidator{schema: compiled}, nil
}

// MustJSONSchemaValidator is like NewJSONSchemaValidator but panics on an invalid schema.
// It is meant for schemas embedded in the binary.
func MustJSONSchemaValidator(schema string) *JSONSchemaValidator {
	v, err := NewJSONSchemaValidator(schema)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate validates a JSON document against the compiled schema.
func (v *JSONSchemaValidator) Validate(data []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return errors.New(strings.Join(msgs, "; "))
}
