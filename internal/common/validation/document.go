package validation

import (
	"embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"serverest-suite/internal/common/errors"
)

// Embedded JSON Schemas for ServeRest responses.
const (
	SchemaUser        = "user"
	SchemaUserList    = "user_list"
	SchemaProduct     = "product"
	SchemaProductList = "product_list"
	SchemaCart        = "cart"
	SchemaCartList    = "cart_list"
	SchemaLogin       = "login"
	SchemaWriteResult = "write_result"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema returns the embedded schema document by name.
func Schema(name string) (string, error) {
	b, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return "", fmt.Errorf("unknown schema %q: %w", name, err)
	}
	return string(b), nil
}

// ValidateDocument checks a raw JSON body against a JSON Schema document.
// A body that does not conform yields a SCHEMA_VIOLATION error listing every violation.
func ValidateDocument(schemaJSON string, body []byte) error {
	return validateDocument("inline", schemaJSON, body)
}

// ValidateNamed checks body against one of the embedded schemas.
func ValidateNamed(name string, body []byte) error {
	schemaJSON, err := Schema(name)
	if err != nil {
		return err
	}
	return validateDocument(name, schemaJSON, body)
}

func validateDocument(name, schemaJSON string, body []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewSchemaViolationError(name, []string{err.Error()})
	}

	if !result.Valid() {
		violations := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			violations[i] = desc.String()
		}
		return errors.NewSchemaViolationError(name, violations)
	}
	return nil
}
