package source

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateSchema validates v against the JSON schema at schemaPath.
func (l *Loader) ValidateSchema(v any, schemaPath string) error {
	path, err := l.resolve(schemaPath)
	if err != nil {
		return err
	}

	schemaData, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	document, err := jsonBytes(v)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(problems, "; "))
}
