package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

// ValidateFile checks a config file against the embedded JSON schema.
// YAML and JSON files are decoded with yaml.v3, TOML files with go-toml.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrInvalid, path, err)
	}

	var doc map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrInvalid, path, err)
	}
	if doc == nil {
		// empty file
		return nil
	}

	return ValidateDocument(doc, path)
}

// ValidateDocument checks decoded config content against the embedded
// schema. source names the content in error messages.
func ValidateDocument(doc map[string]interface{}, source string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: schema validation error: %v", ErrInvalid, err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("%w: %s failed validation:\n%s", ErrInvalid, source, strings.Join(problems, "\n"))
	}
	return nil
}
