package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://reglet.dev/schemas/privrepo.schema.json"

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// Schema returns the JSON schema of the declaration file.
func Schema() ([]byte, error) {
	r := new(invopop.Reflector)
	r.ExpandedStruct = true

	s := r.Reflect(&File{})
	s.ID = schemaURL
	s.Title = "privrepo declaration file"

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generated schema: %w", err)
	}
	return b, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := Schema()
		if err != nil {
			schemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(string(raw))); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// Validate checks YAML data against the declaration schema.
func Validate(data []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}

	if err := checkVersionType(document); err != nil {
		return err
	}
	if err := sch.Validate(document); err != nil {
		return fmt.Errorf("invalid declaration file: %w", err)
	}
	return nil
}

// checkVersionType rejects an unquoted version: YAML reads 1.10 as the
// number 1.1, so only strings are accepted.
func checkVersionType(document any) error {
	m, ok := document.(map[string]any)
	if !ok {
		return nil
	}
	v, ok := m["version"]
	if !ok {
		return nil
	}
	switch v.(type) {
	case string:
		return nil
	case float64, int, int64, uint64:
		return fmt.Errorf("invalid declaration file: version must be a quoted string, e.g. version: %q", fmt.Sprint(v))
	default:
		return fmt.Errorf("invalid declaration file: version must be a quoted string")
	}
}
