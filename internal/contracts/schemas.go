package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas
var schemasFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// Register every schema as a resource first so $ref between them works.
	err := fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			data, readErr := schemasFS.ReadFile(path)
			if readErr != nil {
				return readErr
			}
			if addErr := compiler.AddResource(path, bytes.NewReader(data)); addErr != nil {
				return fmt.Errorf("failed to add schema resource %s: %w", path, addErr)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error registering schema resources: %v", err)
	}

	err = fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			schema, compileErr := compiler.Compile(path)
			if compileErr != nil {
				return fmt.Errorf("could not compile schema %s: %w", path, compileErr)
			}
			compiledSchemas[keyFromPath(path)] = schema
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error compiling schemas: %v", err)
	}
}

// keyFromPath turns "schemas/listing/v1.json" into "listing/v1".
func keyFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, "schemas/")
	return strings.TrimSuffix(trimmed, ".json")
}

// Validate checks a JSON payload against a registered schema key.
func Validate(key string, body []byte) error {
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema %q not found", key)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// ValidateListing checks one serialized canonical record before upload.
func ValidateListing(body []byte) error {
	return Validate("listing/v1", body)
}
