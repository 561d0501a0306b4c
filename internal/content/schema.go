package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// bankSchema constrains the exercise bank file. Difficulty is pinned to
// the 1-5 scale here so bad content is rejected at load time rather than
// surfacing as an out-of-range level during a session.
var bankSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":         map[string]any{"type": "string", "minLength": 1},
			"category":   map[string]any{"type": "string", "minLength": 1},
			"difficulty": map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
			"prompt":     map[string]any{"type": "string", "minLength": 1},
			"answer":     map[string]any{"type": "string", "minLength": 1},
			"hint":       map[string]any{"type": "string"},
			"reviewable": map[string]any{"type": "boolean"},
		},
		"required":             []any{"id", "category", "difficulty", "prompt", "answer"},
		"additionalProperties": false,
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiledBankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not
		// raw bytes. Marshal then unmarshal to get a clean representation.
		defBytes, err := json.Marshal(bankSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(defBytes, &parsed); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://exercise-bank.json"
		if err := c.AddResource(url, parsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// ParseBank validates raw bank JSON against the schema and unmarshals it.
func ParseBank(raw []byte) ([]Exercise, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compiledBankSchema()
	if err != nil {
		return nil, fmt.Errorf("compile bank schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var exercises []Exercise
	if err := json.Unmarshal(raw, &exercises); err != nil {
		return nil, fmt.Errorf("unmarshal bank: %w", err)
	}
	return exercises, nil
}
