package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas holds one compiled validator per schema name.
var compiledSchemas = struct {
	sync.Mutex
	byName map[string]*jsonschema.Schema
}{byName: make(map[string]*jsonschema.Schema)}

// validateResponse checks raw against schema. A nil schema accepts
// anything. Failures are ErrInvalidResponse.
func validateResponse(provider string, schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return invalidResponse(provider, raw, "not JSON: %w", err)
	}

	v, err := compiledSchema(schema)
	if err != nil {
		return invalidResponse(provider, raw, "schema %q: %w", schema.Name, err)
	}
	if err := v.Validate(doc); err != nil {
		return invalidResponse(provider, raw, "does not match %q: %w", schema.Name, err)
	}
	return nil
}

func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	compiledSchemas.Lock()
	defer compiledSchemas.Unlock()

	if v, ok := compiledSchemas.byName[schema.Name]; ok {
		return v, nil
	}

	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}

	url := "mem://learnex/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	v, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	compiledSchemas.byName[schema.Name] = v
	return v, nil
}
