package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// buildLineItemsSchema returns a JSON-Schema (draft 2020-12 subset) for the
// array of line items we expect back from the model. Numeric fields also
// accept strings because vision models frequently quote amounts; the parser
// coerces them afterwards.
func buildLineItemsSchema() map[string]any {
	numeric := map[string]any{"type": []any{"number", "string", "null"}}

	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"vendor":         map[string]any{"type": []any{"string", "null"}},
			"invoice_number": map[string]any{"type": []any{"string", "null"}},
			"invoice_date":   map[string]any{"type": []any{"string", "null"}},
			"description":    map[string]any{"type": []any{"string", "null"}},
			"quantity":       numeric,
			"unit_price":     numeric,
			"total":          numeric,
		},
		"required": []any{"description"},
	}

	return map[string]any{
		"type":  "array",
		"items": item,
	}
}

// validateLineItemsJSON validates the raw response array against the line-item schema.
func validateLineItemsJSON(data []byte) error {
	b, err := json.Marshal(buildLineItemsSchema())
	if err != nil {
		return fmt.Errorf("marshaling schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("line_items.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := compiler.Compile("line_items.json")
	if err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("response does not match line item schema: %w", err)
	}
	return nil
}
