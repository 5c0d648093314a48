package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/expensio/receipts-pipeline/constants"
)

// BuildReceiptJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. Used locally to validate recovered model output before it is
// unmarshaled into the typed record.
func BuildReceiptJSONSchema() map[string]any {
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":     map[string]any{"type": "string"},
			"quantity": map[string]any{"type": "number"},
			"tax":      map[string]any{"type": "number"},
			"total":    map[string]any{"type": "number"},
		},
		"required": []string{"name", "total"},
	}

	props := map[string]any{
		"vendor":          map[string]any{"type": "string"},
		"date":            map[string]any{"type": "string"},
		"category":        map[string]any{"type": "string", "enum": constants.Categories()},
		"description":     map[string]any{"type": "string"},
		"isDeductible":    map[string]any{"type": "boolean"},
		"paymentMethod":   map[string]any{"type": "string", "enum": constants.PaymentMethods()},
		"taxAmount":       map[string]any{"type": "number"},
		"qrCode":          map[string]any{"type": "string"},
		"documentType":    map[string]any{"type": "string", "enum": constants.DocumentTypes()},
		"items":           map[string]any{"type": "array", "items": item},
		"totalItems":      map[string]any{"type": "number"},
		"subtotalAmount":  map[string]any{"type": "number"},
		"totalAmount":     map[string]any{"type": "number"},
		"totalTax":        map[string]any{"type": "number"},
		"totalDiscount":   map[string]any{"type": "number"},
		"issuerVatNumber": map[string]any{"type": "string"},
		"buyerVatNumber":  map[string]any{"type": "string"},
		"documentDate":    map[string]any{"type": "string"},
		"documentId":      map[string]any{"type": "string"},
	}

	required := []string{"vendor", "date", "category", "totalAmount"}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
