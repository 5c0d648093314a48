package extract

import (
	"strconv"
	"strings"

	"github.com/expensio/receipts-pipeline/constants"
)

var numericKeys = []string{
	"taxAmount", "totalItems", "subtotalAmount", "totalAmount",
	"totalTax", "totalDiscount",
}

// normalizeFields nudges near-miss model output onto the schema without
// guessing at missing data:
//   - numeric strings become numbers for the money/count fields
//   - nulls on optional fields are dropped
//   - category, paymentMethod and documentType are canonicalized onto the enum
//
// Required fields that are absent stay absent; schema validation catches them.
func normalizeFields(m map[string]any) {
	for _, k := range numericKeys {
		coerceNumber(m, k)
	}

	for k, v := range m {
		if v == nil {
			delete(m, k)
		}
	}

	if v, ok := m["category"].(string); ok {
		if cat, matched := constants.CanonicalizeCategory(v); matched {
			m["category"] = string(cat)
		} else {
			m["category"] = string(constants.Other)
		}
	}
	if v, ok := m["paymentMethod"].(string); ok {
		if pm, matched := constants.CanonicalizePaymentMethod(v); matched {
			m["paymentMethod"] = string(pm)
		} else {
			delete(m, "paymentMethod")
		}
	}
	if v, ok := m["documentType"].(string); ok {
		m["documentType"] = canonicalDocumentType(v)
	}

	if items, ok := m["items"].([]any); ok {
		for _, it := range items {
			if im, ok := it.(map[string]any); ok {
				coerceNumber(im, "quantity")
				coerceNumber(im, "tax")
				coerceNumber(im, "total")
			}
		}
	}
}

func coerceNumber(m map[string]any, key string) {
	v, ok := m[key]
	if !ok {
		return
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		s = strings.TrimPrefix(s, "€")
		s = strings.TrimPrefix(s, "$")
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			m[key] = f
		} else {
			delete(m, key)
		}
	case nil:
		delete(m, key)
	}
}

func canonicalDocumentType(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "receipt", "fs", "fr":
		return string(constants.DocReceipt)
	case "invoice", "ft", "fatura":
		return string(constants.DocInvoice)
	default:
		return string(constants.DocOther)
	}
}
