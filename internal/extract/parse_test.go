package extract

import (
	"reflect"
	"testing"

	"github.com/expensio/receipts-pipeline/internal/common"
)

const validJSON = `{
	"vendor": "Acme Hardware",
	"date": "2024-03-15",
	"category": "Equipment",
	"description": "Cordless drill",
	"isDeductible": true,
	"paymentMethod": "Credit Card",
	"taxAmount": 11.5,
	"qrCode": "",
	"documentType": "Receipt",
	"items": [{"name": "Drill", "quantity": 1, "tax": 23, "total": 61.5}],
	"totalItems": 1,
	"subtotalAmount": 50.0,
	"totalAmount": 61.5,
	"totalTax": 11.5,
	"totalDiscount": 0,
	"issuerVatNumber": "123456789",
	"buyerVatNumber": "",
	"documentDate": "2024-03-15",
	"documentId": "R-1001"
}`

func TestParseResponseRecoversJSONFromProse(t *testing.T) {
	raw := "Here is the result:\n" + validJSON + "\nThanks!"

	data, err := ParseResponse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if data.Vendor != "Acme Hardware" {
		t.Errorf("vendor: got %q", data.Vendor)
	}
	if data.TotalAmount != 61.5 {
		t.Errorf("total: got %v", data.TotalAmount)
	}
	if len(data.Items) != 1 || data.Items[0].TaxRate != 23 {
		t.Errorf("items: got %+v", data.Items)
	}
}

func TestParseResponseStripsMarkdownFences(t *testing.T) {
	raw := "```json\n" + validJSON + "\n```"

	data, err := ParseResponse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if data.DocumentID != "R-1001" {
		t.Errorf("document id: got %q", data.DocumentID)
	}
}

func TestParseResponseMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unbalanced braces", `{"vendor": "Acme", "date": "2024-03-15"`},
		{"no json at all", "I could not read the document, sorry."},
		{"empty", ""},
		{"missing required fields", `{"description": "just a note"}`},
		{"wrong type for total", `{"vendor": "Acme", "date": "2024-03-15", "category": "Other", "totalAmount": true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.raw)
			if !common.IsKind(err, common.KindMalformedExtraction) {
				t.Errorf("expected malformed-extraction error, got %v", err)
			}
		})
	}
}

func TestParseResponseNormalizesNearMisses(t *testing.T) {
	raw := `{
		"vendor": "Galp",
		"date": "2024-06-01",
		"category": "fuel",
		"paymentMethod": "visa",
		"documentType": "FS",
		"taxAmount": "3,91",
		"totalAmount": "20.91",
		"subtotalAmount": null
	}`

	data, err := ParseResponse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if data.Category != "Gas" {
		t.Errorf("category: got %q, want Gas", data.Category)
	}
	if data.PaymentMethod != "Credit Card" {
		t.Errorf("payment method: got %q", data.PaymentMethod)
	}
	if data.DocumentType != "Receipt" {
		t.Errorf("document type: got %q", data.DocumentType)
	}
	if data.TaxAmount != 3.91 {
		t.Errorf("tax amount: got %v", data.TaxAmount)
	}
	if data.TotalAmount != 20.91 {
		t.Errorf("total amount: got %v", data.TotalAmount)
	}
}

func TestParseResponseNeverReturnsPartialData(t *testing.T) {
	data, err := ParseResponse(`{"vendor": "Acme", "totalAmount": 10`)
	if err == nil {
		t.Fatal("expected error")
	}
	if !reflect.DeepEqual(data, ReceiptData{}) {
		t.Errorf("malformed output must not yield partial data: %+v", data)
	}
}
