package pipeline

import (
	"time"

	"github.com/expensio/receipts-pipeline/constants"
	"github.com/expensio/receipts-pipeline/internal/extract"
)

// fixtureConfidence is the canned score the fixture path reports. Fixed
// rather than computed so test assertions never drift with the heuristic.
const fixtureConfidence = 90

// fixtureResult is the deterministic result returned in Fixture mode.
func fixtureResult(now time.Time) ProcessingResult {
	return ProcessingResult{
		Data: extract.ReceiptData{
			Vendor:        "PADARIA PORTUGUESA",
			Date:          "2024-01-31",
			Category:      string(constants.Meals),
			Description:   "Bakery breakfast during client visit",
			IsDeductible:  true,
			PaymentMethod: string(constants.Cash),
			TaxAmount:     1.26,
			DocumentType:  string(constants.DocReceipt),
			Items: []extract.ReceiptItem{
				{Name: "Galão", Quantity: 2, TaxRate: 13, Total: 4.40},
				{Name: "Pastel de Nata", Quantity: 4, TaxRate: 13, Total: 5.20},
			},
			TotalItems:      2,
			SubtotalAmount:  9.60,
			TotalAmount:     10.86,
			TotalTax:        1.26,
			TotalDiscount:   0,
			IssuerVatNumber: "509445535",
			DocumentDate:    "2024-01-31",
			DocumentID:      "FS 0042/003117",
		},
		Confidence:  fixtureConfidence,
		ExtractedAt: now,
	}
}
