package extract

import (
	"strings"

	"github.com/expensio/receipts-pipeline/constants"
)

// PromptVersion identifies the instruction prompt wired into every adapter.
// Bump it whenever the expected JSON shape changes.
const PromptVersion = "v1"

// BuildPrompt composes the fixed extraction instruction shared by all
// providers. It pins the exact top-level keys, the category and payment
// enums, and the tax-estimation rule for documents that omit tax.
func BuildPrompt() string {
	parts := []string{
		"You are an expense document parser. Analyze the attached receipt or invoice and return ONLY a JSON object, no prose, no markdown fences.",
		"The JSON object must have exactly these top-level keys:",
		`vendor (string), date (string, YYYY-MM-DD), category (string), description (string), isDeductible (boolean), paymentMethod (string), taxAmount (number), qrCode (string), documentType (string), items (array of {name, quantity, tax, total}), totalItems (number), subtotalAmount (number), totalAmount (number), totalTax (number), totalDiscount (number), issuerVatNumber (string), buyerVatNumber (string), documentDate (string), documentId (string).`,
		"category MUST be exactly one of: " + strings.Join(constants.Categories(), ", ") + ". If uncertain, choose 'Other'.",
		"paymentMethod MUST be exactly one of: " + strings.Join(constants.PaymentMethods(), ", ") + ".",
		"documentType MUST be exactly one of: " + strings.Join(constants.DocumentTypes(), ", ") + ".",
		"Use ISO-8601 dates (YYYY-MM-DD).",
		"For each item, 'tax' is the VAT/tax rate applied to that line as a percentage.",
		"If tax is not visible on the document, estimate taxAmount as approximately 9% of the total.",
		"If the document carries a QR code payload you can read, put the raw string in qrCode; otherwise use an empty string.",
		"Use 0 for numeric fields and \"\" for string fields that are not present. Never output null.",
	}
	return strings.Join(parts, " ")
}
