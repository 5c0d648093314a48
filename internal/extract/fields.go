package extract

// ReceiptItem is one line item as returned by the model.
type ReceiptItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	TaxRate  float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ReceiptData is the normalized shape we want from the model.
// Extraction either yields all of it or fails; the pipeline never returns a
// partially populated record.
type ReceiptData struct {
	Vendor          string        `json:"vendor"`
	Date            string        `json:"date"` // YYYY-MM-DD
	Category        string        `json:"category"`
	Description     string        `json:"description"`
	IsDeductible    bool          `json:"isDeductible"`
	PaymentMethod   string        `json:"paymentMethod"`
	TaxAmount       float64       `json:"taxAmount"`
	QRCode          string        `json:"qrCode"`
	DocumentType    string        `json:"documentType"`
	Items           []ReceiptItem `json:"items"`
	TotalItems      int           `json:"totalItems"`
	SubtotalAmount  float64       `json:"subtotalAmount"`
	TotalAmount     float64       `json:"totalAmount"`
	TotalTax        float64       `json:"totalTax"`
	TotalDiscount   float64       `json:"totalDiscount"`
	IssuerVatNumber string        `json:"issuerVatNumber"`
	BuyerVatNumber  string        `json:"buyerVatNumber"`
	DocumentDate    string        `json:"documentDate"`
	DocumentID      string        `json:"documentId"`
}

// Note: totalAmount = subtotalAmount + totalTax - totalDiscount is expected
// to hold within rounding but is not reconciled here; that check belongs to
// downstream reviewers.
