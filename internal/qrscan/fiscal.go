package qrscan

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/expensio/receipts-pipeline/constants"
	"github.com/expensio/receipts-pipeline/internal/common"
	"github.com/expensio/receipts-pipeline/internal/extract"
)

// ParseFiscalPayload decodes a Portuguese AT fiscal QR payload
// ("A:nif*B:nif*C:PT*D:FS*F:20240131*G:FS 01/12345*N:1.23*O:15.30*…")
// into the typed record. Pure; no network. Returns an error when the
// payload does not carry the minimum fiscal fields.
func ParseFiscalPayload(raw string) (extract.ReceiptData, error) {
	fields := map[string]string{}
	for _, pair := range strings.Split(strings.TrimSpace(raw), "*") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	if fields["A"] == "" || fields["O"] == "" {
		return extract.ReceiptData{}, common.NewAppError(common.KindMalformedExtraction, "payload is not a fiscal QR code", nil)
	}

	total := parseAmount(fields["O"])
	tax := parseAmount(fields["N"])

	data := extract.ReceiptData{
		Vendor:          fields["A"], // only the tax ID is encoded; name resolution is downstream
		Category:        string(constants.Other),
		Description:     "Imported from fiscal QR code",
		DocumentType:    fiscalDocumentType(fields["D"]),
		QRCode:          raw,
		IssuerVatNumber: fields["A"],
		BuyerVatNumber:  fields["B"],
		DocumentID:      fields["G"],
		TaxAmount:       tax,
		TotalTax:        tax,
		TotalAmount:     total,
		SubtotalAmount:  round2(total - tax),
	}

	if d := fiscalDate(fields["F"]); d != "" {
		data.Date = d
		data.DocumentDate = d
	}

	return data, nil
}

// fiscalDocumentType maps AT document type codes onto the enum.
func fiscalDocumentType(code string) string {
	switch strings.ToUpper(code) {
	case "FS", "FR", "TV":
		return string(constants.DocReceipt)
	case "FT", "FA", "ND", "NC":
		return string(constants.DocInvoice)
	default:
		return string(constants.DocOther)
	}
}

// fiscalDate converts the payload's YYYYMMDD into YYYY-MM-DD.
func fiscalDate(v string) string {
	t, err := time.Parse("20060102", v)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func parseAmount(v string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		return 0
	}
	return f
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
