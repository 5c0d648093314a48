package extract

import (
	"regexp"
	"strings"

	"github.com/expensio/receipts-pipeline/constants"
)

const (
	confidenceBase = 85
	confidenceMin  = 70
	confidenceMax  = 95
)

var reISODate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// vendor values the model emits when it could not actually read one
var placeholderVendors = map[string]struct{}{
	"":               {},
	"unknown":        {},
	"unknown vendor": {},
	"vendor":         {},
	"n/a":            {},
	"none":           {},
}

// ScoreConfidence is the deterministic extraction-quality heuristic:
// base 85, +5 for a real vendor, +5 for a positive total, +5 for a strict
// ISO date, +10 for PDF sources (higher fidelity than photographed paper),
// clamped to [70,95]. Advisory only; same inputs always yield the same score.
func ScoreConfidence(data ReceiptData, fileType string) int {
	score := confidenceBase

	if !isPlaceholderVendor(data.Vendor) {
		score += 5
	}
	if data.TotalAmount > 0 {
		score += 5
	}
	if reISODate.MatchString(data.Date) {
		score += 5
	}
	if constants.IsPDF(fileType) {
		score += 10
	}

	if score < confidenceMin {
		score = confidenceMin
	}
	if score > confidenceMax {
		score = confidenceMax
	}
	return score
}

func isPlaceholderVendor(vendor string) bool {
	_, ok := placeholderVendors[strings.ToLower(strings.TrimSpace(vendor))]
	return ok
}
