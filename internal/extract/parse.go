package extract

import (
	"encoding/json"
	"strings"

	"github.com/expensio/receipts-pipeline/internal/common"
)

// ParseResponse recovers the structured record from raw model output.
// Models are not guaranteed to return pure JSON: the object may be wrapped
// in prose or markdown fences, so we take the substring between the first
// '{' and the last '}' (or the whole text when no braces exist), normalize
// near-miss fields, validate against the schema, and unmarshal. Any failure
// is a malformed-extraction error; we never guess at partial data.
func ParseResponse(raw string) (ReceiptData, error) {
	text := recoverJSON(raw)

	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return ReceiptData{}, common.NewAppError(common.KindMalformedExtraction, "model output is not valid JSON", err)
	}

	normalizeFields(m)

	cleaned, err := json.Marshal(m)
	if err != nil {
		return ReceiptData{}, common.NewAppError(common.KindMalformedExtraction, "re-encode normalized output", err)
	}

	if err := ValidateJSONAgainstSchema(BuildReceiptJSONSchema(), cleaned); err != nil {
		return ReceiptData{}, common.NewAppError(common.KindMalformedExtraction, "model output does not match the expected shape", err)
	}

	var data ReceiptData
	if err := json.Unmarshal(cleaned, &data); err != nil {
		return ReceiptData{}, common.NewAppError(common.KindMalformedExtraction, "unmarshal fields", err)
	}
	return data, nil
}

// recoverJSON strips markdown fences and trims surrounding prose down to the
// outermost brace pair. Returns the input unchanged when no braces exist so
// the caller still gets a parse error with the original text behind it.
func recoverJSON(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}
