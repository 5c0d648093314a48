package extract

import (
	"context"
	"fmt"

	"github.com/expensio/receipts-pipeline/internal/entity"
)

// Provider turns a receipt file plus the fixed prompt into raw model output.
// Implementations must return the text verbatim and never parse JSON
// themselves; recovery and parsing live in one shared place so they stay
// testable independently of which provider produced the text.
//
// contentURL, when non-empty, is a previously obtained public URL for the
// same bytes; implementations that support it should prefer it over
// re-transmitting the payload inline.
type Provider interface {
	Extract(ctx context.Context, file entity.UploadedFile, contentURL string) (string, error)
}

// ProviderError is an upstream AI-service failure. Adapters surface non-2xx
// and malformed responses as this type and never leak raw transport errors
// past their boundary.
type ProviderError struct {
	Status  int // HTTP status when one was received, else 0
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("provider error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
