package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies pipeline failures so callers can decide on retry/fallback
// without string-matching messages.
type Kind string

const (
	KindValidation          Kind = "VALIDATION"           // bad input, never retried
	KindStorage             Kind = "STORAGE"              // object-store failure, retryable by caller
	KindProvider            Kind = "PROVIDER"             // AI-service failure or timeout
	KindMalformedExtraction Kind = "MALFORMED_EXTRACTION" // model output was unparsable
	KindRateLimit           Kind = "RATE_LIMIT"           // caller exceeded quota
	KindNotFound            Kind = "NOT_FOUND"            // absent resource
	KindInternal            Kind = "INTERNAL"
)

// AppError represents application-specific errors.
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError builds an AppError with the given classification.
func NewAppError(kind Kind, message string, cause error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// KindOf extracts the classification from err, or KindInternal when
// the error carries none.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// WrapError adds context while keeping the wrapped classification reachable
// through errors.As.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// StatusFromError maps the error taxonomy onto gRPC status codes for the
// surrounding RPC surface. Raw provider text never reaches the message.
func StatusFromError(err error) error {
	if err == nil {
		return nil
	}
	var ae *AppError
	if !errors.As(err, &ae) {
		return status.Error(codes.Internal, err.Error())
	}
	switch ae.Kind {
	case KindValidation:
		return status.Error(codes.InvalidArgument, ae.Message)
	case KindStorage, KindProvider:
		return status.Error(codes.Unavailable, ae.Message)
	case KindMalformedExtraction:
		return status.Error(codes.Internal, ae.Message)
	case KindRateLimit:
		return status.Error(codes.ResourceExhausted, ae.Message)
	case KindNotFound:
		return status.Error(codes.NotFound, ae.Message)
	default:
		return status.Error(codes.Internal, ae.Message)
	}
}
