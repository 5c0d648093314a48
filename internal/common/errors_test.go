package common

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"validation", NewAppError(KindValidation, "bad upload", nil), codes.InvalidArgument},
		{"storage", NewAppError(KindStorage, "bucket down", nil), codes.Unavailable},
		{"provider", NewAppError(KindProvider, "extraction provider failed", nil), codes.Unavailable},
		{"malformed", NewAppError(KindMalformedExtraction, "unparsable output", nil), codes.Internal},
		{"rate limit", NewAppError(KindRateLimit, "limit exceeded", nil), codes.ResourceExhausted},
		{"not found", NewAppError(KindNotFound, "no such file", nil), codes.NotFound},
		{"internal", NewAppError(KindInternal, "boom", nil), codes.Internal},
		{"plain error", errors.New("boom"), codes.Internal},
		{"wrapped app error", WrapError(NewAppError(KindRateLimit, "limit exceeded", nil), "delete"), codes.ResourceExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := status.Code(StatusFromError(tt.err))
			if got != tt.want {
				t.Errorf("code: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStatusFromErrorNil(t *testing.T) {
	if err := StatusFromError(nil); err != nil {
		t.Errorf("nil must map to nil, got %v", err)
	}
}

func TestStatusFromErrorHidesCause(t *testing.T) {
	cause := errors.New("raw provider text with secrets")
	err := StatusFromError(NewAppError(KindProvider, "extraction provider failed", cause))
	if got := status.Convert(err).Message(); got != "extraction provider failed" {
		t.Errorf("message: got %q", got)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("wrapping nil must stay nil")
	}

	err := WrapError(NewAppError(KindStorage, "remove failed", nil), "delete")
	if !IsKind(err, KindStorage) {
		t.Errorf("kind must survive wrapping, got %v", KindOf(err))
	}
	if err.Error() != "delete: STORAGE: remove failed" {
		t.Errorf("message: got %q", err.Error())
	}
}
