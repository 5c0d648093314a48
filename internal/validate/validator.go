package validate

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/expensio/receipts-pipeline/constants"
	"github.com/expensio/receipts-pipeline/internal/entity"
)

// Reason identifies which intake check rejected an upload.
type Reason string

const (
	UnsupportedType  Reason = "UNSUPPORTED_TYPE"
	TooLarge         Reason = "TOO_LARGE"
	InvalidName      Reason = "INVALID_NAME"
	InvalidExtension Reason = "INVALID_EXTENSION"
)

// Error is a rejected upload. Never retryable; always client-facing.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func reject(reason Reason, format string, args ...any) *Error {
	return &Error{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// File rejects malformed uploads before any hashing, upload, or API call.
// Checks run in a fixed order and short-circuit on the first failure.
// Pure function over the upload; no side effects.
func File(file entity.UploadedFile) error {
	// 1. declared content type
	if !constants.IsAllowedMIMEType(file.ContentType) {
		return reject(UnsupportedType, "content type %q is not supported (jpeg, png, pdf only)", file.ContentType)
	}
	// cross-check magic bytes against the declared type; a renamed .exe
	// should not reach the store or a paid API
	if len(file.Content) > 0 {
		sniffed := mimetype.Detect(file.Content)
		if !sniffedMatches(sniffed, file.ContentType) {
			return reject(UnsupportedType, "content sniffed as %q does not match declared %q", sniffed.String(), file.ContentType)
		}
	}

	// 2. size
	size := file.Size
	if size == 0 {
		size = int64(len(file.Content))
	}
	if size > constants.MaxFileSize {
		return reject(TooLarge, "file size %d exceeds limit of %d bytes", size, constants.MaxFileSize)
	}

	// 3. name
	name := strings.TrimSpace(file.Name)
	if name == "" {
		return reject(InvalidName, "file name is required")
	}
	if utf8.RuneCountInString(name) > constants.MaxFileNameLength {
		return reject(InvalidName, "file name exceeds %d characters", constants.MaxFileNameLength)
	}

	// 4. extension
	ext := constants.NormalizeExt(filepath.Ext(name))
	if ext == "" {
		return reject(InvalidExtension, "file name %q has no extension", name)
	}
	if !constants.IsAllowedExt(ext) {
		return reject(InvalidExtension, "extension %q is not allowed (pdf, jpg, jpeg, png only)", ext)
	}

	return nil
}

// sniffedMatches accepts the detected type when it resolves to the same
// allowed family as the declared one. jpg/jpeg are one family.
func sniffedMatches(detected *mimetype.MIME, declared string) bool {
	declared = strings.ToLower(strings.TrimSpace(declared))
	for mt := detected; mt != nil; mt = mt.Parent() {
		if strings.EqualFold(mt.String(), declared) {
			return true
		}
	}
	return false
}
