package constants

import "strings"

// MaxFileSize is the upload ceiling in bytes (10 MiB).
const MaxFileSize = 10 << 20

// MaxFileNameLength is the longest accepted original file name.
const MaxFileNameLength = 255

// AllowedMIMETypes holds the accepted upload content types.
var AllowedMIMETypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
}

// AllowedExtensions holds the accepted file extensions, lowercased, sans dot.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedMIMEType reports whether ct is an accepted upload content type.
func IsAllowedMIMEType(ct string) bool {
	_, ok := AllowedMIMETypes[strings.ToLower(strings.TrimSpace(ct))]
	return ok
}

// IsAllowedExt reports whether ext (with or without dot, any case) is accepted.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MIMETypeForExt maps an allowed extension to its content type.
// Returns "" for extensions outside the allowed set.
func MIMETypeForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return ""
	}
}

// IsPDF reports whether the declared content type is a PDF.
func IsPDF(ct string) bool {
	return strings.EqualFold(strings.TrimSpace(ct), "application/pdf")
}
