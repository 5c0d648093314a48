package constants

// FileStatus is the canonical processing status for an uploaded file.
type FileStatus string

// Stable values (store these exact strings downstream).
const (
	StatusUploaded   FileStatus = "UPLOADED"   // intake accepted, nothing started
	StatusProcessing FileStatus = "PROCESSING" // extraction in flight
	StatusProcessed  FileStatus = "PROCESSED"  // terminal success
	StatusRejected   FileStatus = "REJECTED"   // intake validation rejected the upload
	StatusError      FileStatus = "ERROR"      // terminal failure (provider, parse, storage)
)

// Terminal reports whether s is one of the three terminal states.
func (s FileStatus) Terminal() bool {
	return s == StatusProcessed || s == StatusRejected || s == StatusError
}
