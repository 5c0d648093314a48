package entity

import (
	"time"

	"github.com/google/uuid"
)

// UploadedFile is a receipt/invoice upload as handed to the pipeline.
// Transient; owned by the caller for the duration of one request.
type UploadedFile struct {
	Content     []byte
	ContentType string
	Name        string
	Size        int64
}

// FileMetadata is the durable record produced by the content store.
// Immutable once created; superseded when the same logical slot is replaced.
type FileMetadata struct {
	FileID     uuid.UUID `json:"file_id"`
	FileURL    string    `json:"file_url"`
	ObjectPath string    `json:"object_path"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	FileHash   string    `json:"file_hash"` // SHA-256 hex of the full byte content
	UploadedAt time.Time `json:"uploaded_at"`
}
