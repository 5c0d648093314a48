package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/expensio/receipts-pipeline/internal/common"
	"github.com/expensio/receipts-pipeline/internal/entity"
)

// ContentStore hashes an upload, writes it to the object backend under a
// deterministic tenant/slot path, and returns a durable metadata record.
type ContentStore struct {
	objects ObjectStore
	logger  *slog.Logger
}

func NewContentStore(objects ObjectStore, logger *slog.Logger) *ContentStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentStore{objects: objects, logger: logger}
}

// Store uploads the file and returns its metadata. slotID identifies the
// logical slot the file occupies; pass uuid.Nil to mint a fresh one.
// The hash covers the entire payload: it is an integrity and dedup key,
// not a prefix checksum.
func (s *ContentStore) Store(ctx context.Context, tenantID uuid.UUID, file entity.UploadedFile, slotID uuid.UUID) (entity.FileMetadata, error) {
	start := time.Now()
	if slotID == uuid.Nil {
		slotID = uuid.New()
	}

	sum := sha256.Sum256(file.Content)
	hashHex := hex.EncodeToString(sum[:])

	now := time.Now().UTC()
	objectPath := BuildObjectPath(tenantID, slotID, file.Name, now)

	url, err := s.objects.Put(ctx, objectPath, file.Content, file.ContentType)
	if err != nil {
		s.logger.Error("store.put.failed",
			"tenant_id", tenantID, "slot_id", slotID, "path", objectPath, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.FileMetadata{}, common.NewAppError(common.KindStorage, "object upload failed", err)
	}

	size := file.Size
	if size == 0 {
		size = int64(len(file.Content))
	}

	md := entity.FileMetadata{
		FileID:     slotID,
		FileURL:    url,
		ObjectPath: objectPath,
		FileName:   file.Name,
		FileType:   file.ContentType,
		FileSize:   size,
		FileHash:   hashHex,
		UploadedAt: now,
	}

	s.logger.Info("store.put.ok",
		"tenant_id", tenantID, "slot_id", slotID, "path", objectPath,
		"size", size, "hash", hashHex,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return md, nil
}

// Delete removes the object previously recorded in the caller's metadata.
// An already-absent object is a success; other backend failures surface as
// storage errors rather than being swallowed.
func (s *ContentStore) Delete(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return common.NewAppError(common.KindValidation, "object path is required", nil)
	}
	if err := s.objects.Remove(ctx, objectPath); err != nil {
		s.logger.Error("store.delete.failed", "path", objectPath, "error", err)
		return common.NewAppError(common.KindStorage, "object removal failed", err)
	}
	s.logger.Info("store.delete.ok", "path", objectPath)
	return nil
}
