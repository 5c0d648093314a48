package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/expensio/receipts-pipeline/constants"
)

// BuildObjectPath derives the storage path for an upload:
// {tenantId}/{slotId}/{epochMillis}-{randomSegment}.{ext}
// The random segment keeps concurrent writers for the same slot from
// colliding while the prefix keeps objects attributable to tenant and slot.
// Callers must treat the returned URL, not this convention, as the contract.
func BuildObjectPath(tenantID, slotID uuid.UUID, fileName string, now time.Time) string {
	ext := constants.NormalizeExt(extOf(fileName))
	seg := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s/%s/%d-%s.%s", tenantID, slotID, now.UnixMilli(), seg, ext)
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return ""
}
