package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/expensio/receipts-pipeline/internal/common"
	"github.com/expensio/receipts-pipeline/internal/entity"
)

func newLocalContentStore(t *testing.T) (*ContentStore, *LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := NewLocalStore(dir, "http://files.test")
	if err != nil {
		t.Fatal(err)
	}
	return NewContentStore(local, nil), local, dir
}

func sampleUpload(name string, content []byte) entity.UploadedFile {
	return entity.UploadedFile{
		Content:     content,
		ContentType: "image/jpeg",
		Name:        name,
		Size:        int64(len(content)),
	}
}

var reHexSHA256 = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestStorePopulatesMetadata(t *testing.T) {
	store, _, dir := newLocalContentStore(t)
	tenantID := uuid.New()
	slotID := uuid.New()

	md, err := store.Store(context.Background(), tenantID, sampleUpload("receipt.jpg", []byte("jpeg bytes")), slotID)
	if err != nil {
		t.Fatal(err)
	}

	if md.FileID != slotID {
		t.Errorf("file id: got %s, want %s", md.FileID, slotID)
	}
	if !reHexSHA256.MatchString(md.FileHash) {
		t.Errorf("hash %q is not 64 hex chars", md.FileHash)
	}
	if md.FileSize != int64(len("jpeg bytes")) {
		t.Errorf("size: got %d", md.FileSize)
	}
	wantPrefix := tenantID.String() + "/" + slotID.String() + "/"
	if !strings.HasPrefix(md.ObjectPath, wantPrefix) {
		t.Errorf("object path %q missing tenant/slot prefix %q", md.ObjectPath, wantPrefix)
	}
	if !strings.HasSuffix(md.ObjectPath, ".jpg") {
		t.Errorf("object path %q missing extension", md.ObjectPath)
	}
	if md.FileURL != "http://files.test/"+md.ObjectPath {
		t.Errorf("url: got %q", md.FileURL)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(md.ObjectPath))); err != nil {
		t.Errorf("object not written: %v", err)
	}
}

func TestStoreHashIsContentAddressed(t *testing.T) {
	store, _, _ := newLocalContentStore(t)
	tenantID := uuid.New()

	a, err := store.Store(context.Background(), tenantID, sampleUpload("a.jpg", []byte("same content")), uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := store.Store(context.Background(), tenantID, sampleUpload("renamed.jpg", []byte("same content")), uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	c, err := store.Store(context.Background(), tenantID, sampleUpload("a.jpg", []byte("same contenT")), uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}

	if a.FileHash != b.FileHash {
		t.Errorf("identical bytes under different names must hash equal: %s vs %s", a.FileHash, b.FileHash)
	}
	if a.FileHash == c.FileHash {
		t.Error("single-byte difference must change the hash")
	}
}

func TestLocalPutUpserts(t *testing.T) {
	_, local, dir := newLocalContentStore(t)
	ctx := context.Background()

	if _, err := local.Put(ctx, "tenant/slot/object.jpg", []byte("first"), "image/jpeg"); err != nil {
		t.Fatal(err)
	}
	if _, err := local.Put(ctx, "tenant/slot/object.jpg", []byte("second write"), "image/jpeg"); err != nil {
		t.Fatalf("overwriting an existing object must succeed: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "tenant", "slot", "object.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second write" {
		t.Errorf("object content: got %q", got)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "tenant", "slot"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("upsert must not duplicate objects, found %d", len(entries))
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, _, _ := newLocalContentStore(t)
	ctx := context.Background()

	md, err := store.Store(ctx, uuid.New(), sampleUpload("receipt.jpg", []byte("x")), uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(ctx, md.ObjectPath); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, md.ObjectPath); err != nil {
		t.Fatalf("delete of an already-deleted object must succeed: %v", err)
	}
}

type failingObjects struct{}

func (failingObjects) Put(context.Context, string, []byte, string) (string, error) {
	return "", errors.New("backend down")
}
func (failingObjects) Remove(context.Context, string) error {
	return errors.New("backend down")
}

func TestStoreClassifiesBackendFailures(t *testing.T) {
	store := NewContentStore(failingObjects{}, nil)
	ctx := context.Background()

	_, err := store.Store(ctx, uuid.New(), sampleUpload("r.jpg", []byte("x")), uuid.Nil)
	if !common.IsKind(err, common.KindStorage) {
		t.Errorf("store: expected storage error, got %v", err)
	}

	if err := store.Delete(ctx, "tenant/slot/gone.jpg"); !common.IsKind(err, common.KindStorage) {
		t.Errorf("delete: expected storage error, got %v", err)
	}
}
