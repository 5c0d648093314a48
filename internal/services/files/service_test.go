package files

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/expensio/receipts-pipeline/internal/common"
	"github.com/expensio/receipts-pipeline/internal/ratelimit"
)

type mockDeleter struct {
	calls    int
	lastPath string
	err      error
}

func (m *mockDeleter) Delete(_ context.Context, objectPath string) error {
	m.calls++
	m.lastPath = objectPath
	return m.err
}

func TestDeleteFile(t *testing.T) {
	store := &mockDeleter{}
	svc := NewService(store, ratelimit.NewLimiter(time.Minute), 5, nil)

	decision, err := svc.DeleteFile(context.Background(), DeleteRequest{
		CallerToken: "tenant-a",
		ObjectPath:  "tenant-a/slot/1700000000-x.jpg",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !decision.Allowed {
		t.Error("first delete must be allowed")
	}
	if decision.Remaining != 4 {
		t.Errorf("remaining: got %d, want 4", decision.Remaining)
	}
	if store.lastPath != "tenant-a/slot/1700000000-x.jpg" {
		t.Errorf("path: got %q", store.lastPath)
	}
}

func TestDeleteFileRequiresToken(t *testing.T) {
	store := &mockDeleter{}
	svc := NewService(store, ratelimit.NewLimiter(time.Minute), 5, nil)

	_, err := svc.DeleteFile(context.Background(), DeleteRequest{
		CallerToken: "   ",
		ObjectPath:  "tenant-a/slot/file.jpg",
	})
	if !common.IsKind(err, common.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.calls != 0 {
		t.Error("store must not be reached without a caller token")
	}
}

func TestDeleteFileThrottlesSixthRequest(t *testing.T) {
	store := &mockDeleter{}
	svc := NewService(store, ratelimit.NewLimiter(time.Minute), 5, nil)

	for i := 0; i < 5; i++ {
		if _, err := svc.DeleteFile(context.Background(), DeleteRequest{
			CallerToken: "tenant-a",
			ObjectPath:  fmt.Sprintf("tenant-a/slot/%d.jpg", i),
		}); err != nil {
			t.Fatalf("delete %d: %v", i, err)
		}
	}

	decision, err := svc.DeleteFile(context.Background(), DeleteRequest{
		CallerToken: "tenant-a",
		ObjectPath:  "tenant-a/slot/5.jpg",
	})
	if !common.IsKind(err, common.KindRateLimit) {
		t.Fatalf("expected rate-limit error, got %v", err)
	}
	if decision.Allowed {
		t.Error("decision must deny")
	}
	if decision.ResetAt.IsZero() {
		t.Error("denied decision must carry a reset time")
	}
	if store.calls != 5 {
		t.Errorf("store calls: got %d, want 5", store.calls)
	}
}

func TestDeleteFileTokensThrottledIndependently(t *testing.T) {
	store := &mockDeleter{}
	svc := NewService(store, ratelimit.NewLimiter(time.Minute), 1, nil)

	if _, err := svc.DeleteFile(context.Background(), DeleteRequest{CallerToken: "a", ObjectPath: "a/f.jpg"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.DeleteFile(context.Background(), DeleteRequest{CallerToken: "a", ObjectPath: "a/g.jpg"}); !common.IsKind(err, common.KindRateLimit) {
		t.Fatalf("expected rate-limit error, got %v", err)
	}
	if _, err := svc.DeleteFile(context.Background(), DeleteRequest{CallerToken: "b", ObjectPath: "b/f.jpg"}); err != nil {
		t.Errorf("a throttled token must not affect others: %v", err)
	}
}

func TestDeleteFileStoreErrorSurfaced(t *testing.T) {
	store := &mockDeleter{err: common.NewAppError(common.KindStorage, "remove failed", nil)}
	svc := NewService(store, ratelimit.NewLimiter(time.Minute), 5, nil)

	decision, err := svc.DeleteFile(context.Background(), DeleteRequest{
		CallerToken: "tenant-a",
		ObjectPath:  "tenant-a/slot/file.jpg",
	})
	if !common.IsKind(err, common.KindStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	// the attempt still consumed a slot
	if !decision.Allowed {
		t.Error("decision should reflect the admitted attempt")
	}
}
