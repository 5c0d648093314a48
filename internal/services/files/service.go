package files

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/expensio/receipts-pipeline/internal/common"
	"github.com/expensio/receipts-pipeline/internal/ratelimit"
)

// Deleter is the slice of the content store this service needs.
type Deleter interface {
	Delete(ctx context.Context, objectPath string) error
}

// Service guards destructive file operations behind the per-caller rate
// limit.
type Service struct {
	store   Deleter
	limiter *ratelimit.Limiter
	limit   int
	logger  *slog.Logger
}

func NewService(store Deleter, limiter *ratelimit.Limiter, limit int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = 5
	}
	return &Service{
		store:   store,
		limiter: limiter,
		limit:   limit,
		logger:  logger,
	}
}

// DeleteRequest identifies the object to remove and the caller to throttle.
// ObjectPath comes from the caller's previously stored metadata.
type DeleteRequest struct {
	CallerToken string
	ObjectPath  string
}

// DeleteFile removes the stored object. The rate-limit decision is returned
// alongside the error so RPC layers can set a retry-after header on denial.
// Deleting an already-absent object succeeds.
func (s *Service) DeleteFile(ctx context.Context, req DeleteRequest) (ratelimit.Decision, error) {
	token := strings.TrimSpace(req.CallerToken)
	if token == "" {
		return ratelimit.Decision{}, common.NewAppError(common.KindValidation, "caller token is required", nil)
	}

	decision := s.limiter.Check(s.limit, token)
	if !decision.Allowed {
		s.logger.Warn("files.delete.throttled", "token", token, "reset_at", decision.ResetAt)
		return decision, common.NewAppError(common.KindRateLimit,
			fmt.Sprintf("delete limit of %d per window exceeded", s.limit), nil)
	}

	if err := s.store.Delete(ctx, req.ObjectPath); err != nil {
		s.logger.Error("files.delete.failed", "path", req.ObjectPath, "error", err)
		return decision, err
	}

	s.logger.Info("files.delete.ok", "path", req.ObjectPath, "remaining", decision.Remaining)
	return decision, nil
}
