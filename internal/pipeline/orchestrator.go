package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/expensio/receipts-pipeline/constants"
	"github.com/expensio/receipts-pipeline/internal/common"
	"github.com/expensio/receipts-pipeline/internal/entity"
	"github.com/expensio/receipts-pipeline/internal/extract"
	"github.com/expensio/receipts-pipeline/internal/qrscan"
	"github.com/expensio/receipts-pipeline/internal/validate"
)

// Mode selects live extraction or the deterministic fixture path. Injected
// at construction so tests never have to reach into the process environment.
type Mode int

const (
	Live Mode = iota
	Fixture
)

// ProcessingResult is one successful extraction attempt. Never partially
// populated.
type ProcessingResult struct {
	Data        extract.ReceiptData `json:"data"`
	Confidence  int                 `json:"confidence"`
	ExtractedAt time.Time           `json:"extractedAt"`
}

// Outcome is what one pipeline run produced. Status is always exactly one
// terminal state on return; Metadata is attached whenever storage succeeded,
// independent of extraction.
type Outcome struct {
	Status   constants.FileStatus
	Metadata *entity.FileMetadata
	Result   *ProcessingResult
}

// Storer is the slice of the content store the orchestrator needs.
type Storer interface {
	Store(ctx context.Context, tenantID uuid.UUID, file entity.UploadedFile, slotID uuid.UUID) (entity.FileMetadata, error)
}

// FallbackScanner is the QR decoding service used when the provider fails.
type FallbackScanner interface {
	Scan(ctx context.Context, file entity.UploadedFile) ([]qrscan.Decoded, error)
}

// Orchestrator runs intake validation, content storage and provider
// extraction for one file per call. No state is shared between calls, so
// arbitrarily many files may be processed concurrently.
type Orchestrator struct {
	mode            Mode
	provider        extract.Provider
	store           Storer
	fallback        FallbackScanner // nil when no fallback is configured
	providerTimeout time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

type Option func(*Orchestrator)

// WithFallback configures the QR scanning fallback path.
func WithFallback(scanner FallbackScanner) Option {
	return func(o *Orchestrator) { o.fallback = scanner }
}

// WithProviderTimeout bounds each provider call.
func WithProviderTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.providerTimeout = d
		}
	}
}

func NewOrchestrator(mode Mode, provider extract.Provider, store Storer, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		mode:            mode,
		provider:        provider,
		store:           store,
		providerTimeout: 45 * time.Second,
		logger:          logger,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProcessRequest carries per-call knobs for Process.
type ProcessRequest struct {
	TenantID uuid.UUID
	File     entity.UploadedFile
	SlotID   uuid.UUID // uuid.Nil mints a fresh slot
	// ForceFallback skips the provider and goes straight to QR scanning.
	ForceFallback bool
}

// Process validates the upload, then runs storage and extraction
// concurrently; storing the file does not depend on extraction succeeding,
// and vice versa. A provider failure (including timeout) falls back to QR
// scanning when a scanner is configured. The provider is called at most
// once per request; retry policy belongs to the caller.
func (o *Orchestrator) Process(ctx context.Context, req ProcessRequest) (Outcome, error) {
	rid := uuid.New().String()
	start := o.now()

	o.logger.Info("pipeline.process.start",
		"req_id", rid,
		"tenant_id", req.TenantID,
		"file_name", req.File.Name,
		"file_size", len(req.File.Content),
		"mode", o.mode,
	)

	// reject before any hashing, upload, or API cost
	if err := validate.File(req.File); err != nil {
		o.logger.Warn("pipeline.validate.rejected", "req_id", rid, "error", err)
		return Outcome{Status: constants.StatusRejected},
			common.NewAppError(common.KindValidation, "upload rejected", err)
	}

	o.logger.Info("pipeline.process.status", "req_id", rid, "status", constants.StatusProcessing)

	if o.mode == Fixture {
		result := fixtureResult(o.now())
		o.logger.Info("pipeline.process.fixture", "req_id", rid)
		return Outcome{Status: constants.StatusProcessed, Result: &result}, nil
	}

	type storeOutcome struct {
		md  entity.FileMetadata
		err error
	}
	storeCh := make(chan storeOutcome, 1)
	go func() {
		md, err := o.store.Store(ctx, req.TenantID, req.File, req.SlotID)
		storeCh <- storeOutcome{md: md, err: err}
	}()

	result, extractErr := o.extractWithFallback(ctx, rid, req)
	stored := <-storeCh

	outcome := Outcome{Status: constants.StatusProcessed}
	if stored.err == nil {
		outcome.Metadata = &stored.md
	}
	if result != nil {
		outcome.Result = result
	}

	switch {
	case extractErr != nil:
		outcome.Status = constants.StatusError
		o.logger.Error("pipeline.process.failed",
			"req_id", rid, "error", extractErr,
			"stored", stored.err == nil,
			"elapsed_ms", o.now().Sub(start).Milliseconds(),
		)
		return outcome, extractErr
	case stored.err != nil:
		// extraction succeeded but the object never landed; surface the
		// storage error so the caller can retry, result attached
		outcome.Status = constants.StatusError
		o.logger.Error("pipeline.process.store_failed",
			"req_id", rid, "error", stored.err,
			"elapsed_ms", o.now().Sub(start).Milliseconds(),
		)
		return outcome, stored.err
	}

	o.logger.Info("pipeline.process.ok",
		"req_id", rid,
		"confidence", result.Confidence,
		"vendor", result.Data.Vendor,
		"elapsed_ms", o.now().Sub(start).Milliseconds(),
	)
	return outcome, nil
}

// Reprocess runs extraction only, against content that is already stored.
// The stored URL is handed to the provider so large payloads are not
// re-transmitted inline.
func (o *Orchestrator) Reprocess(ctx context.Context, file entity.UploadedFile, md entity.FileMetadata) (*ProcessingResult, error) {
	rid := uuid.New().String()
	if err := validate.File(file); err != nil {
		return nil, common.NewAppError(common.KindValidation, "upload rejected", err)
	}
	if o.mode == Fixture {
		result := fixtureResult(o.now())
		return &result, nil
	}
	return o.runExtraction(ctx, rid, file, md.FileURL, false)
}

func (o *Orchestrator) extractWithFallback(ctx context.Context, rid string, req ProcessRequest) (*ProcessingResult, error) {
	return o.runExtraction(ctx, rid, req.File, "", req.ForceFallback)
}

func (o *Orchestrator) runExtraction(ctx context.Context, rid string, file entity.UploadedFile, contentURL string, forceFallback bool) (*ProcessingResult, error) {
	if !forceFallback {
		tctx, cancel := context.WithTimeout(ctx, o.providerTimeout)
		raw, err := o.provider.Extract(tctx, file, contentURL)
		cancel()

		if err == nil {
			data, perr := extract.ParseResponse(raw)
			if perr != nil {
				// provider call itself succeeded; keep this distinct from
				// a provider failure and log the raw text for diagnosis
				o.logger.Error("pipeline.parse.failed", "req_id", rid, "error", perr, "raw", raw)
				return nil, perr
			}
			result := o.buildResult(data, file.ContentType)
			return &result, nil
		}

		if !isProviderFailure(err) {
			return nil, err
		}
		o.logger.Warn("pipeline.provider.failed", "req_id", rid, "error", err, "fallback", o.fallback != nil)
		if o.fallback == nil {
			return nil, common.NewAppError(common.KindProvider, "extraction provider failed", err)
		}
	}

	if o.fallback == nil {
		return nil, common.NewAppError(common.KindProvider, "fallback requested but no scanner configured", nil)
	}
	return o.runFallback(ctx, rid, file)
}

func (o *Orchestrator) runFallback(ctx context.Context, rid string, file entity.UploadedFile) (*ProcessingResult, error) {
	codes, err := o.fallback.Scan(ctx, file)
	if err != nil {
		return nil, err
	}
	for _, code := range codes {
		data, perr := qrscan.ParseFiscalPayload(code.Data)
		if perr != nil {
			continue
		}
		o.logger.Info("pipeline.fallback.ok", "req_id", rid, "codes", len(codes))
		result := o.buildResult(data, file.ContentType)
		return &result, nil
	}
	return nil, common.NewAppError(common.KindProvider, "no decodable fiscal QR code on document", nil)
}

func (o *Orchestrator) buildResult(data extract.ReceiptData, fileType string) ProcessingResult {
	return ProcessingResult{
		Data:        data,
		Confidence:  extract.ScoreConfidence(data, fileType),
		ExtractedAt: o.now(),
	}
}

// isProviderFailure treats adapter errors and timeouts as provider failures
// eligible for the fallback path. A canceled caller context is not: the
// caller walked away, and scanning on a dead context would fail anyway.
func isProviderFailure(err error) bool {
	var pe *extract.ProviderError
	if errors.As(err, &pe) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
