package batch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/expensio/receipts-pipeline/constants"
	"github.com/expensio/receipts-pipeline/internal/entity"
	"github.com/expensio/receipts-pipeline/internal/pipeline"
)

// FileProcessor is the slice of the orchestrator the batch runner needs.
type FileProcessor interface {
	Process(ctx context.Context, req pipeline.ProcessRequest) (pipeline.Outcome, error)
}

// Result is the per-file outcome of a directory run.
type Result struct {
	SourcePath string
	Outcome    pipeline.Outcome
	Err        string
}

// Stats aggregates a directory run.
type Stats struct {
	Scanned   int
	Matched   int
	Succeeded int
	Failed    int
}

// Processor pushes every eligible file under a directory through the
// pipeline with a bounded worker pool.
type Processor struct {
	proc    FileProcessor
	workers int
	logger  *slog.Logger
}

func NewProcessor(proc FileProcessor, workers int, logger *slog.Logger) *Processor {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{proc: proc, workers: workers, logger: logger}
}

// ProcessDirectory walks root, skips hidden entries, and processes each
// allowed file. Files are independent, so they run concurrently up to the
// worker bound; per-file failures are recorded, not fatal to the run.
func (p *Processor) ProcessDirectory(ctx context.Context, tenantID uuid.UUID, root string) ([]Result, Stats, error) {
	var paths []string
	var stats Stats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			return walkErr
		}
		if isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !constants.IsAllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	results := make([]Result, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, path := range paths {
		g.Go(func() error {
			res := p.processOne(gctx, tenantID, path)
			mu.Lock()
			results[i] = res
			if res.Err == "" {
				stats.Succeeded++
			} else {
				stats.Failed++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, stats, err
	}

	p.logger.Info("batch.directory.done",
		"root", root,
		"scanned", stats.Scanned, "matched", stats.Matched,
		"succeeded", stats.Succeeded, "failed", stats.Failed,
	)
	return results, stats, nil
}

func (p *Processor) processOne(ctx context.Context, tenantID uuid.UUID, path string) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{SourcePath: path, Err: err.Error()}
	}

	file := entity.UploadedFile{
		Content:     content,
		ContentType: constants.MIMETypeForExt(filepath.Ext(path)),
		Name:        filepath.Base(path),
		Size:        int64(len(content)),
	}

	outcome, err := p.proc.Process(ctx, pipeline.ProcessRequest{TenantID: tenantID, File: file})
	res := Result{SourcePath: path, Outcome: outcome}
	if err != nil {
		res.Err = err.Error()
	}
	return res
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return len(base) > 0 && base[0] == '.'
}
