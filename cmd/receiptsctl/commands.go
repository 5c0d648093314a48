package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/expensio/receipts-pipeline/constants"
	"github.com/expensio/receipts-pipeline/internal/batch"
	"github.com/expensio/receipts-pipeline/internal/common"
	"github.com/expensio/receipts-pipeline/internal/entity"
	"github.com/expensio/receipts-pipeline/internal/export"
	"github.com/expensio/receipts-pipeline/internal/extract"
	"github.com/expensio/receipts-pipeline/internal/extract/gemini"
	"github.com/expensio/receipts-pipeline/internal/extract/openai"
	"github.com/expensio/receipts-pipeline/internal/pipeline"
	"github.com/expensio/receipts-pipeline/internal/qrscan"
	"github.com/expensio/receipts-pipeline/internal/ratelimit"
	"github.com/expensio/receipts-pipeline/internal/services/files"
	"github.com/expensio/receipts-pipeline/internal/storage"
)

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "receiptsctl",
		Short:         "Receipt/invoice extraction pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExtractCmd(logger))
	root.AddCommand(newBatchCmd(logger))
	root.AddCommand(newDeleteCmd(logger))
	return root
}

func newExtractCmd(logger *slog.Logger) *cobra.Command {
	var (
		tenant   string
		fixture  bool
		fallback bool
	)
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Process a single receipt or invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := parseTenant(tenant)
			if err != nil {
				return err
			}

			cfg := common.LoadConfig()
			mode := pipeline.Live
			if fixture {
				mode = pipeline.Fixture
			} else if err := cfg.Validate(); err != nil {
				return err
			}

			orch, err := buildOrchestrator(cmd.Context(), cfg, mode, logger)
			if err != nil {
				return err
			}

			file, err := readUpload(args[0])
			if err != nil {
				return err
			}

			outcome, err := orch.Process(cmd.Context(), pipeline.ProcessRequest{
				TenantID:      tenantID,
				File:          file,
				ForceFallback: fallback,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, outcome)
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant UUID (defaults to a fresh one)")
	cmd.Flags().BoolVar(&fixture, "fixture", false, "return the deterministic fixture result")
	cmd.Flags().BoolVar(&fallback, "fallback", false, "skip the provider and use the QR scanning path")
	return cmd
}

func newBatchCmd(logger *slog.Logger) *cobra.Command {
	var (
		tenant  string
		out     string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Process every receipt under a directory and export an XLSX summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := parseTenant(tenant)
			if err != nil {
				return err
			}

			cfg := common.LoadConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if workers <= 0 {
				workers = cfg.Batch.Workers
			}
			if out == "" {
				out = filepath.Join(filepath.Dir(args[0]), "receipts.xlsx")
			}

			orch, err := buildOrchestrator(cmd.Context(), cfg, pipeline.Live, logger)
			if err != nil {
				return err
			}

			proc := batch.NewProcessor(orch, workers, logger)
			results, stats, err := proc.ProcessDirectory(cmd.Context(), tenantID, args[0])
			if err != nil {
				return err
			}

			workbook, err := export.NewService(logger).BuildResultsXLSX(results)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, workbook, 0o644); err != nil {
				return common.WrapError(err, "write "+out)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "processed %d/%d files (%d failed), summary at %s\n",
				stats.Succeeded, stats.Matched, stats.Failed, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant UUID (defaults to a fresh one)")
	cmd.Flags().StringVar(&out, "out", "", "output XLSX path (defaults next to the directory)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent pipeline workers")
	return cmd
}

func newDeleteCmd(logger *slog.Logger) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "delete <object-path>",
		Short: "Delete a stored object (rate limited per caller token)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := common.LoadConfig()

			objects, err := buildObjectStore(cfg)
			if err != nil {
				return err
			}
			store := storage.NewContentStore(objects, logger)
			limiter := ratelimit.NewLimiter(cfg.RateLimit.Window)
			svc := files.NewService(store, limiter, cfg.RateLimit.DeleteLimit, logger)

			decision, err := svc.DeleteFile(cmd.Context(), files.DeleteRequest{
				CallerToken: token,
				ObjectPath:  args[0],
			})
			if common.IsKind(err, common.KindRateLimit) {
				return fmt.Errorf("%w (retry after %ds)", err, decision.RetryAfterSeconds(time.Now()))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&token, "token", "cli", "caller token used for rate limiting")
	return cmd
}

func buildOrchestrator(ctx context.Context, cfg *common.Config, mode pipeline.Mode, logger *slog.Logger) (*pipeline.Orchestrator, error) {
	objects, err := buildObjectStore(cfg)
	if err != nil {
		return nil, err
	}
	store := storage.NewContentStore(objects, logger)

	var provider extract.Provider
	if mode == pipeline.Live {
		provider, err = buildProvider(ctx, cfg.Provider, logger)
		if err != nil {
			return nil, err
		}
	}

	opts := []pipeline.Option{pipeline.WithProviderTimeout(cfg.Provider.Timeout)}
	if cfg.QRScan.Endpoint != "" {
		opts = append(opts, pipeline.WithFallback(qrscan.NewClient(qrscan.Config{
			Endpoint: cfg.QRScan.Endpoint,
			Username: cfg.QRScan.Username,
			Password: cfg.QRScan.Password,
			Timeout:  cfg.QRScan.Timeout,
		}, logger)))
	}

	return pipeline.NewOrchestrator(mode, provider, store, logger, opts...), nil
}

func buildProvider(ctx context.Context, cfg common.ProviderConfig, logger *slog.Logger) (extract.Provider, error) {
	switch cfg.Name {
	case "openai":
		return openai.NewClient(openai.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}, logger), nil
	case "gemini":
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown extraction provider %q", cfg.Name)
	}
}

func buildObjectStore(cfg *common.Config) (storage.ObjectStore, error) {
	if cfg.Storage.Backend == "s3" {
		return storage.NewS3Store(storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		})
	}
	return storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicURL)
}

func parseTenant(tenant string) (uuid.UUID, error) {
	if tenant == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(tenant)
	if err != nil {
		return uuid.Nil, fmt.Errorf("tenant must be a UUID: %w", err)
	}
	return id, nil
}

func readUpload(path string) (entity.UploadedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return entity.UploadedFile{}, err
	}
	return entity.UploadedFile{
		Content:     content,
		ContentType: constants.MIMETypeForExt(filepath.Ext(path)),
		Name:        filepath.Base(path),
		Size:        int64(len(content)),
	}, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
