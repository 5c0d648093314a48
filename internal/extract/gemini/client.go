package gemini

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/expensio/receipts-pipeline/constants"
	"github.com/expensio/receipts-pipeline/internal/entity"
	"github.com/expensio/receipts-pipeline/internal/extract"
)

// Client implements extract.Provider using the Gemini SDK. Gemini takes the
// payload inline, so the contentURL hint is ignored.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *slog.Logger
}

// Config for the Gemini client.
type Config struct {
	APIKey      string
	Model       string // e.g., "gemini-2.0-flash"
	Temperature float32
	MaxTokens   int
}

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &extract.ProviderError{Message: "gemini api key is required"}
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, &extract.ProviderError{Message: "creating gemini client", Cause: err}
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	if cfg.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.MaxTokens))
	}

	return &Client{client: client, model: model, log: logger}, nil
}

// Extract sends the file and the fixed prompt, returning the raw text.
func (c *Client) Extract(ctx context.Context, file entity.UploadedFile, _ string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("provider.gemini.start",
		"req_id", rid,
		"file_size", len(file.Content),
		"content_type", file.ContentType,
	)

	parts := []genai.Part{
		blobFor(file),
		genai.Text(extract.BuildPrompt()),
	}

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		c.log.Error("provider.gemini.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", &extract.ProviderError{Message: "gemini generate content", Cause: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		c.log.Error("provider.gemini.empty_response",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", &extract.ProviderError{Message: "no response from gemini"}
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}

	content := strings.TrimSpace(out.String())
	c.log.Info("provider.gemini.ok",
		"req_id", rid,
		"response_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// Close releases the underlying SDK client.
func (c *Client) Close() error {
	return c.client.Close()
}

func blobFor(file entity.UploadedFile) genai.Part {
	if constants.IsPDF(file.ContentType) {
		return genai.Blob{MIMEType: "application/pdf", Data: file.Content}
	}
	// genai.ImageData wants the format suffix, not the full MIME type
	format := strings.TrimPrefix(strings.ToLower(file.ContentType), "image/")
	return genai.ImageData(format, file.Content)
}
