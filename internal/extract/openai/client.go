package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/expensio/receipts-pipeline/internal/entity"
	"github.com/expensio/receipts-pipeline/internal/extract"
)

// Extract implements extract.Provider using vision chat/completions.
// The raw textual response is returned verbatim; parsing belongs to the
// orchestrator.
func (c *Client) Extract(ctx context.Context, file entity.UploadedFile, contentURL string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("provider.openai.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"file_size", len(file.Content),
		"has_url", contentURL != "",
	)

	// Prefer the stored URL when available to avoid re-transmitting the payload.
	imageURL := contentURL
	if imageURL == "" || strings.HasPrefix(imageURL, "file://") {
		imageURL = dataURL(file)
	}

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": extract.BuildPrompt()},
					{"type": "image_url", "image_url": map[string]any{"url": imageURL}},
				},
			},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("provider.openai.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("provider.openai.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", &extract.ProviderError{Message: "decode openai response", Cause: err}
	}
	if len(cc.Choices) == 0 {
		c.log.Error("provider.openai.no_choices",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", &extract.ProviderError{Message: "no choices in openai response"}
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.log.Info("provider.openai.ok",
		"req_id", rid,
		"response_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, &extract.ProviderError{Message: "marshal request", Cause: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, &extract.ProviderError{Message: "build request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &extract.ProviderError{Message: "openai request failed", Cause: err}
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, &extract.ProviderError{Status: resp.StatusCode, Message: "read response body", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &extract.ProviderError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("openai status %d: %s", resp.StatusCode, truncate(buf.String(), 300)),
		}
	}
	return buf.Bytes(), nil
}

func dataURL(file entity.UploadedFile) string {
	return "data:" + file.ContentType + ";base64," + base64.StdEncoding.EncodeToString(file.Content)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
