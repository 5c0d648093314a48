package qrscan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/expensio/receipts-pipeline/internal/common"
	"github.com/expensio/receipts-pipeline/internal/entity"
)

// Decoded is one QR payload found on a document. A receipt may carry
// multiple codes, or none.
type Decoded struct {
	Data      string `json:"data"`
	ImagePath string `json:"imagePath"`
}

// Client talks to the external fiscal/QR decoding service.
type Client struct {
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
	log        *slog.Logger
}

// Config for the QR scanning service.
type Config struct {
	Endpoint string
	Username string
	Password string
	Timeout  time.Duration
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

// Scan uploads the file and returns the decoded payloads. Zero results is
// a valid outcome, not an error.
func (c *Client) Scan(ctx context.Context, file entity.UploadedFile) ([]Decoded, error) {
	start := time.Now()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, common.NewAppError(common.KindProvider, "build multipart request", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, common.NewAppError(common.KindProvider, "write multipart payload", err)
	}
	if err := writer.Close(); err != nil {
		return nil, common.NewAppError(common.KindProvider, "finalize multipart payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, common.NewAppError(common.KindProvider, "build qr scan request", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("qrscan.request.failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, common.NewAppError(common.KindProvider, "qr scan request failed", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("qrscan response body close error", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("qrscan.request.status", "status", resp.StatusCode, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, common.NewAppError(common.KindProvider, fmt.Sprintf("qr scan service returned status %d", resp.StatusCode), nil)
	}

	var decoded []Decoded
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, common.NewAppError(common.KindProvider, "decode qr scan response", err)
	}

	c.log.Info("qrscan.ok", "codes", len(decoded), "elapsed_ms", time.Since(start).Milliseconds())
	return decoded, nil
}
