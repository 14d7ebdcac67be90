package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.RAGBackend = (*Client)(nil)

// Endpoint paths relative to the base URL.
const (
	UploadPath    = "/upload"
	AskStreamPath = "/ask-stream"
)

// Limits on how much of a non-streaming body is read.
const (
	maxUploadResponseBytes = 1 << 20
	maxErrorBodyBytes      = 4 << 10
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend root (default: http://localhost:8000).
	BaseURL string

	// RequestsPerSecond paces requests (default: 5). Zero or less disables pacing.
	RequestsPerSecond float64

	// Burst is the number of back-to-back requests allowed (default: 10).
	Burst int

	// HTTPClient overrides the HTTP client. It must not set a Timeout,
	// since answers stream for as long as the backend generates.
	HTTPClient *http.Client
}

// Client talks to the RAG backend over HTTP.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *RateLimiter
}

// uploadResponse is the /upload response format, for success and failure.
type uploadResponse struct {
	FileID string  `json:"file_id"`
	Chunks float64 `json:"chunks"`
	Error  string  `json:"error"`
}

// NewClient creates a new backend client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBackendURL
	}
	if cfg.Burst == 0 {
		cfg.Burst = domain.DefaultBurst
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	return &Client{
		client:  cfg.HTTPClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
	}
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Upload posts a document as multipart field "file".
// Non-2xx responses and responses without file_id are returned as
// *domain.UploadError; an unreadable body is returned as a plain error.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (*domain.UploadResult, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	logger.Debug("POST %s%s (%s, %d bytes)", c.baseURL, UploadPath, filename, body.Len())

	resp, err := c.post(ctx, UploadPath, mw.FormDataContentType(), body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxUploadResponseBytes)).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode upload response (status %d): %w", resp.StatusCode, err)
	}

	if !isSuccess(resp.StatusCode) {
		logger.Warn("upload rejected: status=%d error=%q", resp.StatusCode, data.Error)
		return nil, &domain.UploadError{StatusCode: resp.StatusCode, Message: data.Error}
	}
	if data.FileID == "" {
		logger.Warn("upload accepted without file_id: status=%d", resp.StatusCode)
		return nil, fmt.Errorf("%w: %w", &domain.UploadError{StatusCode: resp.StatusCode, Message: data.Error}, domain.ErrMissingFileID)
	}

	logger.Debug("upload accepted: file_id=%s chunks=%v", data.FileID, data.Chunks)
	return &domain.UploadResult{FileID: data.FileID, Chunks: int(data.Chunks)}, nil
}

// AskStream posts a question and returns the raw answer stream.
func (c *Client) AskStream(ctx context.Context, documentID, question string) (io.ReadCloser, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("question", question); err != nil {
		return nil, fmt.Errorf("write question field: %w", err)
	}
	if err := mw.WriteField("file_id", documentID); err != nil {
		return nil, fmt.Errorf("write file_id field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	logger.Debug("POST %s%s (file_id=%s)", c.baseURL, AskStreamPath, documentID)

	resp, err := c.post(ctx, AskStreamPath, mw.FormDataContentType(), body)
	if err != nil {
		return nil, err
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, domain.ErrNoResponseBody
	}

	if !isSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("%w (status %d): %s", domain.ErrStreamRejected, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return resp.Body, nil
}

// post waits for the rate limiter and sends a POST request.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimited(resp)
		logger.Warn("backend rate limited %s until %s", path, c.limiter.RetryAt().Format("15:04:05"))
	}

	return resp, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
