// Package apiclient is the HTTP client for the report backend: transcript
// upload, report and content generation, evidence sorting, document
// generation, report import and snapshot storage.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single backend call. Report generation is slow.
const DefaultTimeout = 2 * time.Minute

// DefaultUserAgent identifies the client to the backend.
const DefaultUserAgent = "interview-feedback-editor/1.0"

// Options configures a Client.
type Options struct {
	Token      string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client calls the report backend.
type Client struct {
	baseURL   *url.URL
	token     string
	userAgent string
	http      *http.Client
	logger    *zap.Logger
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts *Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", baseURL)
	}
	if opts == nil {
		opts = &Options{}
	}

	c := &Client{
		baseURL:   u,
		token:     opts.Token,
		userAgent: opts.UserAgent,
		http:      opts.HTTPClient,
		logger:    opts.Logger,
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

// WithToken returns a copy of c sending token as bearer credentials.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// doJSON sends in (if non-nil) as JSON and decodes the response into out
// (if non-nil).
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &APIError{Op: op, Message: "failed to encode request", Cause: err}
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	data, err := c.do(ctx, op, method, c.endpoint(path, query), contentType, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Op: op, Message: "invalid response", Cause: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, target, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &APIError{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed", zap.String("op", op), zap.Error(err))
		return nil, &APIError{Op: op, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	c.logger.Debug("Backend request",
		zap.String("op", op),
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}

// maxErrorRunes caps the raw body text kept in an APIError.
const maxErrorRunes = 200

// errorMessage extracts {"error": ...} or {"message": ...} from a body,
// falling back to the trimmed text.
func errorMessage(body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if runes := []rune(msg); len(runes) > maxErrorRunes {
		msg = string(runes[:maxErrorRunes])
	}
	return msg
}

// upload posts content as the "file" field of a multipart form.
func (c *Client) upload(ctx context.Context, op, path, fileName string, content io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return &APIError{Op: op, Message: "failed to build upload", Cause: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return &APIError{Op: op, Message: "failed to read file", Cause: err}
	}
	if err := mw.Close(); err != nil {
		return &APIError{Op: op, Message: "failed to build upload", Cause: err}
	}

	data, err := c.do(ctx, op, http.MethodPost, c.endpoint(path, nil), mw.FormDataContentType(), &buf)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Op: op, Message: "invalid response", Cause: err}
	}
	return nil
}

func checkExtension(fileName string, allowed []string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return &FileTypeError{FileName: fileName, Allowed: allowed}
}
