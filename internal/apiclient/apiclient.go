// Package apiclient is the HTTP transport for the analysis backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/internal/logging"
	"github.com/huangsam/codearchitect/schema"
)

// Backend routes.
const (
	AnalyzePath = "/api/gemini/analyze"
	HealthPath  = "/health"
)

// RequestIDHeader carries a per-request identifier for backend log correlation.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// APIError is returned for any non-success response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the analysis backend over HTTP/JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
	requestID  func() string
}

var _ contract.AnalysisClient = &Client{} // Compile-time check

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        logging.Discard(),
		requestID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Start submits an analysis request.
func (c *Client) Start(ctx context.Context, req schema.AnalysisRequest) (schema.StartResponse, error) {
	var out schema.StartResponse
	if err := c.do(ctx, http.MethodPost, AnalyzePath, req, &out); err != nil {
		return schema.StartResponse{}, err
	}
	return out, nil
}

// GetStatus fetches the state of an analysis.
func (c *Client) GetStatus(ctx context.Context, analysisID string) (schema.StatusResponse, error) {
	var out schema.StatusResponse
	path := AnalyzePath + "/" + url.PathEscape(analysisID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return schema.StatusResponse{}, err
	}
	return out, nil
}

// Health checks that the backend is reachable. Any success response counts;
// a body that does not decode is ignored.
func (c *Client) Health(ctx context.Context) (schema.HealthResponse, error) {
	var out schema.HealthResponse
	err := c.do(ctx, http.MethodGet, HealthPath, nil, &out)
	var decodeErr *decodeError
	if errors.As(err, &decodeErr) {
		return schema.HealthResponse{}, nil
	}
	if err != nil {
		return schema.HealthResponse{}, err
	}
	return out, nil
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "failed to decode response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

// do performs one JSON round trip.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := c.requestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	entry := c.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		entry.WithError(err).Debug("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	entry.WithFields(logrus.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{err: err}
	}
	return nil
}

// newAPIError reads the backend's error body. The backend answers with
// {"error": msg}; framework errors use {"detail": msg}.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}
	var payload struct {
		Error  string          `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(data, &payload) != nil {
		return apiErr
	}
	switch {
	case payload.Error != "":
		apiErr.Message = payload.Error
	case len(payload.Detail) > 0:
		var detail string
		if json.Unmarshal(payload.Detail, &detail) == nil {
			apiErr.Message = detail
		} else {
			apiErr.Message = string(payload.Detail)
		}
	}
	return apiErr
}
