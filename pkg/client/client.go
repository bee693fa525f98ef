// Package client talks to the patient analysis service.
package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/helmcode/patient-assistant/pkg/parser"
	"github.com/helmcode/patient-assistant/pkg/payload"
	"go.uber.org/zap"
)

// ProcessPath is the analysis resource under the base URL.
const ProcessPath = "/process-patient-data/"

// RequestIDHeader carries a per-submission id for log correlation.
const RequestIDHeader = "X-Request-ID"

type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

type Option func(*Client)

// WithTimeout bounds the whole request. Zero keeps the HTTP client's own
// timeout. A client passed with WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.client
		hc.Timeout = c.timeout
		c.client = &hc
	}
	return c
}

// URL is the full endpoint the payload is posted to.
func (c *Client) URL() string {
	return c.baseURL + ProcessPath
}

// Process posts the payload once and returns the insight text.
// Errors are *TransportError, *StatusError, *ParseError or, for a failure
// reported in a 2xx body, *parser.ServiceError.
func (c *Client) Process(ctx context.Context, p *payload.Payload) (string, error) {
	requestID := uuid.NewString()
	logger := c.logger.With(zap.String("request_id", requestID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(p.Body))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", p.ContentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger.Debug("Submitting patient data",
		zap.String("url", c.URL()),
		zap.Int("fields", p.Fields),
		zap.Int("files", p.Files),
		zap.Int("bytes", len(p.Body)))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	logger.Debug("Response from analysis service",
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", respBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(respBytes)}
	}

	insights, err := parser.ParseInsights(respBytes)
	var svcErr *parser.ServiceError
	if errors.As(err, &svcErr) {
		return "", svcErr
	}
	if err != nil {
		return "", &ParseError{Err: err}
	}
	return insights, nil
}
