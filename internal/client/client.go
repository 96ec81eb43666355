// Package client talks to the inphormed backend: the layout resource and the
// UI agent command endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"inphormed/internal/jsonutil"
	"inphormed/internal/layout"
	"inphormed/internal/trace"
)

const (
	// DefaultBaseURL is where `inphormed serve` listens by default.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 5 * time.Second
	// RequestIDHeader carries the per-request id to the server.
	RequestIDHeader = "X-Request-ID"

	LayoutPath  = "/api/ui-layout"
	CommandPath = "/api/ui-agent/command"
	HealthPath  = "/health"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client is the HTTP client for the backend.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  oteltrace.Tracer
	log     *zap.Logger
}

// Ensure Client implements layout.Remote.
var _ layout.Remote = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTracer sets the tracing provider.
func WithTracer(p *trace.Provider) Option {
	return func(c *Client) { c.tracer = p.Tracer() }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for baseURL (DefaultBaseURL if empty).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		tracer:  trace.Noop().Tracer(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetLayout fetches the persisted layout. A body that is not a layout yields
// an error wrapping layout.ErrMalformed.
func (c *Client) GetLayout(ctx context.Context) (layout.Layout, error) {
	var l layout.Layout
	if err := c.do(ctx, "get layout", http.MethodGet, LayoutPath, nil, &l); err != nil {
		return layout.Layout{}, err
	}
	return l, nil
}

type saveRequest struct {
	Layout layout.Layout `json:"layout"`
}

// SaveLayout persists l on the server.
func (c *Client) SaveLayout(ctx context.Context, l layout.Layout) error {
	return c.do(ctx, "save layout", http.MethodPost, LayoutPath, saveRequest{Layout: l}, nil)
}

type commandRequest struct {
	Command string        `json:"command"`
	Layout  layout.Layout `json:"layout"`
}

// CommandResponse is the UI agent's answer. A nil Layout means no change.
type CommandResponse struct {
	Layout *layout.Layout `json:"layout,omitempty"`
	Notes  []string       `json:"notes,omitempty"`
}

// SendCommand forwards a free-text command together with the current layout.
func (c *Client) SendCommand(ctx context.Context, command string, l layout.Layout) (CommandResponse, error) {
	var resp CommandResponse
	err := c.do(ctx, "ui agent command", http.MethodPost, CommandPath, commandRequest{Command: command, Layout: l}, &resp)
	if err != nil {
		return CommandResponse{}, err
	}
	return resp, nil
}

// Health checks the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, "health", http.MethodGet, HealthPath, nil, &body); err != nil {
		return err
	}
	if body.Status != "ok" {
		return fmt.Errorf("health: status %q", body.Status)
	}
	return nil
}

// Fetch implements layout.Remote.
func (c *Client) Fetch(ctx context.Context) (layout.Layout, error) {
	return c.GetLayout(ctx)
}

// Push implements layout.Remote.
func (c *Client) Push(ctx context.Context, l layout.Layout) error {
	return c.SaveLayout(ctx, l)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out interface{}) (err error) {
	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, op, oteltrace.WithSpanKind(oteltrace.SpanKindClient))
	span.SetAttributes(trace.AttrRequestID.String(requestID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(trace.AttrStatus.Int(resp.StatusCode))

	c.log.Debug("backend request",
		zap.String("op", op),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, jsonutil.MaxBodyBytes))
		return nil
	}
	if err := jsonutil.DecodeBody(resp.Body, out, op); err != nil {
		return fmt.Errorf("%w: %v", layout.ErrMalformed, err)
	}
	return nil
}
