package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"auracare/internal/platform/metrics"
)

// User-facing fallback messages per the error taxonomy. The backend's own
// "message" field wins when it is present and parseable.
const (
	MsgNotAuthenticated = "You need to log in to do that."
	MsgRequestFailed    = "Request failed. Please check your input and try again."
	MsgTryAgainLater    = "Something went wrong. Please try again later."
)

// TokenSource yields the current bearer token, if any. Implemented by the
// auth manager.
type TokenSource interface {
	Token() (string, bool)
}

// Invalidator is notified when the backend rejects a bearer token so the
// session can be torn down before the failure is returned to the caller.
type Invalidator interface {
	InvalidateToken(ctx context.Context, token string)
}

// Request describes one backend call. Path carries interpolated values;
// PathTemplate (when set) is the low-cardinality form used for metrics and
// span names.
type Request struct {
	Method       string
	Path         string
	PathTemplate string
	Query        url.Values
	JSON         any
	Form         *Form
	AuthRequired bool
}

// Result is the normalized outcome of every call. Failures of any kind
// (transport errors, timeouts, non-2xx statuses) are captured here as data;
// Do never returns a Go error and callers never need recovery logic.
type Result struct {
	OK           bool
	StatusCode   int
	Data         json.RawMessage
	ErrorMessage string
}

// Decode unmarshals the response payload into v.
func (r Result) Decode(v any) error {
	return json.Unmarshal(r.Data, v)
}

// Options configures the client. HTTPClient defaults to http.DefaultClient;
// no client-side timeout is imposed beyond the transport's own.
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Tokens      TokenSource
	Invalidator Invalidator
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// Client is the sole component issuing HTTP calls to the backend. It never
// retries: a failed call is reported and retry is always a fresh user
// action.
type Client struct {
	baseURL     string
	http        *http.Client
	tokens      TokenSource
	invalidator Invalidator
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		http:        httpClient,
		tokens:      opts.Tokens,
		invalidator: opts.Invalidator,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		tracer:      otel.Tracer("auracare/gateway"),
	}
}

// Do issues the request and normalizes whatever happens into a Result.
func (c *Client) Do(ctx context.Context, req Request) Result {
	template := req.PathTemplate
	if template == "" {
		template = req.Path
	}

	ctx, span := c.tracer.Start(ctx, "gateway "+req.Method+" "+template,
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.route", template),
		))
	defer span.End()

	token, hasToken := c.tokens.Token()
	if req.AuthRequired && !hasToken {
		// Normalized unauthenticated result without a network call.
		c.observe(template, "unauthenticated")
		span.SetStatus(codes.Error, "unauthenticated")
		return Result{
			OK:           false,
			StatusCode:   http.StatusUnauthorized,
			ErrorMessage: MsgNotAuthenticated,
		}
	}

	httpReq, err := c.build(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "gateway request build failed", "path", template, "error", err)
		c.observe(template, "build_error")
		span.SetStatus(codes.Error, "build failed")
		return Result{OK: false, ErrorMessage: MsgTryAgainLater}
	}
	if hasToken {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	timer := c.startTimer(template)
	resp, err := c.http.Do(httpReq)
	timer()
	if err != nil {
		c.logger.WarnContext(ctx, "gateway request failed", "path", template, "error", err)
		c.observe(template, "network_error")
		span.SetStatus(codes.Error, "transport error")
		return Result{OK: false, ErrorMessage: MsgTryAgainLater}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(template, "read_error")
		span.SetStatus(codes.Error, "body read error")
		return Result{OK: false, StatusCode: resp.StatusCode, ErrorMessage: MsgTryAgainLater}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.observe(template, "ok")
		return Result{OK: true, StatusCode: resp.StatusCode, Data: body}
	}

	if resp.StatusCode == http.StatusUnauthorized && hasToken && c.invalidator != nil {
		// Forced logout happens before the caller sees the failure.
		c.invalidator.InvalidateToken(ctx, token)
	}

	c.observe(template, "error")
	span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	return Result{
		OK:           false,
		StatusCode:   resp.StatusCode,
		Data:         body,
		ErrorMessage: serverMessage(body, resp.StatusCode),
	}
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		encoded, ct, err := req.Form.encode()
		if err != nil {
			return nil, err
		}
		body, contentType = encoded, ct
	case req.JSON != nil:
		raw, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, err
		}
		body, contentType = bytes.NewReader(raw), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

func (c *Client) observe(path, outcome string) {
	if c.metrics != nil {
		c.metrics.GatewayRequests.WithLabelValues(path, outcome).Inc()
	}
}

func (c *Client) startTimer(path string) func() {
	if c.metrics == nil {
		return func() {}
	}
	t := prometheusTimer(c.metrics, path)
	return t
}

// serverMessage extracts the backend's {"message": "..."} when present,
// otherwise falls back to the generic text for the status class.
func serverMessage(body []byte, status int) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	if status >= 500 {
		return MsgTryAgainLater
	}
	return MsgRequestFailed
}
