package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/apperr"
	"github.com/nikolayk812/storefront/internal/port"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultBaseURL = "http://localhost:8000/api"

// Client talks to the storefront REST backend. One call is one round trip:
// nothing is retried, cached or batched.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  port.TokenSource
	logger  *slog.Logger
}

var (
	_ port.AuthGateway  = (*Client)(nil)
	_ port.OrderGateway = (*Client)(nil)
	_ port.ChatGateway  = (*Client)(nil)
)

type Option func(*Client)

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func New(baseURL string, tokens port.TokenSource, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("url.ParseRequestURI[%s]: %w", baseURL, err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return apperr.Wrap(fmt.Errorf("json.Marshal: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	return c.do(ctx, request{method: method, path: path, body: body, contentType: "application/json"}, out)
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("http.NewRequestWithContext: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Token "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "api_request",
			slog.String("request_id", requestID),
			slog.String("method", r.method),
			slog.String("path", r.path),
			slog.Duration("latency", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return apperr.NetworkErr(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.NetworkErr(fmt.Errorf("io.ReadAll: %w", err))
	}

	level := slog.LevelInfo
	if resp.StatusCode >= 500 {
		level = slog.LevelError
	} else if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	c.logger.LogAttrs(ctx, level, "api_request",
		slog.String("request_id", requestID),
		slog.String("method", r.method),
		slog.String("path", r.path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
		slog.Int("bytes", len(raw)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Wrap(fmt.Errorf("json.Unmarshal: %w", err))
	}
	return nil
}

// errorFromResponse extracts the backend's message from the usual error bodies:
// {"detail": ...}, {"error": ...}, {"message": ...} or a map of field errors.
func errorFromResponse(status int, raw []byte) *apperr.Error {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return apperr.FromStatus(status, http.StatusText(status), nil)
	}

	var detail string
	for _, key := range []string{"detail", "error", "message"} {
		v, ok := body[key]
		if !ok {
			continue
		}
		if s, ok := asText(v); ok {
			detail = s
			delete(body, key)
			break
		}
		var nested map[string]json.RawMessage
		if json.Unmarshal(v, &nested) == nil {
			delete(body, key)
			body = mergeFields(body, nested)
		}
	}

	fields := map[string]string{}
	for k, v := range body {
		if s, ok := asText(v); ok {
			fields[k] = s
		}
	}

	if nfe, ok := fields["non_field_errors"]; ok {
		delete(fields, "non_field_errors")
		if detail == "" {
			detail = nfe
		}
	}
	if len(fields) == 0 {
		fields = nil
	}
	if detail == "" && fields == nil {
		detail = http.StatusText(status)
	}

	return apperr.FromStatus(status, detail, fields)
}

// asText accepts a string or a list of strings, the two shapes field errors come in.
func asText(v json.RawMessage) (string, bool) {
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s, true
	}

	var list []string
	if json.Unmarshal(v, &list) == nil && len(list) > 0 {
		return strings.Join(list, " "), true
	}
	return "", false
}

func mergeFields(dst, src map[string]json.RawMessage) map[string]json.RawMessage {
	for k, v := range src {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
	return dst
}
