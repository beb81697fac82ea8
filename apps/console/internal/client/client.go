// Package client talks to the storefront REST API.
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

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"github.com/prohmpiriya/storefront-console/pkg/requestid"
	"github.com/prohmpiriya/storefront-console/pkg/retry"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
	"go.uber.org/zap"
)

const maxErrorBody = 64 << 10

// Config holds storefront client settings
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Retry applies to GET requests that fail in transport; zero
	// MaxRetries sends every request once
	Retry retry.Config
}

// TokenSource yields the current session token, empty when anonymous
type TokenSource interface {
	Token() string
}

// Client is a storefront API client. Authenticated calls send
// "Authorization: Bearer <token>" taken from the token source.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	tokens    TokenSource
	retrier   *retry.Retrier
	log       *logger.Logger
}

// New creates a new Client
func New(cfg Config, tokens TokenSource, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "storefront-console/1.0"
	}
	if log == nil {
		log = logger.Get()
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		tokens:    tokens,
		retrier:   retry.New(cfg.Retry),
		log:       log,
	}
}

type authMode int

const (
	authNone authMode = iota
	authOptional
	authRequired
)

// call describes one storefront request
type call struct {
	method string
	path   string
	auth   authMode
	body   interface{}
	out    interface{}
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// do sends rc, repeating reads that fail in transport
func (c *Client) do(ctx context.Context, rc call) error {
	if rc.method != http.MethodGet || c.retrier.MaxRetries() == 0 {
		return c.send(ctx, rc)
	}

	res := c.retrier.Do(ctx, func(ctx context.Context) error {
		err := c.send(ctx, rc)
		if err != nil && !domain.IsNetworkError(err) {
			return retry.Permanent(err)
		}
		return err
	}, func(attempt int, err error, wait time.Duration) {
		c.log.Info("retrying storefront read",
			zap.String("op", rc.method+" "+rc.path),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	return res.Err
}

func (c *Client) send(ctx context.Context, rc call) error {
	op := rc.method + " " + rc.path

	token := ""
	if rc.auth != authNone {
		token = c.token()
		if token == "" && rc.auth == authRequired {
			return domain.ErrUnauthenticated
		}
	}

	var body io.Reader
	if rc.body != nil {
		payload, err := json.Marshal(rc.body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, rc.method, c.baseURL+rc.path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	_, reqID := requestid.Ensure(ctx)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestid.Header, reqID)
	if rc.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	req, span := telemetry.StartClientSpan(req, "storefront "+op)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		telemetry.EndClientSpan(span, 0, err)
		c.log.Warn("storefront request failed",
			zap.String("op", op),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("storefront request",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", reqID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rejected := rejection(resp)
		telemetry.EndClientSpan(span, resp.StatusCode, rejected)
		return rejected
	}
	telemetry.EndClientSpan(span, resp.StatusCode, nil)

	if rc.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, rc.out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

// errorBody covers the message shapes the storefront uses
type errorBody struct {
	Msg     string          `json:"msg"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// rejection builds the error for a non-2xx response, keeping the server
// message when one is present
func rejection(resp *http.Response) *domain.RequestRejectedError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &domain.RequestRejectedError{
		StatusCode: resp.StatusCode,
		Message:    serverMessage(data),
	}
}

func serverMessage(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		if eb.Msg != "" {
			return eb.Msg
		}
		if eb.Message != "" {
			return eb.Message
		}
		if len(eb.Error) > 0 {
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(eb.Error, &nested) == nil && nested.Message != "" {
				return nested.Message
			}
			var s string
			if json.Unmarshal(eb.Error, &s) == nil && s != "" {
				return s
			}
		}
	}
	return domain.GenericRejectionMessage
}

// HealthCheck reports whether the storefront answers at all. Any HTTP
// response counts as reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	err := c.send(ctx, call{method: http.MethodGet, path: "/"})
	if err != nil && domain.IsNetworkError(err) {
		return err
	}
	return nil
}
