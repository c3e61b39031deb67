package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/SUMITRAUTHAN09/rosca/internal/session"
)

const maxResponseSize = 10 << 20

// Client talks to the rental-rooms REST API. The bearer token comes from
// the session on every call, so signing in or out takes effect immediately.
type Client struct {
	BaseURL    string
	session    *session.Context
	httpClient *http.Client
	metrics    *Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a new API client
func NewClient(baseURL string, sess *session.Context, opts ...Option) *Client {
	if sess == nil {
		sess = session.New()
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		session: sess,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *session.Context {
	return c.session
}

// call describes one request. body is invoked only once the call is known
// to go out, so a protected call without a token never builds its body.
type call struct {
	op        string
	method    string
	path      string
	protected bool
	body      func() (io.Reader, string, error)
	fallback  string
}

func jsonBody(v any) func() (io.Reader, string, error) {
	return func() (io.Reader, string, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// envelope is the part of every response the client checks before decoding
// the payload itself.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func (c *Client) do(ctx context.Context, req call, out any) error {
	token := c.session.Token()
	if req.protected && token == "" {
		slog.Debug("Skipping API call without session", "operation", req.op)
		return errors.Wrap(ErrAuthRequired, req.op)
	}

	start := time.Now()
	err := c.send(ctx, req, token, out)
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "error"
		slog.Warn("API call failed", "operation", req.op, "path", req.path, "duration", elapsed, "err", err)
	}
	c.metrics.observe(req.op, outcome, elapsed)
	return err
}

func (c *Client) send(ctx context.Context, req call, token string, out any) error {
	var body io.Reader
	contentType := ""
	if req.body != nil {
		var err error
		body, contentType, err = req.body()
		if err != nil {
			return &RemoteError{Op: req.op, Message: req.fallback, Err: err}
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.BaseURL+req.path, body)
	if err != nil {
		if closer, ok := body.(io.Closer); ok {
			closer.Close()
		}
		return &RemoteError{Op: req.op, Message: req.fallback, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &RemoteError{Op: req.op, Message: req.fallback, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &RemoteError{Op: req.op, StatusCode: resp.StatusCode, Message: req.fallback, Err: err}
	}
	slog.Debug("API response", "method", req.method, "path", req.path, "status", resp.StatusCode)

	var env envelope
	decodeErr := json.Unmarshal(data, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.message()
		if decodeErr != nil || msg == "" {
			msg = req.fallback
		}
		return &RemoteError{Op: req.op, StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil && len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if decodeErr != nil {
		return &RemoteError{
			Op:         req.op,
			StatusCode: resp.StatusCode,
			Message:    req.fallback,
			Err:        errors.Wrap(decodeErr, "malformed response"),
		}
	}
	if env.Success != nil && !*env.Success {
		msg := env.message()
		if msg == "" {
			msg = req.fallback
		}
		return &RemoteError{Op: req.op, StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &RemoteError{
				Op:         req.op,
				StatusCode: resp.StatusCode,
				Message:    req.fallback,
				Err:        errors.Wrap(err, "malformed response"),
			}
		}
	}
	return nil
}
