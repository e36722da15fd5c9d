// Package rest implements the service.Service interface over the task
// store's REST API.
package rest

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

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"taskdash/internal/service"
)

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody limits how much of an error response is kept for messages.
const maxErrorBody = 512

// Client implements service.Service over HTTP.
type Client struct {
	base string
	http *http.Client
	log  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client (for testing).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l.Named("rest") }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the API at baseURL. A non-empty token is sent as
// a bearer credential on every request.
func New(ctx context.Context, baseURL, token string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, service.Errorf(service.CodeInvalid, "invalid api url %q", baseURL)
	}

	h := &http.Client{Timeout: DefaultTimeout}
	if token != "" {
		h = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}))
		h.Timeout = DefaultTimeout
	}

	c := &Client{
		base: strings.TrimRight(u.String(), "/"),
		http: h,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var dtos []taskDTO
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]service.Task, len(dtos))
	for i, d := range dtos {
		out[i] = d.toTask()
	}
	return out, nil
}

// CreateTask implements service.Service. The task id is not sent.
func (c *Client) CreateTask(ctx context.Context, t service.Task) (service.Task, error) {
	body := createDTO{
		Text:      t.Text,
		Completed: t.Status.Wire(),
		UserID:    t.UserID,
		Priority:  t.Priority,
		Order:     t.Order,
	}
	var created taskDTO
	if err := c.do(ctx, http.MethodPost, "/todos", body, &created); err != nil {
		return service.Task{}, err
	}
	return created.toTask(), nil
}

// UpdateTask implements service.Service. Only the patched fields are sent.
func (c *Client) UpdateTask(ctx context.Context, id service.ID, p service.TaskPatch) (service.Task, error) {
	var updated taskDTO
	if err := c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id.String()), patchBody(p), &updated); err != nil {
		return service.Task{}, err
	}
	return updated.toTask(), nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id.String()), nil, nil)
}

// ListUsers implements service.Service.
func (c *Client) ListUsers(ctx context.Context) ([]service.User, error) {
	var dtos []userDTO
	if err := c.do(ctx, http.MethodGet, "/users", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]service.User, len(dtos))
	for i, d := range dtos {
		out[i] = d.toUser()
	}
	return out, nil
}

// ResolveToken implements service.Service.
func (c *Client) ResolveToken(ctx context.Context, token string) (service.User, error) {
	var u userDTO
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(token), nil, &u); err != nil {
		return service.User{}, err
	}
	if u.ID == "" {
		return service.User{}, service.NewError(service.CodeUnauthorized, "token does not resolve to a user")
	}
	return u.toUser(), nil
}

// do sends one request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logPath := path
	if strings.HasPrefix(path, "/users/") {
		logPath = "/users/<token>"
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", logPath),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return wrapError(err)
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", logPath),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return service.WrapError(service.CodeBackend, "invalid response", err)
	}
	return nil
}

// statusError classifies an HTTP error status.
func statusError(status int, body string) error {
	msg := http.StatusText(status)
	if body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return service.NewError(service.CodeUnauthorized, msg)
	case http.StatusNotFound:
		return service.NewError(service.CodeNotFound, msg)
	default:
		return service.Errorf(service.CodeBackend, "server returned %d %s", status, msg)
	}
}

// wrapError classifies a transport failure.
func wrapError(err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return service.WrapError(service.CodeUnauthorized, "token rejected", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return service.WrapError(service.CodeBackend, "request timed out", err)
	}
	return service.WrapError(service.CodeBackend, "request failed", err)
}
