// Package googletasks implements the service.Service interface using Google Tasks API.
//
// A single Google task list plays the role of the task store. Google has no
// notion of priority, manual order, or the new/incomplete distinction, so
// those live in the task notes as a small YAML document.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskdash/internal/config"
	"taskdash/internal/service"
)

const (
	// PageSize is the number of tasks fetched per API page.
	PageSize = 100

	// APITimeout is the default timeout for API calls.
	APITimeout = 30 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	// SessionMarker is the session token stored by the connect command.
	SessionMarker = "google-tasks"

	// OwnerID identifies the account owner, the only user of this backend.
	OwnerID service.ID = "me"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	listID  string
	owner   service.User
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l.Named("googletasks") }
}

// WithTimeout bounds every API call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAccount names the account owner.
func WithAccount(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.owner.Username = name
		}
	}
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and google_token.json to exist.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	oauthConfig, err := LoadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	token, err := LoadToken(cfg.GoogleTokenPath())
	if err != nil {
		return nil, err
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	opts = append([]Option{
		WithTimeout(cfg.Settings.RequestTimeout),
		WithAccount(cfg.Settings.Google.Account),
	}, opts...)
	return NewWithHTTPClient(ctx, httpClient, cfg.Settings.Google.ListID, opts...)
}

// LoadOAuthConfig reads the desktop OAuth client from the config directory.
func LoadOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, service.WrapError(service.CodeUnauthorized, "failed to read oauth_client.json", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, service.WrapError(service.CodeUnauthorized, "invalid oauth_client.json", err)
	}
	return oauthConfig, nil
}

// LoadToken reads the Google token written by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, service.WrapError(service.CodeUnauthorized, "not connected (run: taskdash connect)", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, service.WrapError(service.CodeUnauthorized, "invalid google_token.json", err)
	}
	return &token, nil
}

// SaveToken writes token to path with mode 0600.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// NewWithHTTPClient creates a client with a custom HTTP client.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...Option) (*Client, error) {
	return newClient(ctx, listID, []option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
}

func newClient(ctx context.Context, listID string, apiOpts []option.ClientOption, opts ...Option) (*Client, error) {
	svc, err := tasks.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if listID == "" {
		listID = config.DefaultGoogleListID
	}
	c := &Client{
		svc:     svc,
		listID:  listID,
		owner:   service.User{ID: OwnerID, Username: "me", Role: service.RoleUser},
		timeout: APITimeout,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTasks returns every task in the list, completed and hidden included.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result []service.Task
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, c.toTask(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	c.log.Debug("listed tasks", zap.String("list", c.listID), zap.Int("count", len(result)))
	return result, nil
}

// CreateTask inserts a task and returns it with its Google id.
func (c *Client) CreateTask(ctx context.Context, t service.Task) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	created := t.CreatedAt
	if created.IsZero() {
		created = c.now()
	}
	m := meta{Priority: t.Priority, Order: t.Order, Created: created.UTC().Format(time.RFC3339)}
	m.setStatus(t.Status)

	gt := &tasks.Task{Title: t.Text, Status: googleStatus(t.Status), Notes: m.encode()}
	res, err := c.svc.Tasks.Insert(c.listID, gt).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return c.toTask(res), nil
}

// UpdateTask reads the task, applies the patch, and writes back the changed
// fields. Metadata in the notes is merged, not replaced.
func (c *Client) UpdateTask(ctx context.Context, id service.ID, p service.TaskPatch) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cur, err := c.svc.Tasks.Get(c.listID, id.String()).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}

	m := decodeMeta(cur.Notes)
	patch := &tasks.Task{}
	if p.Text != nil {
		patch.Title = *p.Text
	}
	if p.Status != nil {
		m.setStatus(*p.Status)
		patch.Status = googleStatus(*p.Status)
		if *p.Status != service.StatusCompleted {
			// Clearing the completion date reopens the task.
			patch.NullFields = append(patch.NullFields, "Completed")
		}
	}
	if p.Priority != nil {
		m.Priority = *p.Priority
	}
	if p.Order != nil {
		m.Order = service.Ptr(*p.Order)
	}
	patch.Notes = m.encode()
	if patch.Notes == "" {
		patch.NullFields = append(patch.NullFields, "Notes")
	}

	res, err := c.svc.Tasks.Patch(c.listID, id.String(), patch).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return c.toTask(res), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id.String()).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// ListUsers returns the account owner.
func (c *Client) ListUsers(ctx context.Context) ([]service.User, error) {
	return []service.User{c.owner}, nil
}

// ResolveToken accepts the connect marker once the list is reachable with
// the stored credentials.
func (c *Client) ResolveToken(ctx context.Context, token string) (service.User, error) {
	if token != SessionMarker {
		return service.User{}, service.NewError(service.CodeUnauthorized, "not a google tasks session")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if _, err := c.svc.Tasklists.Get(c.listID).Context(ctx).Do(); err != nil {
		return service.User{}, wrapError(err)
	}
	return c.owner, nil
}

func (c *Client) toTask(t *tasks.Task) service.Task {
	m := decodeMeta(t.Notes)
	out := service.Task{
		ID:       service.ID(t.Id),
		Text:     t.Title,
		Status:   m.status(t.Status == statusCompleted),
		Priority: m.Priority,
		UserID:   c.owner.ID,
		Order:    m.Order,
	}
	if ts, err := time.Parse(time.RFC3339, t.Updated); err == nil {
		out.UpdatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, m.Created); err == nil {
		out.CreatedAt = ts
	} else {
		out.CreatedAt = out.UpdatedAt
	}
	return out
}

func googleStatus(s service.Status) string {
	if s == service.StatusCompleted {
		return statusCompleted
	}
	return statusNeedsAction
}

// wrapError classifies API errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return service.WrapError(service.CodeUnauthorized, "token expired or revoked (run: taskdash connect)", err)
		case http.StatusNotFound:
			return service.WrapError(service.CodeNotFound, "not found", err)
		}
		return service.WrapError(service.CodeBackend, "google tasks request failed", err)
	}

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return service.WrapError(service.CodeUnauthorized, "token expired or revoked (run: taskdash connect)", err)
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return service.WrapError(service.CodeBackend, "request timed out", err)
	}
	return service.WrapError(service.CodeBackend, "google tasks request failed", err)
}
