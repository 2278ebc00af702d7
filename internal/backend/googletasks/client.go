// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"gtodo/internal/config"
	"gtodo/internal/logging"
	"gtodo/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using Google Tasks API.
// All calls target a single task list.
type Client struct {
	svc    *tasks.Service
	listID string
	log    *logrus.Entry
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist. The list named in the
// settings is resolved by title; an empty name selects the default list.
func New(ctx context.Context, cfg *config.Config, log *logrus.Entry) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	c, err := NewWithHTTPClient(ctx, httpClient, DefaultListID, log)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(cfg.Settings.List); name != "" {
		id, err := c.resolveList(ctx, name)
		if err != nil {
			return nil, err
		}
		c.listID = id
	}
	return c, nil
}

// NewWithHTTPClient creates a client bound to listID with a custom HTTP
// client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, log *logrus.Entry, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Client{svc: svc, listID: listID, log: log}, nil
}

// resolveList finds a list ID by title (case-insensitive, trimmed).
func (c *Client) resolveList(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	nameLower := strings.ToLower(name)
	var matches []string
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if strings.ToLower(strings.TrimSpace(list.Title)) == nameLower {
				matches = append(matches, list.Id)
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError(err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("list not found: %s", name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous list name: %s", name)
	}
}

// CreateTask creates a new open task with no tags.
func (c *Client) CreateTask(ctx context.Context, name string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, toAPI(service.Task{Name: name})).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return fromAPI(created, c.log), nil
}

// ListTasks returns every task in the list, including completed and hidden
// ones, draining all pages.
func (c *Client) ListTasks(ctx context.Context) (service.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.Task
	pages := 0
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowDeleted(false).
		ShowHidden(true).
		Pages(ctx, func(resp *tasks.Tasks) error {
			pages++
			for _, item := range resp.Items {
				result = append(result, fromAPI(item, c.log))
			}
			return nil
		})
	if err != nil {
		return service.Collection{}, wrapError(err)
	}

	c.log.WithFields(logrus.Fields{"list": c.listID, "pages": pages, "count": len(result)}).Debug("listed tasks")
	return service.Collection{Tasks: result, RowCount: len(result)}, nil
}

// UpdateTask replaces the model fields of the stored task. The stored item
// is read first so that API fields outside the model and the user's own
// note text survive the full-resource Update.
func (c *Client) UpdateTask(ctx context.Context, task service.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	item, err := c.svc.Tasks.Get(c.listID, task.ID).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	applyTask(item, task)

	if _, err := c.svc.Tasks.Update(c.listID, task.ID, item).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: token expired or revoked (run: gtodo login)", service.ErrUnauthorized)
		case http.StatusNotFound:
			return fmt.Errorf("task %w", service.ErrNotFound)
		}
	}
	return err
}
