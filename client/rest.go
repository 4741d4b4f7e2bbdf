package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"wanderlust/models"
)

// envelope mirrors the JSON wrapper every endpoint responds with.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError carries a non-2xx response back to the caller.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	var env envelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&env).
		SetError(&env).
		Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *Client) put(ctx context.Context, path string, out interface{}) error {
	var env envelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&env).
		SetError(&env).
		Put(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// FetchNotifications pulls the full inbox and refreshes the cache.
func (c *Client) FetchNotifications(ctx context.Context) ([]models.NotificationView, error) {
	var items []models.NotificationView
	if err := c.get(ctx, "/api/notifications", &items); err != nil {
		return nil, err
	}

	count, err := c.FetchUnreadCount(ctx)
	if err != nil {
		// Fall back to counting the page we just fetched.
		count = 0
		for _, n := range items {
			if !n.Read {
				count++
			}
		}
	}
	c.cache.replace(items, count)
	return items, nil
}

// FetchUnreadCount asks the server for the authoritative unread count.
func (c *Client) FetchUnreadCount(ctx context.Context) (int64, error) {
	var data struct {
		UnreadCount int64 `json:"unreadCount"`
	}
	if err := c.get(ctx, "/api/notifications/unread-count", &data); err != nil {
		return 0, err
	}
	return data.UnreadCount, nil
}

// MarkAsRead flips a notification to read on the server and, only once the
// server confirms, in the local cache. Repeats succeed without changing
// anything.
func (c *Client) MarkAsRead(ctx context.Context, notificationID string) (*models.Notification, error) {
	var n models.Notification
	path := fmt.Sprintf("/api/notifications/%s/read", notificationID)
	if err := c.put(ctx, path, &n); err != nil {
		return nil, err
	}
	c.cache.markRead(notificationID)
	return &n, nil
}
