package client

import (
	"sync"

	"wanderlust/models"
)

// notificationCache is the client-side working copy of the inbox. It only
// changes on confirmed facts: a full fetch, a push from the server, or a
// mark-read the server acknowledged. It never speculates.
type notificationCache struct {
	mu     sync.Mutex
	items  []models.NotificationView
	unread int64
	loaded bool
}

// replace installs a fresh snapshot from a full fetch.
func (c *notificationCache) replace(items []models.NotificationView, unread int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.unread = unread
	c.loaded = true
}

// prepend inserts a freshly pushed notification at the head and bumps the
// unread count. The trimmed push lacks resolved references; the next full
// fetch fills them in.
func (c *notificationCache) prepend(push models.NotificationPush) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.items {
		if n.ID == push.ID {
			return
		}
	}
	view := models.NotificationView{
		ID:        push.ID,
		Type:      push.Type,
		Title:     push.Title,
		Message:   push.Message,
		CreatedAt: push.CreatedAt,
	}
	c.items = append([]models.NotificationView{view}, c.items...)
	c.unread++
}

// markRead flips the cached entry and decrements the unread count, floored
// at zero. Unknown ids and repeats leave the count alone.
func (c *notificationCache) markRead(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID != id {
			continue
		}
		if !c.items[i].Read {
			c.items[i].Read = true
			if c.unread > 0 {
				c.unread--
			}
		}
		return
	}
}

// snapshot returns a copy of the cached inbox and the unread count.
func (c *notificationCache) snapshot() ([]models.NotificationView, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]models.NotificationView, len(c.items))
	copy(items, c.items)
	return items, c.unread
}

func (c *notificationCache) isLoaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}
