// Package client is the Go SDK for the notification and analytics API. It
// keeps a local working copy of the inbox, fed by REST fetches and live
// pushes, and degrades to polling when the realtime channel is unavailable.
package client

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"wanderlust/models"
	"wanderlust/services/analytics"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const defaultConnectTimeout = 10 * time.Second

// Config carries the connection settings for a Client.
type Config struct {
	// BaseURL is the API origin, e.g. "http://localhost:8000".
	BaseURL string
	// Token is the bearer token used for REST calls and the socket handshake.
	Token string
	// ConnectTimeout bounds the realtime handshake. Defaults to 10 seconds;
	// a timeout leaves the client in polling mode rather than failing it.
	ConnectTimeout time.Duration
	Logger         *zap.Logger
}

// ListingViewEvent is the ephemeral per-view push sent to listing owners.
type ListingViewEvent struct {
	ListingID string `json:"listingId"`
	ViewCount int64  `json:"viewCount"`
}

// NavigationTarget tells the caller where a notification click should land.
type NavigationTarget struct {
	Path string
	// ScrollToReviews is set for review notifications so the caller can
	// jump straight to the reviews section.
	ScrollToReviews bool
}

// Client talks to the notification and analytics API.
type Client struct {
	cfg   Config
	rest  *resty.Client
	cache *notificationCache
	log   *zap.Logger

	mu   sync.Mutex
	conn *websocket.Conn
	// gen counts connection generations. Every forced re-initialize bumps
	// it; a read loop or reconnect attempt belonging to an older generation
	// stands down instead of touching the live connection.
	gen         int
	initialized bool
	pollingOnly bool
	done        chan struct{}

	handlersMu     sync.RWMutex
	onNotification func(models.NotificationPush)
	onListingView  func(ListingViewEvent)
	analyticsSubs  map[string][]func(json.RawMessage)
}

// New builds a Client. Call Initialize before using the realtime features;
// REST methods work immediately.
func New(cfg Config) *Client {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	rest := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.Token).
		SetTimeout(cfg.ConnectTimeout)

	return &Client{
		cfg:           cfg,
		rest:          rest,
		cache:         &notificationCache{},
		log:           cfg.Logger,
		done:          make(chan struct{}),
		analyticsSubs: make(map[string][]func(json.RawMessage)),
	}
}

// Initialize loads the inbox and opens the realtime channel. Calling it again
// is a no-op unless force is set, which tears down any existing connection
// and starts over. A failed socket connect is not an error: the client stays
// usable in polling mode.
func (c *Client) Initialize(ctx context.Context, force bool) error {
	c.mu.Lock()
	if c.initialized && !force {
		c.mu.Unlock()
		return nil
	}
	// Retire the previous generation. Its read loop sees the close error,
	// notices it is stale and exits without redialing.
	c.gen++
	gen := c.gen
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.pollingOnly = false
	c.mu.Unlock()

	if _, err := c.FetchNotifications(ctx); err != nil {
		return err
	}

	conn, err := c.connectSocket()
	if err != nil {
		c.log.Warn("realtime connect failed, polling only", zap.Error(err))
		c.setPollingOnly(gen)
	} else if c.adoptConn(conn, gen) {
		go c.readLoop(conn, gen)
	} else {
		conn.Close()
	}

	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()
	return nil
}

// adoptConn installs conn as the live connection, unless the generation has
// moved on in the meantime.
func (c *Client) adoptConn(conn *websocket.Conn, gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.conn = conn
	return true
}

func (c *Client) currentGen(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

// PollingOnly reports whether the client has no live realtime channel.
func (c *Client) PollingOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pollingOnly
}

// Notifications returns the cached inbox and unread count. Call
// FetchNotifications to refresh from the server.
func (c *Client) Notifications() ([]models.NotificationView, int64) {
	return c.cache.snapshot()
}

// OnNotification registers a handler for freshly pushed notifications. The
// cache is already updated when the handler runs.
func (c *Client) OnNotification(fn func(models.NotificationPush)) {
	c.handlersMu.Lock()
	c.onNotification = fn
	c.handlersMu.Unlock()
}

// OnListingView registers a handler for live view-count pushes. Only listing
// owners receive these.
func (c *Client) OnListingView(fn func(ListingViewEvent)) {
	c.handlersMu.Lock()
	c.onListingView = fn
	c.handlersMu.Unlock()
}

// SubscribeAnalytics registers a handler for a listing's live counter
// updates. The raw payload carries a type discriminator and the changed
// totals.
func (c *Client) SubscribeAnalytics(listingID string, fn func(json.RawMessage)) {
	topic := analytics.Topic(listingID)
	c.handlersMu.Lock()
	c.analyticsSubs[topic] = append(c.analyticsSubs[topic], fn)
	c.handlersMu.Unlock()
}

func (c *Client) notificationHandler() func(models.NotificationPush) {
	c.handlersMu.RLock()
	defer c.handlersMu.RUnlock()
	return c.onNotification
}

func (c *Client) listingViewHandler() func(ListingViewEvent) {
	c.handlersMu.RLock()
	defer c.handlersMu.RUnlock()
	return c.onListingView
}

func (c *Client) analyticsHandlers(topic string) []func(json.RawMessage) {
	c.handlersMu.RLock()
	defer c.handlersMu.RUnlock()
	return c.analyticsSubs[topic]
}

// HandleClick marks the notification read when needed and resolves where the
// caller should navigate. The mark-read is confirmed server-side before the
// cache changes; a failure still returns the target so navigation proceeds.
func (c *Client) HandleClick(ctx context.Context, n models.NotificationView) NavigationTarget {
	if !n.Read {
		if _, err := c.MarkAsRead(ctx, n.ID); err != nil {
			c.log.Warn("failed to mark notification read on click",
				zap.String("notificationId", n.ID), zap.Error(err))
		}
	}

	target := NavigationTarget{Path: n.ActionURL}
	if target.Path == "" && n.RelatedListing != nil {
		target.Path = "/listings/" + n.RelatedListing.ID
	}
	if n.Type == models.NotificationReview {
		target.ScrollToReviews = true
	}
	return target
}

// Close tears down the realtime channel. The client is not reusable after.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	if c.conn != nil {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.conn.Close()
		c.conn = nil
	}
}
