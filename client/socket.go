package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"wanderlust/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxReconnectAttempts = 5
	reconnectBaseDelay   = time.Second
)

// wireEvent mirrors the server's push envelope.
type wireEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// socketURL derives the WebSocket endpoint from the REST base URL.
func (c *Client) socketURL() (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"token": {c.cfg.Token}}.Encode()
	return u.String(), nil
}

// connectSocket dials the realtime endpoint within the configured timeout.
func (c *Client) connectSocket() (*websocket.Conn, error) {
	target, err := c.socketURL()
	if err != nil {
		return nil, err
	}
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.ConnectTimeout}
	conn, _, err := dialer.Dial(target, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// readLoop consumes pushes until the connection dies, then decides whether
// the disconnect is worth a reconnect. A stale generation (the connection
// was replaced by a forced re-initialize) exits quietly; auth rejections and
// deliberate closes are terminal; transport hiccups are retried with
// backoff, and once the retries are spent the client degrades to polling.
func (c *Client) readLoop(conn *websocket.Conn, gen int) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			if !c.currentGen(gen) {
				return
			}
			if terminalDisconnect(err) {
				c.log.Info("realtime connection closed", zap.Error(err))
				c.setPollingOnly(gen)
				return
			}
			c.log.Warn("realtime connection lost, reconnecting", zap.Error(err))
			c.reconnect(gen)
			return
		}
		c.dispatch(message)
	}
}

// terminalDisconnect reports whether the close reason rules out a retry.
func terminalDisconnect(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.ClosePolicyViolation,
		websocket.CloseUnsupportedData,
	)
}

func (c *Client) reconnect(gen int) {
	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		select {
		case <-c.done:
			return
		case <-time.After(time.Duration(attempt) * reconnectBaseDelay):
		}
		if !c.currentGen(gen) {
			return
		}

		conn, err := c.connectSocket()
		if err != nil {
			c.log.Warn("realtime reconnect failed",
				zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		if !c.adoptConn(conn, gen) {
			conn.Close()
			return
		}

		c.log.Info("realtime connection restored", zap.Int("attempt", attempt))
		go c.readLoop(conn, gen)
		// Pushes sent during the outage are gone; reconcile the cache
		// against the store.
		c.resync()
		return
	}
	c.log.Warn("realtime reconnects exhausted, falling back to polling")
	c.setPollingOnly(gen)
}

// resync refreshes the inbox after an outage window so notifications created
// while the socket was down still land in the cache.
func (c *Client) resync() {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ConnectTimeout)
	defer cancel()
	if _, err := c.FetchNotifications(ctx); err != nil {
		c.log.Warn("failed to refresh notifications after reconnect", zap.Error(err))
	}
}

// setPollingOnly flags the client as degraded, unless a newer generation has
// already taken over.
func (c *Client) setPollingOnly(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.pollingOnly = true
	c.conn = nil
}

// dispatch routes one push to the cache and any registered handlers.
func (c *Client) dispatch(message []byte) {
	var ev wireEvent
	if err := json.Unmarshal(message, &ev); err != nil {
		c.log.Warn("unparseable realtime event", zap.Error(err))
		return
	}

	switch {
	case ev.Event == "new_notification":
		var payload struct {
			Notification models.NotificationPush `json:"notification"`
		}
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			c.log.Warn("bad new_notification payload", zap.Error(err))
			return
		}
		c.cache.prepend(payload.Notification)
		if fn := c.notificationHandler(); fn != nil {
			fn(payload.Notification)
		}

	case ev.Event == "notification_update":
		var payload struct {
			Type           string `json:"type"`
			NotificationID string `json:"notificationId"`
		}
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			c.log.Warn("bad notification_update payload", zap.Error(err))
			return
		}
		if payload.Type == "READ" {
			c.cache.markRead(payload.NotificationID)
		}

	case ev.Event == "listing_view":
		var payload ListingViewEvent
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			c.log.Warn("bad listing_view payload", zap.Error(err))
			return
		}
		if fn := c.listingViewHandler(); fn != nil {
			fn(payload)
		}

	case strings.HasPrefix(ev.Event, "analytics-"):
		for _, fn := range c.analyticsHandlers(ev.Event) {
			fn(ev.Data)
		}
	}
}
