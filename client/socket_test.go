package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"wanderlust/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiState backs a fake API server: a mutable inbox plus bookkeeping of
// socket dials and live server-side connections.
type apiState struct {
	mu    sync.Mutex
	dials int
	items []models.NotificationView
	conns []*websocket.Conn
}

func (s *apiState) dialCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dials
}

func (s *apiState) setItems(items []models.NotificationView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

func (s *apiState) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.conns {
		conn.Close()
	}
	s.conns = nil
}

func writeTestEnvelope(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "ok",
		"data":    data,
	})
}

func newAPIServer(st *apiState) *httptest.Server {
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		st.mu.Lock()
		st.dials++
		st.mu.Unlock()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		st.mu.Lock()
		st.conns = append(st.conns, conn)
		st.mu.Unlock()
	})
	mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
		st.mu.Lock()
		items := append([]models.NotificationView(nil), st.items...)
		st.mu.Unlock()
		writeTestEnvelope(w, items)
	})
	mux.HandleFunc("/api/notifications/unread-count", func(w http.ResponseWriter, r *http.Request) {
		st.mu.Lock()
		var unread int64
		for _, n := range st.items {
			if !n.Read {
				unread++
			}
		}
		st.mu.Unlock()
		writeTestEnvelope(w, map[string]int64{"unreadCount": unread})
	})
	return httptest.NewServer(mux)
}

func TestForcedReinitializeRetiresOldConnection(t *testing.T) {
	st := &apiState{items: []models.NotificationView{{ID: "n1"}}}
	srv := newAPIServer(st)
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: "tok"})
	defer c.Close()

	require.NoError(t, c.Initialize(context.Background(), false))
	require.NoError(t, c.Initialize(context.Background(), true))

	// The retired read loop sees its connection close; it must stand down,
	// not dial a replacement alongside the forced one.
	assert.Never(t, func() bool {
		return st.dialCount() > 2
	}, 1500*time.Millisecond, 50*time.Millisecond)
	assert.Equal(t, 2, st.dialCount())
	assert.False(t, c.PollingOnly())
}

func TestReinitializeIdempotentWithoutForce(t *testing.T) {
	st := &apiState{items: []models.NotificationView{{ID: "n1"}}}
	srv := newAPIServer(st)
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: "tok"})
	defer c.Close()

	require.NoError(t, c.Initialize(context.Background(), false))
	require.NoError(t, c.Initialize(context.Background(), false))

	assert.Equal(t, 1, st.dialCount())
}

func TestReconnectRefreshesMissedNotifications(t *testing.T) {
	st := &apiState{items: []models.NotificationView{{ID: "n1"}}}
	srv := newAPIServer(st)
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: "tok"})
	defer c.Close()

	require.NoError(t, c.Initialize(context.Background(), false))
	items, _ := c.Notifications()
	require.Len(t, items, 1)

	// A notification lands while the connection is down.
	st.setItems([]models.NotificationView{{ID: "n2"}, {ID: "n1"}})
	st.closeConns()

	require.Eventually(t, func() bool {
		items, _ := c.Notifications()
		return len(items) == 2
	}, 5*time.Second, 50*time.Millisecond, "missed notification never reconciled after reconnect")
	assert.GreaterOrEqual(t, st.dialCount(), 2)
	assert.False(t, c.PollingOnly())
}
