package client

import (
	"testing"
	"time"

	"wanderlust/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheReplaceInstallsSnapshot(t *testing.T) {
	c := &notificationCache{}
	assert.False(t, c.isLoaded())

	c.replace([]models.NotificationView{{ID: "n1"}, {ID: "n2", Read: true}}, 1)

	items, unread := c.snapshot()
	assert.Len(t, items, 2)
	assert.EqualValues(t, 1, unread)
	assert.True(t, c.isLoaded())
}

func TestCachePrependPutsNewestFirst(t *testing.T) {
	c := &notificationCache{}
	c.replace([]models.NotificationView{{ID: "n1"}}, 1)

	c.prepend(models.NotificationPush{
		ID:        "n2",
		Type:      models.NotificationReview,
		Title:     "New Review Received",
		CreatedAt: time.Now(),
	})

	items, unread := c.snapshot()
	require.Len(t, items, 2)
	assert.Equal(t, "n2", items[0].ID)
	assert.False(t, items[0].Read)
	assert.EqualValues(t, 2, unread)
}

func TestCachePrependIgnoresDuplicatePush(t *testing.T) {
	c := &notificationCache{}
	c.prepend(models.NotificationPush{ID: "n1"})
	c.prepend(models.NotificationPush{ID: "n1"})

	items, unread := c.snapshot()
	assert.Len(t, items, 1)
	assert.EqualValues(t, 1, unread)
}

func TestCacheMarkReadDecrementsOnce(t *testing.T) {
	c := &notificationCache{}
	c.replace([]models.NotificationView{{ID: "n1"}, {ID: "n2"}}, 2)

	c.markRead("n1")
	items, unread := c.snapshot()
	assert.True(t, items[0].Read)
	assert.EqualValues(t, 1, unread)

	// A repeat (e.g. the server's own READ push arriving after a local
	// mark-read) must not decrement again.
	c.markRead("n1")
	_, unread = c.snapshot()
	assert.EqualValues(t, 1, unread)
}

func TestCacheMarkReadUnknownIDIsNoOp(t *testing.T) {
	c := &notificationCache{}
	c.replace([]models.NotificationView{{ID: "n1"}}, 1)

	c.markRead("ghost")

	_, unread := c.snapshot()
	assert.EqualValues(t, 1, unread)
}

func TestCacheUnreadFloorsAtZero(t *testing.T) {
	c := &notificationCache{}
	// A stale snapshot can undercount; flipping more entries than the
	// counter holds must not go negative.
	c.replace([]models.NotificationView{{ID: "n1"}, {ID: "n2"}}, 1)

	c.markRead("n1")
	c.markRead("n2")

	_, unread := c.snapshot()
	assert.EqualValues(t, 0, unread)
}

func TestCacheSnapshotIsACopy(t *testing.T) {
	c := &notificationCache{}
	c.replace([]models.NotificationView{{ID: "n1"}}, 1)

	items, _ := c.snapshot()
	items[0].Read = true

	fresh, _ := c.snapshot()
	assert.False(t, fresh[0].Read)
}
