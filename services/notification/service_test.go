package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	notificationRepo "wanderlust/database/repository/notification"
	"wanderlust/models"
	"wanderlust/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeNotificationRepo struct {
	byID      map[string]*models.Notification
	nextID    int
	createErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{byID: make(map[string]*models.Notification)}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n models.Notification) (*models.Notification, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	n.ID = fmt.Sprintf("n%d", r.nextID)
	n.Read = false
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	stored := n
	r.byID[n.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*models.Notification, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := *n
	return &out, nil
}

func (r *fakeNotificationRepo) GetByRecipient(_ context.Context, recipient string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.byID {
		if n.Recipient == recipient {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, recipient string) (*models.Notification, error) {
	n, ok := r.byID[id]
	if !ok || n.Recipient != recipient || n.Read {
		return nil, notificationRepo.ErrNoUnreadMatch
	}
	n.Read = true
	n.UpdatedAt = time.Now()
	out := *n
	return &out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, recipient string) (int64, error) {
	var count int64
	for _, n := range r.byID {
		if n.Recipient == recipient && !n.Read {
			count++
		}
	}
	return count, nil
}

type emittedEvent struct {
	userID  string
	event   string
	payload interface{}
}

type recordingEmitter struct {
	toUser    []emittedEvent
	broadcast []emittedEvent
}

func (e *recordingEmitter) EmitToUser(userID, event string, payload interface{}) {
	e.toUser = append(e.toUser, emittedEvent{userID: userID, event: event, payload: payload})
}

func (e *recordingEmitter) EmitBroadcast(event string, payload interface{}) {
	e.broadcast = append(e.broadcast, emittedEvent{event: event, payload: payload})
}

type fakeListingRepo struct {
	summaries map[string]models.ListingSummary
	owners    map[string]string
}

func (r *fakeListingRepo) GetOwnerAndTitle(_ context.Context, listingID string) (string, string, error) {
	owner, ok := r.owners[listingID]
	if !ok {
		return "", "", mongo.ErrNoDocuments
	}
	return owner, r.summaries[listingID].Title, nil
}

func (r *fakeListingRepo) GetSummaries(_ context.Context, ids []string) (map[string]models.ListingSummary, error) {
	out := make(map[string]models.ListingSummary)
	for _, id := range ids {
		if s, ok := r.summaries[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	summaries map[string]models.UserSummary
}

func (r *fakeUserRepo) GetSummaries(_ context.Context, ids []string) (map[string]models.UserSummary, error) {
	out := make(map[string]models.UserSummary)
	for _, id := range ids {
		if s, ok := r.summaries[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (r *fakeUserRepo) AddBookmark(context.Context, string, string) (bool, error)    { return false, nil }
func (r *fakeUserRepo) RemoveBookmark(context.Context, string, string) (bool, error) { return false, nil }
func (r *fakeUserRepo) GetBookmarkIDs(context.Context, string) ([]string, error)     { return nil, nil }

func newTestService() (*DefaultNotificationService, *fakeNotificationRepo, *recordingEmitter) {
	repo := newFakeNotificationRepo()
	emitter := &recordingEmitter{}
	svc := &DefaultNotificationService{
		Repo: repo,
		Listings: &fakeListingRepo{
			summaries: map[string]models.ListingSummary{
				"l1": {ID: "l1", Title: "Beach House"},
			},
			owners: map[string]string{"l1": "owner1"},
		},
		Users: &fakeUserRepo{
			summaries: map[string]models.UserSummary{
				"u2": {ID: "u2", Name: "Taylor"},
			},
		},
		Emitter: emitter,
	}
	return svc, repo, emitter
}

func TestNotifyRejectsMissingFields(t *testing.T) {
	svc, _, emitter := newTestService()

	_, err := svc.Notify(context.Background(), CreateInput{
		Recipient: "u1",
		Type:      models.NotificationSystem,
		Title:     "Welcome",
	})
	var validationErr utils.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, emitter.toUser)
}

func TestNotifyRejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Notify(context.Background(), CreateInput{
		Recipient: "u1",
		Type:      "SHOUTING",
		Title:     "Hello",
		Message:   "there",
	})
	var validationErr utils.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestNotifyStoresThenPushes(t *testing.T) {
	svc, repo, emitter := newTestService()

	created, err := svc.Notify(context.Background(), CreateInput{
		Recipient:      "u1",
		Type:           models.NotificationReview,
		Title:          "New Review Received",
		Message:        "Your listing got a review",
		RelatedListing: "l1",
		RelatedUser:    "u2",
	})
	require.NoError(t, err)
	assert.False(t, created.Read)
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, repo.byID, created.ID)

	require.Len(t, emitter.toUser, 1)
	ev := emitter.toUser[0]
	assert.Equal(t, "u1", ev.userID)
	assert.Equal(t, EventNewNotification, ev.event)
	payload, ok := ev.payload.(map[string]interface{})
	require.True(t, ok)
	push, ok := payload["notification"].(models.NotificationPush)
	require.True(t, ok)
	assert.Equal(t, created.ID, push.ID)
	assert.Equal(t, models.NotificationReview, push.Type)
}

func TestNotifyStorageFailureMeansNoPush(t *testing.T) {
	svc, repo, emitter := newTestService()
	repo.createErr = errors.New("mongo down")

	_, err := svc.Notify(context.Background(), CreateInput{
		Recipient: "u1",
		Type:      models.NotificationSystem,
		Title:     "Welcome",
		Message:   "hello",
	})
	require.Error(t, err)
	assert.Empty(t, emitter.toUser)
}

func TestMarkAsReadFlipsOnceAndPushesUpdate(t *testing.T) {
	svc, _, emitter := newTestService()
	created, err := svc.Notify(context.Background(), CreateInput{
		Recipient: "u1",
		Type:      models.NotificationBooking,
		Title:     "Booking",
		Message:   "confirmed",
	})
	require.NoError(t, err)
	emitter.toUser = nil

	updated, alreadyRead, err := svc.MarkAsRead(context.Background(), created.ID, "u1")
	require.NoError(t, err)
	assert.False(t, alreadyRead)
	assert.True(t, updated.Read)

	require.Len(t, emitter.toUser, 1)
	assert.Equal(t, EventNotificationUpdate, emitter.toUser[0].event)
	payload, ok := emitter.toUser[0].payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "READ", payload["type"])
	assert.Equal(t, created.ID, payload["notificationId"])
}

func TestMarkAsReadRepeatIsIdempotent(t *testing.T) {
	svc, _, emitter := newTestService()
	created, err := svc.Notify(context.Background(), CreateInput{
		Recipient: "u1",
		Type:      models.NotificationBooking,
		Title:     "Booking",
		Message:   "confirmed",
	})
	require.NoError(t, err)

	_, _, err = svc.MarkAsRead(context.Background(), created.ID, "u1")
	require.NoError(t, err)
	emitter.toUser = nil

	repeat, alreadyRead, err := svc.MarkAsRead(context.Background(), created.ID, "u1")
	require.NoError(t, err)
	assert.True(t, alreadyRead)
	assert.True(t, repeat.Read)
	assert.Empty(t, emitter.toUser, "a repeat mark-read must not push")

	count, err := svc.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAsReadForeignRecipientForbidden(t *testing.T) {
	svc, _, _ := newTestService()
	created, err := svc.Notify(context.Background(), CreateInput{
		Recipient: "u1",
		Type:      models.NotificationSystem,
		Title:     "Welcome",
		Message:   "hello",
	})
	require.NoError(t, err)

	_, _, err = svc.MarkAsRead(context.Background(), created.ID, "intruder")
	var forbiddenErr utils.ForbiddenError
	require.ErrorAs(t, err, &forbiddenErr)
}

func TestMarkAsReadUnknownNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.MarkAsRead(context.Background(), "missing", "u1")
	var notFoundErr utils.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestUnreadCountTracksMarkRead(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		created, err := svc.Notify(ctx, CreateInput{
			Recipient: "u1",
			Type:      models.NotificationSystem,
			Title:     "Welcome",
			Message:   "hello",
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	_, _, err = svc.MarkAsRead(ctx, ids[0], "u1")
	require.NoError(t, err)

	count, err = svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestListForRecipientResolvesReferences(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Notify(ctx, CreateInput{
		Recipient:      "u1",
		Type:           models.NotificationReview,
		Title:          "New Review Received",
		Message:        "5 stars",
		RelatedListing: "l1",
		RelatedUser:    "u2",
	})
	require.NoError(t, err)
	_, err = svc.Notify(ctx, CreateInput{
		Recipient: "u1",
		Type:      models.NotificationSystem,
		Title:     "Welcome",
		Message:   "hello",
	})
	require.NoError(t, err)

	views, err := svc.ListForRecipient(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, views, 2)

	var reviewView *models.NotificationView
	for i := range views {
		if views[i].Type == models.NotificationReview {
			reviewView = &views[i]
		}
	}
	require.NotNil(t, reviewView)
	require.NotNil(t, reviewView.RelatedListing)
	assert.Equal(t, "Beach House", reviewView.RelatedListing.Title)
	require.NotNil(t, reviewView.RelatedUser)
	assert.Equal(t, "Taylor", reviewView.RelatedUser.Name)
}

func TestNotifyReviewSwallowsFailures(t *testing.T) {
	svc, repo, emitter := newTestService()
	repo.createErr = errors.New("mongo down")

	svc.NotifyReview(context.Background(), "owner1", "l1", "u2", 5, "Beach House")

	assert.Empty(t, emitter.toUser)
}

func TestNotifyReviewRecordsAndPushes(t *testing.T) {
	svc, repo, emitter := newTestService()

	svc.NotifyReview(context.Background(), "owner1", "l1", "u2", 4, "Beach House")

	require.Len(t, repo.byID, 1)
	for _, n := range repo.byID {
		assert.Equal(t, models.NotificationReview, n.Type)
		assert.Equal(t, "owner1", n.Recipient)
		assert.Contains(t, n.Message, "4-star")
	}
	require.Len(t, emitter.toUser, 1)
	assert.Equal(t, EventNewNotification, emitter.toUser[0].event)
}

func TestNotifyViewIsEphemeral(t *testing.T) {
	svc, repo, emitter := newTestService()

	svc.NotifyView(context.Background(), "owner1", "l1", 42)

	assert.Empty(t, repo.byID, "view events must not be persisted")
	require.Len(t, emitter.toUser, 1)
	ev := emitter.toUser[0]
	assert.Equal(t, "owner1", ev.userID)
	assert.Equal(t, EventListingView, ev.event)
	payload, ok := ev.payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "l1", payload["listingId"])
	assert.EqualValues(t, 42, payload["viewCount"])
}

func TestNotifyViewSkipsUnknownOwner(t *testing.T) {
	svc, _, emitter := newTestService()

	svc.NotifyView(context.Background(), "", "l1", 42)

	assert.Empty(t, emitter.toUser)
}
