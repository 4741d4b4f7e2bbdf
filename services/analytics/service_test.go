package analytics

import (
	"context"
	"testing"
	"time"

	"wanderlust/models"
	"wanderlust/services/notification"
	"wanderlust/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeAnalyticsRepo struct {
	byListing map[string]*models.Analytics
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{byListing: make(map[string]*models.Analytics)}
}

func (r *fakeAnalyticsRepo) IncrementView(_ context.Context, listingID, ownerID string) (*models.Analytics, error) {
	a, ok := r.byListing[listingID]
	if !ok {
		a = &models.Analytics{ID: "a-" + listingID, Listing: listingID, Owner: ownerID}
		r.byListing[listingID] = a
	}
	a.Views.Total++
	a.Views.History = append(a.Views.History, models.ViewEntry{Timestamp: time.Now()})
	a.LastUpdated = time.Now()
	out := *a
	return &out, nil
}

func (r *fakeAnalyticsRepo) GetByListing(_ context.Context, listingID string) (*models.Analytics, error) {
	a, ok := r.byListing[listingID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := *a
	return &out, nil
}

func (r *fakeAnalyticsRepo) GetByOwner(_ context.Context, ownerID string) ([]models.Analytics, error) {
	var out []models.Analytics
	for _, a := range r.byListing {
		if a.Owner == ownerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAnalyticsRepo) AddReview(_ context.Context, listingID string, rating int) (*models.Analytics, error) {
	a, ok := r.byListing[listingID]
	if !ok {
		return nil, nil
	}
	sum := a.Reviews.AverageRating*float64(a.Reviews.Total) + float64(rating)
	a.Reviews.Total++
	a.Reviews.AverageRating = sum / float64(a.Reviews.Total)
	out := *a
	return &out, nil
}

func (r *fakeAnalyticsRepo) RemoveReview(_ context.Context, listingID string, rating int) (*models.Analytics, error) {
	a, ok := r.byListing[listingID]
	if !ok || a.Reviews.Total == 0 {
		return nil, nil
	}
	sum := a.Reviews.AverageRating*float64(a.Reviews.Total) - float64(rating)
	a.Reviews.Total--
	if a.Reviews.Total > 0 {
		a.Reviews.AverageRating = sum / float64(a.Reviews.Total)
	} else {
		a.Reviews.AverageRating = 0
	}
	out := *a
	return &out, nil
}

func (r *fakeAnalyticsRepo) IncrementBookmarks(_ context.Context, listingID string, delta int64) (*models.Analytics, error) {
	a, ok := r.byListing[listingID]
	if !ok {
		return nil, nil
	}
	a.Engagement.Bookmarks += delta
	if a.Engagement.Bookmarks < 0 {
		a.Engagement.Bookmarks = 0
	}
	out := *a
	return &out, nil
}

func (r *fakeAnalyticsRepo) TrimViewHistory(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type fakeListings struct {
	owners map[string]string
	titles map[string]string
}

func (r *fakeListings) GetOwnerAndTitle(_ context.Context, listingID string) (string, string, error) {
	owner, ok := r.owners[listingID]
	if !ok {
		return "", "", mongo.ErrNoDocuments
	}
	return owner, r.titles[listingID], nil
}

func (r *fakeListings) GetSummaries(_ context.Context, ids []string) (map[string]models.ListingSummary, error) {
	out := make(map[string]models.ListingSummary)
	for _, id := range ids {
		if title, ok := r.titles[id]; ok {
			out[id] = models.ListingSummary{ID: id, Title: title}
		}
	}
	return out, nil
}

type viewPush struct {
	ownerID   string
	listingID string
	total     int64
}

// fakeNotifier records the owner pushes; the durable-store methods are never
// exercised by the analytics service.
type fakeNotifier struct {
	views []viewPush
}

func (f *fakeNotifier) Notify(context.Context, notification.CreateInput) (*models.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) ListForRecipient(context.Context, string) ([]models.NotificationView, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkAsRead(context.Context, string, string) (*models.Notification, bool, error) {
	return nil, false, nil
}

func (f *fakeNotifier) UnreadCount(context.Context, string) (int64, error) { return 0, nil }

func (f *fakeNotifier) NotifyReview(context.Context, string, string, string, int, string) {}

func (f *fakeNotifier) NotifyView(_ context.Context, ownerID, listingID string, totalViews int64) {
	f.views = append(f.views, viewPush{ownerID: ownerID, listingID: listingID, total: totalViews})
}

type broadcastEvent struct {
	event   string
	payload interface{}
}

type fakeEmitter struct {
	broadcasts []broadcastEvent
}

func (e *fakeEmitter) EmitToUser(string, string, interface{}) {}

func (e *fakeEmitter) EmitBroadcast(event string, payload interface{}) {
	e.broadcasts = append(e.broadcasts, broadcastEvent{event: event, payload: payload})
}

func newTestAnalytics() (*DefaultAnalyticsService, *fakeAnalyticsRepo, *fakeNotifier, *fakeEmitter) {
	repo := newFakeAnalyticsRepo()
	notifier := &fakeNotifier{}
	emitter := &fakeEmitter{}
	svc := &DefaultAnalyticsService{
		Repo: repo,
		Listings: &fakeListings{
			owners: map[string]string{"l1": "owner1"},
			titles: map[string]string{"l1": "Beach House"},
		},
		Notifier: notifier,
		Emitter:  emitter,
	}
	return svc, repo, notifier, emitter
}

func TestRecordViewUnknownListing(t *testing.T) {
	svc, _, _, _ := newTestAnalytics()

	_, err := svc.RecordView(context.Background(), "ghost")
	var notFoundErr utils.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestRecordViewCountsAndFansOut(t *testing.T) {
	svc, _, notifier, emitter := newTestAnalytics()
	ctx := context.Background()

	first, err := svc.RecordView(ctx, "l1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.Views.Total)
	assert.Equal(t, "owner1", first.Owner)

	second, err := svc.RecordView(ctx, "l1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.Views.Total)

	require.Len(t, emitter.broadcasts, 2)
	assert.Equal(t, Topic("l1"), emitter.broadcasts[0].event)
	payload, ok := emitter.broadcasts[1].payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, TypeViewUpdate, payload["type"])

	require.Len(t, notifier.views, 2)
	assert.Equal(t, viewPush{ownerID: "owner1", listingID: "l1", total: 2}, notifier.views[1])
}

func TestReviewAddedUpdatesAverage(t *testing.T) {
	svc, repo, _, emitter := newTestAnalytics()
	ctx := context.Background()

	_, err := svc.RecordView(ctx, "l1")
	require.NoError(t, err)
	emitter.broadcasts = nil

	svc.ReviewAdded(ctx, "l1", 4)
	svc.ReviewAdded(ctx, "l1", 2)

	a := repo.byListing["l1"]
	assert.EqualValues(t, 2, a.Reviews.Total)
	assert.InDelta(t, 3.0, a.Reviews.AverageRating, 0.001)

	require.Len(t, emitter.broadcasts, 2)
	payload, ok := emitter.broadcasts[1].payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, TypeReviewAdded, payload["type"])
}

func TestReviewAddedSkipsNeverViewedListing(t *testing.T) {
	svc, _, _, emitter := newTestAnalytics()

	svc.ReviewAdded(context.Background(), "l1", 5)

	assert.Empty(t, emitter.broadcasts)
}

func TestReviewRemovedBacksOutRating(t *testing.T) {
	svc, repo, _, _ := newTestAnalytics()
	ctx := context.Background()

	_, err := svc.RecordView(ctx, "l1")
	require.NoError(t, err)
	svc.ReviewAdded(ctx, "l1", 4)
	svc.ReviewAdded(ctx, "l1", 2)

	svc.ReviewRemoved(ctx, "l1", 2)

	a := repo.byListing["l1"]
	assert.EqualValues(t, 1, a.Reviews.Total)
	assert.InDelta(t, 4.0, a.Reviews.AverageRating, 0.001)
}

func TestBookmarkCounterFloorsAtZero(t *testing.T) {
	svc, repo, _, emitter := newTestAnalytics()
	ctx := context.Background()

	_, err := svc.RecordView(ctx, "l1")
	require.NoError(t, err)
	emitter.broadcasts = nil

	svc.BookmarkAdded(ctx, "l1")
	svc.BookmarkRemoved(ctx, "l1")
	svc.BookmarkRemoved(ctx, "l1")

	assert.EqualValues(t, 0, repo.byListing["l1"].Engagement.Bookmarks)
	require.Len(t, emitter.broadcasts, 3)
	payload, ok := emitter.broadcasts[0].payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, TypeBookmarks, payload["type"])
}

func TestOwnerSummaryAggregates(t *testing.T) {
	svc, repo, _, _ := newTestAnalytics()
	ctx := context.Background()

	repo.byListing["l1"] = &models.Analytics{
		Listing: "l1", Owner: "owner1",
		Views:   models.ViewStats{Total: 10},
		Reviews: models.ReviewStats{Total: 2, AverageRating: 4.0},
	}
	repo.byListing["l2"] = &models.Analytics{
		Listing: "l2", Owner: "owner1",
		Views:   models.ViewStats{Total: 5},
		Reviews: models.ReviewStats{Total: 1, AverageRating: 2.0},
	}
	repo.byListing["l3"] = &models.Analytics{
		Listing: "l3", Owner: "someoneElse",
		Views: models.ViewStats{Total: 99},
	}

	summary, err := svc.OwnerSummary(ctx, "owner1")
	require.NoError(t, err)
	assert.EqualValues(t, 15, summary.TotalViews)
	assert.EqualValues(t, 3, summary.TotalReviews)
	assert.InDelta(t, 10.0/3.0, summary.AverageRating, 0.001)
	assert.Len(t, summary.ListingStats, 2)
}
