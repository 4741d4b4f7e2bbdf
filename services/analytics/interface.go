package analytics

import (
	"context"

	analyticsRepo "wanderlust/database/repository/analytics"
	listingRepo "wanderlust/database/repository/listing"
	"wanderlust/models"
	"wanderlust/services/notification"
)

// Broadcast payload types on a listing's analytics topic.
const (
	TypeViewUpdate    = "VIEW_UPDATE"
	TypeReviewAdded   = "REVIEW_ADDED"
	TypeReviewRemoved = "REVIEW_REMOVED"
	TypeBookmarks     = "BOOKMARK_UPDATE"
)

// Topic names the per-listing broadcast topic. Anyone viewing the listing's
// page subscribes to this event name for live counter updates.
func Topic(listingID string) string {
	return "analytics-" + listingID
}

// AnalyticsService maintains per-listing counters and fans live updates out
// to the listing's public topic and the owner's room. The counter mutations
// (ReviewAdded and friends) are side effects of other mutations: they log
// failures and never propagate them to the triggering handler.
type AnalyticsService interface {
	// RecordView bumps the listing's view counter, creating the analytics
	// document on first view, and pushes live updates.
	RecordView(ctx context.Context, listingID string) (*models.Analytics, error)
	ReviewAdded(ctx context.Context, listingID string, rating int)
	ReviewRemoved(ctx context.Context, listingID string, rating int)
	BookmarkAdded(ctx context.Context, listingID string)
	BookmarkRemoved(ctx context.Context, listingID string)
	// OwnerSummary aggregates stats across all listings the user owns.
	OwnerSummary(ctx context.Context, ownerID string) (*models.OwnerAnalytics, error)
}

// DefaultAnalyticsService is the production implementation.
type DefaultAnalyticsService struct {
	Repo     analyticsRepo.AnalyticsRepository
	Listings listingRepo.ListingRepository
	Notifier notification.NotificationService
	Emitter  notification.Emitter
}
