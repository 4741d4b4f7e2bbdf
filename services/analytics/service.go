package analytics

import (
	"context"
	"errors"
	"fmt"

	"wanderlust/models"
	"wanderlust/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RecordView bumps the view counters and fans the new totals out: a
// VIEW_UPDATE on the listing's public topic for anyone watching the page,
// and a listing_view push to the owner's room.
func (s *DefaultAnalyticsService) RecordView(ctx context.Context, listingID string) (*models.Analytics, error) {
	ownerID, _, err := s.Listings.GetOwnerAndTitle(ctx, listingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NotFoundError{Msg: "listing not found"}
		}
		return nil, fmt.Errorf("failed to resolve listing: %w", err)
	}

	updated, err := s.Repo.IncrementView(ctx, listingID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to record view: %w", err)
	}

	var recent interface{}
	if n := len(updated.Views.History); n > 0 {
		recent = updated.Views.History[n-1]
	}
	s.Emitter.EmitBroadcast(Topic(listingID), map[string]interface{}{
		"type": TypeViewUpdate,
		"data": map[string]interface{}{
			"total":  updated.Views.Total,
			"recent": recent,
		},
	})

	s.Notifier.NotifyView(ctx, updated.Owner, listingID, updated.Views.Total)

	return updated, nil
}

// ReviewAdded folds a new rating into the listing's counters and broadcasts
// the updated totals. Called after the review itself committed; errors are
// logged, never returned.
func (s *DefaultAnalyticsService) ReviewAdded(ctx context.Context, listingID string, rating int) {
	updated, err := s.Repo.AddReview(ctx, listingID, rating)
	if err != nil {
		utils.GetLogger().Error("failed to update review analytics",
			zap.String("listing", listingID), zap.Error(err))
		return
	}
	if updated == nil {
		// No analytics document yet: the listing has never been viewed.
		return
	}
	s.Emitter.EmitBroadcast(Topic(listingID), map[string]interface{}{
		"type": TypeReviewAdded,
		"data": map[string]interface{}{
			"totalReviews":  updated.Reviews.Total,
			"averageRating": updated.Reviews.AverageRating,
		},
	})
}

// ReviewRemoved backs a deleted rating out of the counters.
func (s *DefaultAnalyticsService) ReviewRemoved(ctx context.Context, listingID string, rating int) {
	updated, err := s.Repo.RemoveReview(ctx, listingID, rating)
	if err != nil {
		utils.GetLogger().Error("failed to update review analytics",
			zap.String("listing", listingID), zap.Error(err))
		return
	}
	if updated == nil {
		return
	}
	s.Emitter.EmitBroadcast(Topic(listingID), map[string]interface{}{
		"type": TypeReviewRemoved,
		"data": map[string]interface{}{
			"totalReviews":  updated.Reviews.Total,
			"averageRating": updated.Reviews.AverageRating,
		},
	})
}

// BookmarkAdded bumps the engagement counter and broadcasts the new total.
func (s *DefaultAnalyticsService) BookmarkAdded(ctx context.Context, listingID string) {
	s.adjustBookmarks(ctx, listingID, 1)
}

// BookmarkRemoved decrements the engagement counter.
func (s *DefaultAnalyticsService) BookmarkRemoved(ctx context.Context, listingID string) {
	s.adjustBookmarks(ctx, listingID, -1)
}

func (s *DefaultAnalyticsService) adjustBookmarks(ctx context.Context, listingID string, delta int64) {
	updated, err := s.Repo.IncrementBookmarks(ctx, listingID, delta)
	if err != nil {
		utils.GetLogger().Error("failed to update bookmark analytics",
			zap.String("listing", listingID), zap.Error(err))
		return
	}
	if updated == nil {
		return
	}
	s.Emitter.EmitBroadcast(Topic(listingID), map[string]interface{}{
		"type": TypeBookmarks,
		"data": map[string]interface{}{
			"bookmarks": updated.Engagement.Bookmarks,
		},
	})
}

// OwnerSummary aggregates per-listing stats for everything the user owns,
// with listing titles resolved for display.
func (s *DefaultAnalyticsService) OwnerSummary(ctx context.Context, ownerID string) (*models.OwnerAnalytics, error) {
	docs, err := s.Repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch analytics: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, a := range docs {
		ids = append(ids, a.Listing)
	}
	titles, err := s.Listings.GetSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve listing titles: %w", err)
	}

	summary := &models.OwnerAnalytics{
		ListingStats: make([]models.ListingStats, 0, len(docs)),
	}
	var ratingSum float64
	for _, a := range docs {
		summary.TotalViews += a.Views.Total
		summary.TotalReviews += a.Reviews.Total
		ratingSum += a.Reviews.AverageRating * float64(a.Reviews.Total)

		stats := models.ListingStats{
			ListingID:  a.Listing,
			Views:      a.Views.Total,
			Reviews:    a.Reviews.Total,
			Rating:     a.Reviews.AverageRating,
			Engagement: a.Engagement,
		}
		if t, ok := titles[a.Listing]; ok {
			stats.Title = t.Title
		}
		summary.ListingStats = append(summary.ListingStats, stats)
	}
	if summary.TotalReviews > 0 {
		summary.AverageRating = ratingSum / float64(summary.TotalReviews)
	}
	return summary, nil
}
