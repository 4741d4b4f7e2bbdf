package analyticsRepo

import (
	"context"
	"time"

	"wanderlust/database"
	"wanderlust/models"
	"wanderlust/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type AnalyticsRepository interface {
	// IncrementView bumps the view counter for a listing, creating the
	// analytics document on first view, and returns the updated document.
	IncrementView(ctx context.Context, listingID, ownerID string) (*models.Analytics, error)
	GetByListing(ctx context.Context, listingID string) (*models.Analytics, error)
	GetByOwner(ctx context.Context, ownerID string) ([]models.Analytics, error)
	// AddReview / RemoveReview maintain the review total and running
	// average for a listing.
	AddReview(ctx context.Context, listingID string, rating int) (*models.Analytics, error)
	RemoveReview(ctx context.Context, listingID string, rating int) (*models.Analytics, error)
	IncrementBookmarks(ctx context.Context, listingID string, delta int64) (*models.Analytics, error)
	// TrimViewHistory drops per-view history entries older than the cutoff.
	// Totals are unaffected; used by the background rollup job.
	TrimViewHistory(ctx context.Context, cutoff time.Time) (int64, error)
}

type mongoAnalyticsRepo struct {
	coll *mongo.Collection
}

// NewMongoAnalyticsRepo returns an AnalyticsRepository backed by MongoDB.
func NewMongoAnalyticsRepo() AnalyticsRepository {
	r := &mongoAnalyticsRepo{
		coll: database.DB().Collection("analytics"),
	}
	if err := r.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("analytics index creation failed", zap.Error(err))
	}
	return r
}
