package reviewRepo

import (
	"context"

	"wanderlust/database"
	"wanderlust/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewRepository interface {
	Create(ctx context.Context, review models.Review) (*models.Review, error)
	GetByID(ctx context.Context, id string) (*models.Review, error)
	DeleteByID(ctx context.Context, id string) error
	// HasReviewed reports whether the user already reviewed the listing.
	HasReviewed(ctx context.Context, listingID, userID string) (bool, error)
}

type mongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo returns a ReviewRepository backed by MongoDB.
func NewMongoReviewRepo() ReviewRepository {
	return &mongoReviewRepo{
		coll: database.DB().Collection("reviews"),
	}
}
