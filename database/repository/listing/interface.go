package listingRepo

import (
	"context"

	"wanderlust/database"
	"wanderlust/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ListingRepository reads the projection of listings this service needs.
// Listing CRUD itself belongs to the listing service.
type ListingRepository interface {
	// GetOwnerAndTitle resolves the fields the notification adapters need.
	GetOwnerAndTitle(ctx context.Context, listingID string) (ownerID, title string, err error)
	// GetSummaries resolves display projections for a set of listing ids.
	GetSummaries(ctx context.Context, ids []string) (map[string]models.ListingSummary, error)
}

type mongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo returns a read-only listing projection repository.
func NewMongoListingRepo() ListingRepository {
	return &mongoListingRepo{
		coll: database.DB().Collection("listings"),
	}
}
