package userRepo

import (
	"context"

	"wanderlust/database"
	"wanderlust/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository covers the slice of the users collection this service
// touches: display projections and the bookmark list. Account management
// lives in the user service.
type UserRepository interface {
	GetSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error)
	// AddBookmark appends the listing id to the user's bookmark set.
	// Returns false when it was already bookmarked.
	AddBookmark(ctx context.Context, userID, listingID string) (bool, error)
	// RemoveBookmark drops the listing id from the user's bookmark set.
	// Returns false when no such bookmark existed.
	RemoveBookmark(ctx context.Context, userID, listingID string) (bool, error)
	GetBookmarkIDs(ctx context.Context, userID string) ([]string, error)
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo returns a UserRepository backed by MongoDB.
func NewMongoUserRepo() UserRepository {
	return &mongoUserRepo{
		coll: database.DB().Collection("users"),
	}
}
