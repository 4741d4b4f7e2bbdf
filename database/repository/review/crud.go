package reviewRepo

import (
	"context"
	"errors"
	"time"

	"wanderlust/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new review and returns it.
func (r *mongoReviewRepo) Create(ctx context.Context, review models.Review) (*models.Review, error) {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *mongoReviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *mongoReviewRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("review not found")
	}
	return nil
}

func (r *mongoReviewRepo) HasReviewed(ctx context.Context, listingID, userID string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"listing": listingID,
		"owner":   userID,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
