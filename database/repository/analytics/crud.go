package analyticsRepo

import (
	"context"
	"errors"
	"time"

	"wanderlust/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IncrementView upserts the listing's analytics document and bumps the view
// counters in one atomic update.
func (r *mongoAnalyticsRepo) IncrementView(ctx context.Context, listingID, ownerID string) (*models.Analytics, error) {
	now := time.Now()
	filter := bson.M{"listing": listingID}
	update := bson.M{
		"$inc": bson.M{"views.total": 1},
		"$push": bson.M{"views.history": models.ViewEntry{
			Timestamp: now,
			Count:     1,
		}},
		"$set": bson.M{"lastUpdated": now},
		// The listing field itself comes from the equality filter on upsert.
		"$setOnInsert": bson.M{
			"id":                    uuid.New().String(),
			"owner":                 ownerID,
			"reviews.total":         int64(0),
			"reviews.averageRating": float64(0),
			"engagement.bookmarks":  int64(0),
			"engagement.inquiries":  int64(0),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var updated models.Analytics
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *mongoAnalyticsRepo) GetByListing(ctx context.Context, listingID string) (*models.Analytics, error) {
	var a models.Analytics
	if err := r.coll.FindOne(ctx, bson.M{"listing": listingID}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *mongoAnalyticsRepo) GetByOwner(ctx context.Context, ownerID string) ([]models.Analytics, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lastUpdated", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"owner": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var analytics []models.Analytics
	if err := cursor.All(ctx, &analytics); err != nil {
		return nil, err
	}
	return analytics, nil
}

// AddReview folds a new rating into the listing's review total and running
// average. Read-modify-write: review counters tolerate last-writer-wins.
func (r *mongoAnalyticsRepo) AddReview(ctx context.Context, listingID string, rating int) (*models.Analytics, error) {
	a, err := r.GetByListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	total := a.Reviews.Total + 1
	sum := a.Reviews.AverageRating*float64(a.Reviews.Total) + float64(rating)
	average := sum / float64(total)

	return r.setReviewStats(ctx, listingID, total, average)
}

// RemoveReview backs a deleted rating out of the total and average.
func (r *mongoAnalyticsRepo) RemoveReview(ctx context.Context, listingID string, rating int) (*models.Analytics, error) {
	a, err := r.GetByListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	total := a.Reviews.Total - 1
	var average float64
	if total > 0 {
		sum := a.Reviews.AverageRating*float64(a.Reviews.Total) - float64(rating)
		average = sum / float64(total)
	}
	if total < 0 {
		total = 0
		average = 0
	}

	return r.setReviewStats(ctx, listingID, total, average)
}

func (r *mongoAnalyticsRepo) setReviewStats(ctx context.Context, listingID string, total int64, average float64) (*models.Analytics, error) {
	update := bson.M{"$set": bson.M{
		"reviews.total":         total,
		"reviews.averageRating": average,
		"lastUpdated":           time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Analytics
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"listing": listingID}, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// IncrementBookmarks adjusts the engagement bookmark counter. The counter is
// clamped at zero afterwards rather than guarded up front.
func (r *mongoAnalyticsRepo) IncrementBookmarks(ctx context.Context, listingID string, delta int64) (*models.Analytics, error) {
	update := bson.M{
		"$inc": bson.M{"engagement.bookmarks": delta},
		"$set": bson.M{"lastUpdated": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Analytics
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"listing": listingID}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if updated.Engagement.Bookmarks < 0 {
		_, _ = r.coll.UpdateOne(ctx, bson.M{"listing": listingID},
			bson.M{"$set": bson.M{"engagement.bookmarks": int64(0)}})
		updated.Engagement.Bookmarks = 0
	}
	return &updated, nil
}

// TrimViewHistory removes history entries older than the cutoff across all
// analytics documents and returns the number of documents touched.
func (r *mongoAnalyticsRepo) TrimViewHistory(ctx context.Context, cutoff time.Time) (int64, error) {
	update := bson.M{"$pull": bson.M{
		"views.history": bson.M{"timestamp": bson.M{"$lt": cutoff}},
	}}
	res, err := r.coll.UpdateMany(ctx, bson.M{}, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
