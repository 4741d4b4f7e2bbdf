package userRepo

import (
	"context"

	"wanderlust/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoUserRepo) GetSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	summaries := make(map[string]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	opts := options.Find().SetProjection(bson.M{"id": 1, "name": 1, "avatar": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.UserSummary
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		summaries[d.ID] = d
	}
	return summaries, nil
}

// AddBookmark uses $addToSet so concurrent adds of the same listing stay
// idempotent; ModifiedCount tells us whether this call actually added it.
func (r *mongoUserRepo) AddBookmark(ctx context.Context, userID, listingID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": userID},
		bson.M{"$addToSet": bson.M{"bookmarks": listingID}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *mongoUserRepo) RemoveBookmark(ctx context.Context, userID, listingID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": userID},
		bson.M{"$pull": bson.M{"bookmarks": listingID}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *mongoUserRepo) GetBookmarkIDs(ctx context.Context, userID string) ([]string, error) {
	var doc struct {
		Bookmarks []string `bson:"bookmarks"`
	}
	opts := options.FindOne().SetProjection(bson.M{"bookmarks": 1})
	if err := r.coll.FindOne(ctx, bson.M{"id": userID}, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Bookmarks, nil
}
