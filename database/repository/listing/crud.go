package listingRepo

import (
	"context"

	"wanderlust/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoListingRepo) GetOwnerAndTitle(ctx context.Context, listingID string) (string, string, error) {
	var doc struct {
		Owner string `bson:"owner"`
		Title string `bson:"title"`
	}
	opts := options.FindOne().SetProjection(bson.M{"owner": 1, "title": 1})
	if err := r.coll.FindOne(ctx, bson.M{"id": listingID}, opts).Decode(&doc); err != nil {
		return "", "", err
	}
	return doc.Owner, doc.Title, nil
}

func (r *mongoListingRepo) GetSummaries(ctx context.Context, ids []string) (map[string]models.ListingSummary, error) {
	summaries := make(map[string]models.ListingSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	opts := options.Find().SetProjection(bson.M{"id": 1, "title": 1, "images": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.ListingSummary
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		summaries[d.ID] = d
	}
	return summaries, nil
}
