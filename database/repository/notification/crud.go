package notificationRepo

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

// Create inserts a new notification and returns it.
func (r *mongoNotificationRepo) Create(ctx context.Context, n models.Notification) (*models.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	now := time.Now()
	n.Read = false
	n.CreatedAt = now
	n.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return nil, err
	}
	return &n, nil
}

// GetByID returns a notification by its ID.
func (r *mongoNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

// GetByRecipient fetches all notifications for a recipient, newest first.
// The full set is returned deliberately; clients treat the list as the
// authoritative mirror and there is no pagination contract.
func (r *mongoNotificationRepo) GetByRecipient(ctx context.Context, recipient string) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead performs the find-unread-and-set in one atomic operation so two
// concurrent calls cannot both observe the unread state.
func (r *mongoNotificationRepo) MarkRead(ctx context.Context, id, recipient string) (*models.Notification, error) {
	filter := bson.M{
		"id":        id,
		"recipient": recipient,
		"read":      false,
	}
	update := bson.M{"$set": bson.M{
		"read":      true,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Notification
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoUnreadMatch
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// CountUnread counts the recipient's unread notifications.
func (r *mongoNotificationRepo) CountUnread(ctx context.Context, recipient string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{
		"recipient": recipient,
		"read":      false,
	})
}
