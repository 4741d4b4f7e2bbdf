package notificationRepo

import (
	"context"
	"errors"

	"wanderlust/database"
	"wanderlust/models"
	"wanderlust/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrNoUnreadMatch is returned by MarkRead when no document matches the
// (id, recipient, unread) triple. The caller classifies the miss: not found,
// foreign recipient, or already read.
var ErrNoUnreadMatch = errors.New("no unread notification matched")

type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (*models.Notification, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	// GetByRecipient returns all of the recipient's notifications,
	// newest first.
	GetByRecipient(ctx context.Context, recipient string) ([]models.Notification, error)
	// MarkRead flips read to true in a single conditional update scoped to
	// the recipient. Returns ErrNoUnreadMatch when nothing transitioned.
	MarkRead(ctx context.Context, id, recipient string) (*models.Notification, error)
	CountUnread(ctx context.Context, recipient string) (int64, error)
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo returns a NotificationRepository backed by MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	r := &mongoNotificationRepo{
		coll: database.DB().Collection("notifications"),
	}
	if err := r.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("notification index creation failed", zap.Error(err))
	}
	return r
}
