package notification

import (
	"context"

	listingRepo "wanderlust/database/repository/listing"
	notificationRepo "wanderlust/database/repository/notification"
	userRepo "wanderlust/database/repository/user"
	"wanderlust/models"

	"github.com/go-redis/redis/v8"
)

// Realtime event names pushed to a recipient's room.
const (
	EventNewNotification    = "new_notification"
	EventNotificationUpdate = "notification_update"
	EventListingView        = "listing_view"
)

// Emitter is the delivery dispatcher the service pushes through. Pushes are
// best-effort cache-invalidation hints: implementations must treat "no
// recipient online" as a silent no-op, never an error.
type Emitter interface {
	EmitToUser(userID, event string, payload interface{})
	EmitBroadcast(event string, payload interface{})
}

// CreateInput carries the fields of a notification to be created.
type CreateInput struct {
	Recipient      string
	Type           models.NotificationType
	Title          string
	Message        string
	RelatedListing string
	RelatedUser    string
	ActionURL      string
}

// NotificationService owns the durable notification store and the event
// source adapters mutation handlers call after their own writes commit.
type NotificationService interface {
	// Notify validates, durably stores, then best-effort pushes a
	// notification. The returned error covers validation and storage only;
	// push failures never surface.
	Notify(ctx context.Context, input CreateInput) (*models.Notification, error)
	// ListForRecipient returns the recipient's notifications newest first,
	// with related listing/user references resolved to display projections.
	ListForRecipient(ctx context.Context, userID string) ([]models.NotificationView, error)
	// MarkAsRead flips one notification to read. alreadyRead reports an
	// idempotent repeat. Marking another user's notification fails with
	// ForbiddenError; unknown ids with NotFoundError.
	MarkAsRead(ctx context.Context, notificationID, userID string) (n *models.Notification, alreadyRead bool, err error)
	UnreadCount(ctx context.Context, userID string) (int64, error)

	// NotifyReview records a REVIEW notification for the listing owner and
	// attempts delivery. Errors are logged, never returned: a review must
	// succeed even when its notification does not.
	NotifyReview(ctx context.Context, ownerID, listingID, reviewerID string, rating int, listingTitle string)
	// NotifyView pushes an ephemeral view-count event to the owner's room.
	// Views are deliberately never persisted as notifications.
	NotifyView(ctx context.Context, ownerID, listingID string, totalViews int64)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo     notificationRepo.NotificationRepository
	Listings listingRepo.ListingRepository
	Users    userRepo.UserRepository
	Emitter  Emitter
	// Cache holds per-recipient unread counts; nil or unreachable Redis
	// degrades every read to a Mongo count.
	Cache *redis.Client
}
