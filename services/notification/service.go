package notification

import (
	"context"
	"errors"
	"fmt"

	notificationRepo "wanderlust/database/repository/notification"
	"wanderlust/models"
	"wanderlust/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Notify validates the input, writes the notification durably, then pushes a
// trimmed payload to the recipient's room. The durable write always happens
// first; a client polling the list can observe the notification before (or
// without ever) receiving its push.
func (s *DefaultNotificationService) Notify(ctx context.Context, input CreateInput) (*models.Notification, error) {
	if input.Recipient == "" || input.Title == "" || input.Message == "" {
		return nil, utils.ValidationError{Msg: "recipient, title and message are required"}
	}
	if !input.Type.Valid() {
		return nil, utils.ValidationError{Msg: fmt.Sprintf("invalid notification type %q", input.Type)}
	}

	created, err := s.Repo.Create(ctx, models.Notification{
		Recipient:      input.Recipient,
		Type:           input.Type,
		Title:          input.Title,
		Message:        input.Message,
		RelatedListing: input.RelatedListing,
		RelatedUser:    input.RelatedUser,
		ActionURL:      input.ActionURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}

	s.invalidateUnread(ctx, created.Recipient)

	s.Emitter.EmitToUser(created.Recipient, EventNewNotification, map[string]interface{}{
		"notification": models.NotificationPush{
			ID:        created.ID,
			Type:      created.Type,
			Title:     created.Title,
			Message:   created.Message,
			CreatedAt: created.CreatedAt,
		},
	})

	return created, nil
}

// ListForRecipient composes the denormalized read join: notifications plus
// listing/user display projections resolved in bulk.
func (s *DefaultNotificationService) ListForRecipient(ctx context.Context, userID string) ([]models.NotificationView, error) {
	notifications, err := s.Repo.GetByRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	listingIDs := make([]string, 0, len(notifications))
	userIDs := make([]string, 0, len(notifications))
	for _, n := range notifications {
		if n.RelatedListing != "" {
			listingIDs = append(listingIDs, n.RelatedListing)
		}
		if n.RelatedUser != "" {
			userIDs = append(userIDs, n.RelatedUser)
		}
	}

	listings, err := s.Listings.GetSummaries(ctx, listingIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve listing references: %w", err)
	}
	users, err := s.Users.GetSummaries(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user references: %w", err)
	}

	views := make([]models.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		view := models.NotificationView{
			ID:        n.ID,
			Recipient: n.Recipient,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			ActionURL: n.ActionURL,
			CreatedAt: n.CreatedAt,
		}
		if summary, ok := listings[n.RelatedListing]; ok {
			l := summary
			view.RelatedListing = &l
		}
		if summary, ok := users[n.RelatedUser]; ok {
			u := summary
			view.RelatedUser = &u
		}
		views = append(views, view)
	}
	return views, nil
}

// MarkAsRead performs the atomic unread-to-read transition and classifies a
// miss as not-found, foreign recipient, or an idempotent repeat.
func (s *DefaultNotificationService) MarkAsRead(ctx context.Context, notificationID, userID string) (*models.Notification, bool, error) {
	updated, err := s.Repo.MarkRead(ctx, notificationID, userID)
	if err == nil {
		s.invalidateUnread(ctx, userID)
		s.Emitter.EmitToUser(userID, EventNotificationUpdate, map[string]interface{}{
			"type":           "READ",
			"notificationId": updated.ID,
		})
		return updated, false, nil
	}
	if !errors.Is(err, notificationRepo.ErrNoUnreadMatch) {
		return nil, false, fmt.Errorf("failed to mark notification read: %w", err)
	}

	existing, err := s.Repo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, utils.NotFoundError{Msg: "notification not found"}
		}
		return nil, false, fmt.Errorf("failed to load notification: %w", err)
	}
	if existing.Recipient != userID {
		return nil, false, utils.ForbiddenError{Msg: "you do not have permission to update this notification"}
	}
	// Already read: idempotent success, no counter change, no push.
	return existing, true, nil
}

// UnreadCount reads through the Redis cache and falls back to a Mongo count.
func (s *DefaultNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if count, ok := s.cachedUnread(ctx, userID); ok {
		return count, nil
	}

	count, err := s.Repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	s.storeUnread(ctx, userID, count)
	return count, nil
}

func (s *DefaultNotificationService) logger() *zap.Logger {
	return utils.GetLogger()
}
