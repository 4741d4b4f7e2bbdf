package notification

import (
	"context"
	"fmt"

	"wanderlust/models"

	"go.uber.org/zap"
)

// NotifyReview is called by the review mutation handler after the review is
// committed. Failures are logged and swallowed: notification delivery is a
// side effect, not part of the review's transactional contract.
func (s *DefaultNotificationService) NotifyReview(ctx context.Context, ownerID, listingID, reviewerID string, rating int, listingTitle string) {
	_, err := s.Notify(ctx, CreateInput{
		Recipient:      ownerID,
		Type:           models.NotificationReview,
		Title:          "New Review Received",
		Message:        fmt.Sprintf("Your listing %q received a new %d-star review", listingTitle, rating),
		RelatedListing: listingID,
		RelatedUser:    reviewerID,
	})
	if err != nil {
		s.logger().Error("failed to notify listing owner of review",
			zap.String("owner", ownerID),
			zap.String("listing", listingID),
			zap.Error(err))
	}
}

// NotifyView pushes an ephemeral listing_view event to the owner's room.
// View events would flood the store, so nothing is persisted; an owner who
// is offline simply misses the tick and sees the total on the next fetch.
func (s *DefaultNotificationService) NotifyView(ctx context.Context, ownerID, listingID string, totalViews int64) {
	if ownerID == "" {
		return
	}
	s.Emitter.EmitToUser(ownerID, EventListingView, map[string]interface{}{
		"listingId": listingID,
		"viewCount": totalViews,
	})
}
