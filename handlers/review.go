package handlers

import (
	"errors"
	"net/http"

	listingRepo "wanderlust/database/repository/listing"
	reviewRepo "wanderlust/database/repository/review"
	"wanderlust/models"
	"wanderlust/services/analytics"
	"wanderlust/services/notification"
	"wanderlust/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewHandler struct {
	Reviews   reviewRepo.ReviewRepository
	Listings  listingRepo.ListingRepository
	Notifier  notification.NotificationService
	Analytics analytics.AnalyticsService
}

func NewReviewHandler(
	reviews reviewRepo.ReviewRepository,
	listings listingRepo.ListingRepository,
	notifier notification.NotificationService,
	analyticsSvc analytics.AnalyticsService,
) *ReviewHandler {
	return &ReviewHandler{
		Reviews:   reviews,
		Listings:  listings,
		Notifier:  notifier,
		Analytics: analyticsSvc,
	}
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

// CreateReviewHandler handles POST /api/listings/:listingId/reviews. The
// review write commits first; the owner notification and the analytics
// counters follow and cannot fail the request.
func (h *ReviewHandler) CreateReviewHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.FormatResponse(false, "Authentication required", nil))
		return
	}

	listingID := c.Param("listingId")

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.FormatResponse(false, "Invalid request payload", nil))
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, utils.FormatResponse(false, "Rating must be between 1 and 5", nil))
		return
	}
	if req.Content == "" {
		c.JSON(http.StatusBadRequest, utils.FormatResponse(false, "Review content is required", nil))
		return
	}

	ownerID, title, err := h.Listings.GetOwnerAndTitle(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, utils.FormatResponse(false, "Listing not found", nil))
			return
		}
		utils.RespondError(c, err)
		return
	}

	reviewed, err := h.Reviews.HasReviewed(c.Request.Context(), listingID, userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if reviewed {
		c.JSON(http.StatusBadRequest, utils.FormatResponse(false, "You have already reviewed this listing", nil))
		return
	}

	review, err := h.Reviews.Create(c.Request.Context(), models.Review{
		Listing: listingID,
		Owner:   userID,
		Rating:  req.Rating,
		Content: req.Content,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.Notifier.NotifyReview(c.Request.Context(), ownerID, listingID, userID, review.Rating, title)
	h.Analytics.ReviewAdded(c.Request.Context(), listingID, review.Rating)

	c.JSON(http.StatusCreated, utils.FormatResponse(true, "New Review Added!", review))
}

// DeleteReviewHandler handles DELETE /api/listings/:listingId/reviews/:reviewId.
// Only the review's author may delete it.
func (h *ReviewHandler) DeleteReviewHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.FormatResponse(false, "Authentication required", nil))
		return
	}

	listingID := c.Param("listingId")
	reviewID := c.Param("reviewId")

	review, err := h.Reviews.GetByID(c.Request.Context(), reviewID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, utils.FormatResponse(false, "Review not found", nil))
			return
		}
		utils.RespondError(c, err)
		return
	}
	if review.Owner != userID {
		c.JSON(http.StatusForbidden, utils.FormatResponse(false, "You can only delete your own reviews", nil))
		return
	}

	if err := h.Reviews.DeleteByID(c.Request.Context(), reviewID); err != nil {
		utils.RespondError(c, err)
		return
	}

	h.Analytics.ReviewRemoved(c.Request.Context(), listingID, review.Rating)

	c.JSON(http.StatusOK, utils.FormatResponse(true, "Review Deleted", nil))
}
