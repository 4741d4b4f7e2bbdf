package handlers

import (
	"errors"
	"net/http"

	listingRepo "wanderlust/database/repository/listing"
	userRepo "wanderlust/database/repository/user"
	"wanderlust/models"
	"wanderlust/services/analytics"
	"wanderlust/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookmarkHandler struct {
	Users     userRepo.UserRepository
	Listings  listingRepo.ListingRepository
	Analytics analytics.AnalyticsService
}

func NewBookmarkHandler(
	users userRepo.UserRepository,
	listings listingRepo.ListingRepository,
	analyticsSvc analytics.AnalyticsService,
) *BookmarkHandler {
	return &BookmarkHandler{Users: users, Listings: listings, Analytics: analyticsSvc}
}

// AddBookmarkHandler handles POST /api/users/bookmarks/:listingId.
// Bookmarking twice is a no-op; the engagement counter only moves on the
// first add.
func (h *BookmarkHandler) AddBookmarkHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.FormatResponse(false, "Authentication required", nil))
		return
	}

	listingID := c.Param("listingId")
	if _, _, err := h.Listings.GetOwnerAndTitle(c.Request.Context(), listingID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, utils.FormatResponse(false, "Listing not found", nil))
			return
		}
		utils.RespondError(c, err)
		return
	}

	added, err := h.Users.AddBookmark(c.Request.Context(), userID, listingID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !added {
		c.JSON(http.StatusOK, utils.FormatResponse(true, "Listing already bookmarked", nil))
		return
	}

	h.Analytics.BookmarkAdded(c.Request.Context(), listingID)

	c.JSON(http.StatusOK, utils.FormatResponse(true, "Listing bookmarked", nil))
}

// RemoveBookmarkHandler handles DELETE /api/users/bookmarks/:listingId.
func (h *BookmarkHandler) RemoveBookmarkHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.FormatResponse(false, "Authentication required", nil))
		return
	}

	listingID := c.Param("listingId")
	removed, err := h.Users.RemoveBookmark(c.Request.Context(), userID, listingID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, utils.FormatResponse(false, "Bookmark not found", nil))
		return
	}

	h.Analytics.BookmarkRemoved(c.Request.Context(), listingID)

	c.JSON(http.StatusOK, utils.FormatResponse(true, "Bookmark removed", nil))
}

// GetBookmarksHandler handles GET /api/users/bookmarks and returns display
// summaries for every bookmarked listing.
func (h *BookmarkHandler) GetBookmarksHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.FormatResponse(false, "Authentication required", nil))
		return
	}

	ids, err := h.Users.GetBookmarkIDs(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	summaries, err := h.Listings.GetSummaries(c.Request.Context(), ids)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	// Preserve the stored bookmark order; drop ids whose listing no
	// longer exists.
	bookmarks := make([]models.ListingSummary, 0, len(ids))
	for _, id := range ids {
		if s, ok := summaries[id]; ok {
			bookmarks = append(bookmarks, s)
		}
	}

	c.JSON(http.StatusOK, utils.FormatResponse(true, "Bookmarks retrieved successfully", bookmarks))
}
