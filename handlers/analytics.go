package handlers

import (
	"net/http"

	"wanderlust/services/analytics"
	"wanderlust/utils"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	Service analytics.AnalyticsService
}

func NewAnalyticsHandler(svc analytics.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Service: svc}
}

// RecordViewHandler handles POST /api/listings/:listingId/view. Open to
// anonymous traffic; authenticated viewers are not treated differently.
func (h *AnalyticsHandler) RecordViewHandler(c *gin.Context) {
	listingID := c.Param("listingId")
	if listingID == "" {
		c.JSON(http.StatusBadRequest, utils.FormatResponse(false, "Listing ID is required", nil))
		return
	}

	updated, err := h.Service.RecordView(c.Request.Context(), listingID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.FormatResponse(true, "View count updated", updated))
}

// GetUserAnalyticsHandler handles GET /api/analytics/user for the
// authenticated listing owner.
func (h *AnalyticsHandler) GetUserAnalyticsHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.FormatResponse(false, "Authentication required", nil))
		return
	}

	summary, err := h.Service.OwnerSummary(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.FormatResponse(true, "Analytics retrieved successfully", summary))
}
