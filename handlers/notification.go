package handlers

import (
	"net/http"

	"wanderlust/services/notification"
	"wanderlust/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	Service notification.NotificationService
}

func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	val, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok && userID != ""
}

// GetNotificationsHandler handles GET /api/notifications.
func (h *NotificationHandler) GetNotificationsHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.FormatResponse(false, "Authentication required", nil))
		return
	}

	notifications, err := h.Service.ListForRecipient(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.FormatResponse(true, "Notifications retrieved successfully", notifications))
}

// GetUnreadCountHandler handles GET /api/notifications/unread-count.
func (h *NotificationHandler) GetUnreadCountHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.FormatResponse(false, "Authentication required", nil))
		return
	}

	count, err := h.Service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.FormatResponse(true, "Unread count retrieved", gin.H{"unreadCount": count}))
}

// MarkNotificationReadHandler handles PUT /api/notifications/:notificationId/read.
// Marking an already-read notification succeeds without changing anything.
func (h *NotificationHandler) MarkNotificationReadHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.FormatResponse(false, "Authentication required", nil))
		return
	}

	notificationID := c.Param("notificationId")
	if _, err := uuid.Parse(notificationID); err != nil {
		c.JSON(http.StatusBadRequest, utils.FormatResponse(false, "Invalid notification ID", nil))
		return
	}

	updated, alreadyRead, err := h.Service.MarkAsRead(c.Request.Context(), notificationID, userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if alreadyRead {
		c.JSON(http.StatusOK, utils.FormatResponse(true, "Notification was already marked as read", updated))
		return
	}
	c.JSON(http.StatusOK, utils.FormatResponse(true, "Notification marked as read", updated))
}
