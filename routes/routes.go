package routes

import (
	"net/http"
	"time"

	"wanderlust/config"
	"wanderlust/handlers"
	"wanderlust/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the route registrars need.
type HandlerBundle struct {
	Notification *handlers.NotificationHandler
	Analytics    *handlers.AnalyticsHandler
	Review       *handlers.ReviewHandler
	Bookmark     *handlers.BookmarkHandler
	Realtime     *handlers.RealtimeHandler
}

// RegisterNotificationRoutes registers the notification inbox endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.Notification.GetNotificationsHandler)
		api.GET("/unread-count", hb.Notification.GetUnreadCountHandler)
		api.PUT("/:notificationId/read", hb.Notification.MarkNotificationReadHandler)
	}
}

// RegisterListingRoutes registers the view and review endpoints hanging off
// a listing.
func RegisterListingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/listings")
	{
		// View recording accepts anonymous traffic.
		api.POST("/:listingId/view", middleware.OptionalAuthMiddleware(), hb.Analytics.RecordViewHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("/:listingId/reviews", hb.Review.CreateReviewHandler)
		protected.DELETE("/:listingId/reviews/:reviewId", hb.Review.DeleteReviewHandler)
	}
}

// RegisterUserRoutes registers bookmark endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/bookmarks", hb.Bookmark.GetBookmarksHandler)
		api.POST("/bookmarks/:listingId", hb.Bookmark.AddBookmarkHandler)
		api.DELETE("/bookmarks/:listingId", hb.Bookmark.RemoveBookmarkHandler)
	}
}

// RegisterAnalyticsRoutes registers the owner dashboard endpoint.
func RegisterAnalyticsRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/analytics")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/user", hb.Analytics.GetUserAnalyticsHandler)
	}
}

// RegisterRealtimeRoute registers the WebSocket endpoint. Authentication
// happens inside the handler so the token can ride the handshake query.
func RegisterRealtimeRoute(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/ws", hb.Realtime.HandleWebSocket)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Wanderlust"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterNotificationRoutes(r, hb)
	RegisterListingRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterAnalyticsRoutes(r, hb)
	RegisterRealtimeRoute(r, hb)
	RegisterHealthRoute(r)
}
