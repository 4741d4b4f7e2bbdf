package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wanderlust/config"
	"wanderlust/cron"
	"wanderlust/database"
	analyticsRepoPkg "wanderlust/database/repository/analytics"
	listingRepoPkg "wanderlust/database/repository/listing"
	notificationRepoPkg "wanderlust/database/repository/notification"
	reviewRepoPkg "wanderlust/database/repository/review"
	userRepoPkg "wanderlust/database/repository/user"
	"wanderlust/handlers"
	"wanderlust/middleware"
	"wanderlust/routes"
	"wanderlust/services/analytics"
	"wanderlust/services/notification"
	"wanderlust/services/realtime"
	"wanderlust/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// The hub runs for the lifetime of the process; canceling the context
	// closes every live connection during shutdown.
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := realtime.NewHub(logger)
	go hub.Run(hubCtx)

	// repositories.
	notifRepo := notificationRepoPkg.NewMongoNotificationRepo()
	analyticsRepo := analyticsRepoPkg.NewMongoAnalyticsRepo()
	listingRepo := listingRepoPkg.NewMongoListingRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()

	// services.
	notificationService := &notification.DefaultNotificationService{
		Repo:     notifRepo,
		Listings: listingRepo,
		Users:    userRepo,
		Emitter:  hub,
		Cache:    utils.GetCacheClient(),
	}
	analyticsService := &analytics.DefaultAnalyticsService{
		Repo:     analyticsRepo,
		Listings: listingRepo,
		Notifier: notificationService,
		Emitter:  hub,
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Notification: handlers.NewNotificationHandler(notificationService),
		Analytics:    handlers.NewAnalyticsHandler(analyticsService),
		Review:       handlers.NewReviewHandler(reviewRepo, listingRepo, notificationService, analyticsService),
		Bookmark:     handlers.NewBookmarkHandler(userRepo, listingRepo, analyticsService),
		Realtime:     handlers.NewRealtimeHandler(hub),
	}
	routes.RegisterRoutes(router, handlerBundle)

	worker := cron.InitBackgroundWorker(analyticsRepo, hub)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	worker.Stop()
	stopHub()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
