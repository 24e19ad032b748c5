package router

import (
	"log"

	"github.com/anonto42/nano-social/backend/internal/handlers"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/labstack/echo/v4"
)

// SetupRoutes configures all application routes and injects dependencies.
// verifier may be nil when Firebase is not configured.
func SetupRoutes(e *echo.Echo, s *store.Store, cfg *config.Config, verifier handlers.IDTokenVerifier) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewStoreUserRepository(s)
	postRepo := repositories.NewStorePostRepository(s)
	commentRepo := repositories.NewStoreCommentRepository(s)
	likeRepo := repositories.NewStoreLikeRepository(s)
	followRepo := repositories.NewStoreFollowRepository(s)
	savedPostRepo := repositories.NewStoreSavedPostRepository(s)
	messageRepo := repositories.NewStoreMessageRepository(s)
	notificationRepo := repositories.NewStoreNotificationRepository(s)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, s, verifier, cfg.JWTSecret, cfg.TokenTTL)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, s))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	authHandler.RegisterSessionRoutes(api)

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(postRepo, userRepo)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	savedPostHandler := handlers.NewSavedPostHandler(savedPostRepo, userRepo)
	savedPostHandler.RegisterSavedPostRoutes(api)
	log.Println("Saved post routes configured.")

	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	followHandler := handlers.NewFollowHandler(followRepo)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	commentHandler := handlers.NewCommentHandler(commentRepo, userRepo)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	likeHandler := handlers.NewLikeHandler(likeRepo)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo)
	messageHandler.RegisterMessageRoutes(api)
	log.Println("Message routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
