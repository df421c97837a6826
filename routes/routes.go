package routes

import (
	"time"

	"ecoai/handlers"
	"ecoai/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	// CORS goes on first so every route, health included, carries the
	// headers.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080", "http://127.0.0.1:8080", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	// Public routes
	public := router.Group("/api")
	public.Use(middleware.RateLimitMiddleware())
	public.POST("/register", handlers.Register)
	public.POST("/login", handlers.Login)
	public.GET("/vapid-public-key", handlers.GetVapidPublicKey)

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	// Profile / social graph
	protected.GET("/me", handlers.GetMe)
	protected.PUT("/me", handlers.UpdateMe)
	protected.PUT("/me/notifications", handlers.UpdateNotificationPrefs)
	protected.GET("/me/posts", handlers.GetMyPosts)
	protected.GET("/users/:id", handlers.GetUser)
	protected.POST("/users/:id/follow", handlers.ToggleFollow)
	protected.GET("/users/:id/followers", handlers.GetFollowers)
	protected.GET("/users/:id/following", handlers.GetFollowing)
	protected.GET("/users/:id/posts", handlers.GetUserPosts)
	protected.GET("/search", handlers.Search)

	// Posts and feeds
	protected.POST("/posts", handlers.CreatePost)
	protected.GET("/feed", handlers.GetFeed)
	protected.GET("/feed/following", handlers.GetFollowingFeed)
	protected.GET("/posts/:id", handlers.GetPost)
	protected.DELETE("/posts/:id", handlers.DeletePost)
	protected.POST("/posts/:id/like", handlers.ToggleLike)
	protected.POST("/posts/:id/save", handlers.ToggleSave)

	// Comments
	protected.GET("/posts/:id/comments", handlers.GetComments)
	protected.POST("/posts/:id/comments", handlers.CreateComment)
	protected.DELETE("/posts/:id/comments/:commentId", handlers.DeleteComment)
	protected.POST("/comments/:id/like", handlers.ToggleCommentLike)

	// Waste classification and carbon tracking
	protected.POST("/waste/classify", handlers.ClassifyWaste)
	protected.POST("/waste/history", handlers.CreateWasteRecord)
	protected.POST("/waste/history/from-database", handlers.CreateWasteRecordFromDatabase)
	protected.GET("/waste/history", handlers.GetWasteHistory)
	protected.GET("/waste/history/:id", handlers.GetWasteRecord)
	protected.DELETE("/waste/history/:id", handlers.DeleteWasteRecord)
	protected.GET("/waste/recent", handlers.GetRecentWaste)
	protected.GET("/waste/database", handlers.GetWasteDatabase)
	protected.GET("/waste/database/search", handlers.SearchWasteDatabase)
	protected.GET("/progress", handlers.GetProgress)

	// Media uploads
	protected.POST("/upload", handlers.UploadMedia)
	protected.GET("/upload/signature", handlers.GetUploadSignature)

	// Notifications
	protected.GET("/notifications", handlers.GetNotifications)
	protected.POST("/subscribe", handlers.SubscribePush)

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
