package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecoai/ai"
	"ecoai/database"
	"ecoai/handlers"
	"ecoai/media"
	"ecoai/middleware"
	"ecoai/routes"
	"ecoai/websocket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting EcoAI backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	geminiKey := os.Getenv("GEMINI_API_KEY")
	cloudinaryURL := os.Getenv("CLOUDINARY_URL")
	if jwtSecret == "" || geminiKey == "" || cloudinaryURL == "" {
		log.Fatal("JWT_SECRET, GEMINI_API_KEY and CLOUDINARY_URL must be set")
	}

	// ===== MONGODB WITH RETRY =====
	log.Println("Connecting to MongoDB...")

	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.ConnectDB(); err != nil {
			dbErr = err
			log.Printf("MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		log.Fatal("Failed to connect to MongoDB: ", dbErr)
	}
	defer database.Disconnect()

	// ===== COLLABORATORS =====
	mediaService, err := media.NewService()
	if err != nil {
		log.Fatal("Cloudinary configuration error: ", err)
	}
	handlers.SetMediaService(mediaService)
	handlers.SetAIClient(ai.NewClient(geminiKey))

	// ===== GIN MODE =====
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := routes.SetupRouter()

	// ===== WEBSOCKET =====
	wsManager := websocket.NewManager()
	go wsManager.Start()
	handlers.SetWebSocketManager(wsManager)

	router.GET("/ws", func(c *gin.Context) {
		websocket.Handler(wsManager, middleware.ParseToken)(c.Writer, c.Request)
	})

	// ===== SERVER =====
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown: ", err)
	}

	log.Println("Server stopped gracefully")
}
