package handlers

import (
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"ecoai/ai"
	"ecoai/media"
	"ecoai/websocket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shared collaborators, wired from main at startup.
var wsManager *websocket.Manager
var mediaService *media.Service
var aiClient *ai.Client
var vapidPrivateKey string

const fallbackAvatar = "https://upload.wikimedia.org/wikipedia/commons/8/89/Portrait_Placeholder.png"

func SetWebSocketManager(manager *websocket.Manager) {
	wsManager = manager
}

func SetMediaService(service *media.Service) {
	mediaService = service
}

func SetAIClient(client *ai.Client) {
	aiClient = client
}

// currentUserID reads the authenticated user id set by the JWT middleware.
// It writes the 401 itself so handlers can bail with a bare return.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}

var (
	locationOnce sync.Once
	location     *time.Location
)

// serviceLocation is the calendar zone for streak day boundaries, set with
// the TIMEZONE env var. Streaks are a daily-habit feature, so the boundary
// must be a civil midnight, not UTC.
func serviceLocation() *time.Location {
	locationOnce.Do(func() {
		location = time.Local
		if tz := os.Getenv("TIMEZONE"); tz != "" {
			loc, err := time.LoadLocation(tz)
			if err != nil {
				log.Printf("Invalid TIMEZONE %q, falling back to local: %v", tz, err)
				return
			}
			location = loc
		}
	})
	return location
}
