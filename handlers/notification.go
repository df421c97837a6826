package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"ecoai/database"
	"ecoai/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// createNotification records a like/comment/follow event for the recipient
// and fans it out to their live websocket connections and webpush
// subscription. Self-notifications are skipped, as are recipients who have
// turned notifications off. It runs in the background: the triggering
// write has already committed, and the notification is a separate,
// non-atomic side effect.
func createNotification(fromUserID, toUserID primitive.ObjectID, notifType, postID string) {
	if fromUserID == toUserID {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in notification fan-out: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var recipient models.User
		err := database.Users.FindOne(ctx, bson.M{"_id": toUserID}).Decode(&recipient)
		if err != nil {
			log.Printf("Notification recipient lookup failed: %v", err)
			return
		}
		if !recipient.NotificationsEnabled {
			return
		}

		var sender models.User
		if err := database.Users.FindOne(ctx, bson.M{"_id": fromUserID}).Decode(&sender); err != nil {
			log.Printf("Notification sender lookup failed: %v", err)
			return
		}

		notification := models.Notification{
			ID:         primitive.NewObjectID(),
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			PostID:     postID,
			Type:       notifType,
			CreatedAt:  time.Now().Unix(),
		}

		if _, err := database.Notifications.InsertOne(ctx, notification); err != nil {
			log.Printf("Failed to store notification: %v", err)
			return
		}

		payload := gin.H{
			"id":                notification.ID.Hex(),
			"fromUserId":        fromUserID.Hex(),
			"postId":            postID,
			"type":              notifType,
			"createdAt":         notification.CreatedAt,
			"username":          sender.Username,
			"profilePictureUrl": sender.ProfilePictureURL,
		}
		wsManager.SendToUser(toUserID.Hex(), "notification", payload)

		username := sender.Username
		if username == "" {
			username = "Someone"
		}
		var body string
		switch notifType {
		case models.NotificationLike:
			body = username + " liked your post"
		case models.NotificationComment:
			body = username + " commented on your post"
		case models.NotificationFollow:
			body = username + " started following you"
		}
		sendWebPush(toUserID, "New Notification", body, map[string]interface{}{
			"postId":     postID,
			"fromUserId": fromUserID.Hex(),
			"type":       notifType,
		})
	}()
}

// GetNotifications lists the caller's notifications newest first, enriched
// with the acting user.
func GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100)
	cursor, err := database.Notifications.Find(ctx, bson.M{"toUserId": userID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode notifications"})
		return
	}

	senderIDs := make([]primitive.ObjectID, 0, len(notifications))
	seen := map[primitive.ObjectID]bool{}
	for _, n := range notifications {
		if !seen[n.FromUserID] {
			seen[n.FromUserID] = true
			senderIDs = append(senderIDs, n.FromUserID)
		}
	}

	senders := map[primitive.ObjectID]models.User{}
	if len(senderIDs) > 0 {
		userCursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$in": senderIDs}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		defer userCursor.Close(ctx)

		var users []models.User
		if err := userCursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
			return
		}
		for _, u := range users {
			senders[u.ID] = u
		}
	}

	response := make([]gin.H, 0, len(notifications))
	for _, n := range notifications {
		entry := gin.H{
			"id":                n.ID.Hex(),
			"fromUserId":        n.FromUserID.Hex(),
			"postId":            n.PostID,
			"type":              n.Type,
			"createdAt":         n.CreatedAt,
			"username":          "Someone",
			"profilePictureUrl": fallbackAvatar,
		}
		if sender, ok := senders[n.FromUserID]; ok {
			if sender.Username != "" {
				entry["username"] = sender.Username
			}
			if sender.ProfilePictureURL != "" {
				entry["profilePictureUrl"] = sender.ProfilePictureURL
			}
		}
		response = append(response, entry)
	}

	c.JSON(http.StatusOK, response)
}
