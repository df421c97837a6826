package handlers

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"time"

	"ecoai/database"
	"ecoai/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// totalReceivedLikes sums the like counters of the user's posts.
func totalReceivedLikes(ctx context.Context, userID primitive.ObjectID) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: nil}, {Key: "total", Value: bson.D{{Key: "$sum", Value: "$likes"}}}}}},
	}

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

func GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	likes, err := totalReceivedLikes(ctx, userID)
	if err != nil {
		log.Printf("GetMe likes aggregate error: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                   user.ID.Hex(),
		"email":                user.Email,
		"fullName":             user.FullName,
		"username":             user.Username,
		"bio":                  user.Bio,
		"profilePictureUrl":    user.ProfilePictureURL,
		"followers":            user.Followers,
		"following":            user.Following,
		"notificationsEnabled": user.NotificationsEnabled,
		"likes":                likes,
	})
}

func GetUser(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": targetID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	likes, err := totalReceivedLikes(ctx, targetID)
	if err != nil {
		log.Printf("GetUser likes aggregate error: %v", err)
	}

	isFollowing := false
	for _, uid := range user.Followers {
		if uid == viewerID.Hex() {
			isFollowing = true
			break
		}
	}

	profile := user.Public()
	c.JSON(http.StatusOK, gin.H{
		"id":                profile.ID,
		"fullName":          profile.FullName,
		"username":          profile.Username,
		"bio":               profile.Bio,
		"profilePictureUrl": profile.ProfilePictureURL,
		"followerCount":     profile.FollowerCount,
		"followingCount":    profile.FollowingCount,
		"likes":             likes,
		"isFollowing":       isFollowing,
	})
}

type UpdateProfileRequest struct {
	FullName          string `json:"fullName" binding:"required"`
	Username          string `json:"username" binding:"required"`
	Bio               string `json:"bio" binding:"required"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}

func UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg := validateProfile(req.FullName, req.Bio); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Username must be unique across other users.
	count, err := database.Users.CountDocuments(ctx, bson.M{
		"username": req.Username,
		"_id":      bson.M{"$ne": userID},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Username must be unique."})
		return
	}

	update := bson.M{"$set": bson.M{
		"fullName":          req.FullName,
		"username":          req.Username,
		"bio":               req.Bio,
		"profilePictureUrl": req.ProfilePictureURL,
	}}

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// ToggleFollow flips the caller in the target's follower set and mirrors
// the change in the caller's following set. The two user documents are
// updated separately; there is no cross-document transaction, so a crash
// between them can leave the sets briefly asymmetric.
func ToggleFollow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if userID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var target models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": targetID}).Decode(&target)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	newFollowers, followed := toggleMembership(target.Followers, userID.Hex())

	var targetUpdate, selfUpdate bson.M
	if followed {
		targetUpdate = bson.M{"$addToSet": bson.M{"followers": userID.Hex()}}
		selfUpdate = bson.M{"$addToSet": bson.M{"following": targetID.Hex()}}
	} else {
		targetUpdate = bson.M{"$pull": bson.M{"followers": userID.Hex()}}
		selfUpdate = bson.M{"$pull": bson.M{"following": targetID.Hex()}}
	}

	if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": targetID}, targetUpdate); err != nil {
		log.Printf("ToggleFollow target update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update follow state"})
		return
	}
	if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, selfUpdate); err != nil {
		log.Printf("ToggleFollow self update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update follow state"})
		return
	}

	if followed {
		createNotification(userID, targetID, models.NotificationFollow, "")
	}

	c.JSON(http.StatusOK, gin.H{
		"following":     followed,
		"followerCount": len(newFollowers),
	})
}

func usersByHexIDs(ctx context.Context, hexIDs []string) ([]models.PublicProfile, error) {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, h := range hexIDs {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	profiles := []models.PublicProfile{}
	if len(ids) == 0 {
		return profiles, nil
	}

	cursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	return profiles, nil
}

func GetFollowers(c *gin.Context) {
	userList(c, "followers")
}

func GetFollowing(c *gin.Context) {
	userList(c, "following")
}

func userList(c *gin.Context, field string) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": targetID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	hexIDs := user.Followers
	if field == "following" {
		hexIDs = user.Following
	}

	profiles, err := usersByHexIDs(ctx, hexIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, profiles)
}

func UpdateNotificationPrefs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"notificationsEnabled": *req.Enabled}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notificationsEnabled": *req.Enabled})
}

// Search matches users by username or full name and posts by headline or
// caption, case-insensitively.
func Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"users": []models.PublicProfile{}, "posts": []gin.H{}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}

	userCursor, err := database.Users.Find(ctx, bson.M{"$or": []bson.M{
		{"username": pattern},
		{"fullName": pattern},
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	defer userCursor.Close(ctx)

	var users []models.User
	if err := userCursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}

	postCursor, err := database.Posts.Find(ctx, bson.M{"$or": []bson.M{
		{"headline": pattern},
		{"caption": pattern},
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	defer postCursor.Close(ctx)

	var posts []models.Post
	if err := postCursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	enriched, err := enrichPosts(ctx, posts, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": profiles, "posts": enriched})
}
