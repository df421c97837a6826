package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"ecoai/database"
	"ecoai/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func GetComments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := database.Comments.Find(ctx, bson.M{"postId": postID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode comments"})
		return
	}

	authorIDs := make([]primitive.ObjectID, 0, len(comments))
	seen := map[primitive.ObjectID]bool{}
	for _, cm := range comments {
		if !seen[cm.UserID] {
			seen[cm.UserID] = true
			authorIDs = append(authorIDs, cm.UserID)
		}
	}

	authors := map[primitive.ObjectID]models.User{}
	if len(authorIDs) > 0 {
		userCursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$in": authorIDs}})
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
			authors[u.ID] = u
		}
	}

	viewer := userID.Hex()
	response := make([]gin.H, 0, len(comments))
	for _, cm := range comments {
		entry := gin.H{
			"id":        cm.ID.Hex(),
			"postId":    cm.PostID.Hex(),
			"userId":    cm.UserID.Hex(),
			"content":   cm.Content,
			"createdAt": cm.CreatedAt,
			// Comment like counts are derived from set size; no counter is
			// stored for comments.
			"likes":             len(cm.LikedBy),
			"liked":             contains(cm.LikedBy, viewer),
			"username":          "Unknown",
			"profilePictureUrl": fallbackAvatar,
		}
		if author, ok := authors[cm.UserID]; ok {
			entry["username"] = author.Username
			if author.ProfilePictureURL != "" {
				entry["profilePictureUrl"] = author.ProfilePictureURL
			}
		}
		response = append(response, entry)
	}

	c.JSON(http.StatusOK, response)
}

func CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment must not be empty"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		UserID:    userID,
		Content:   req.Content,
		LikedBy:   []string{},
		CreatedAt: time.Now().Unix(),
	}

	if _, err := database.Comments.InsertOne(ctx, comment); err != nil {
		log.Printf("CreateComment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	createNotification(userID, post.UserID, models.NotificationComment, postID.Hex())

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Comment created",
		"commentId": comment.ID.Hex(),
	})
}

func DeleteComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Only the comment's author may delete it.
	result, err := database.Comments.DeleteOne(ctx, bson.M{
		"_id":    commentID,
		"postId": postID,
		"userId": userID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// ToggleCommentLike flips the caller in the comment's like set. Counts are
// derived from set size, so there is no counter to adjust.
func ToggleCommentLike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	liked, err := toggleDocSet(ctx, database.Comments, commentID, "likedBy", "", userID.Hex())
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if err != nil {
		log.Printf("ToggleCommentLike error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}

	var comment models.Comment
	if err := database.Comments.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": len(comment.LikedBy)})
}
