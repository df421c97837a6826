package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"ecoai/database"
	"ecoai/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const feedPageSize = 10

type CreatePostRequest struct {
	Headline string             `json:"headline"`
	Caption  string             `json:"caption"`
	Media    []models.MediaItem `json:"media"`
}

func CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg := validatePost(req.Headline, req.Caption, len(req.Media)); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	post := models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Headline:  req.Headline,
		Caption:   req.Caption,
		Media:     req.Media,
		LikedBy:   []string{},
		Likes:     0,
		SavedBy:   []string{},
		Saves:     0,
		CreatedAt: time.Now().Unix(),
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Printf("CreatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"postId":  post.ID.Hex(),
	})
}

// enrichPosts joins author fields onto each post. viewerHex, when set, adds
// the viewer's liked/saved flags.
func enrichPosts(ctx context.Context, posts []models.Post, viewerHex string) ([]gin.H, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	seen := map[primitive.ObjectID]bool{}
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	authors := map[primitive.ObjectID]models.User{}
	if len(authorIDs) > 0 {
		cursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$in": authorIDs}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			return nil, err
		}
		for _, u := range users {
			authors[u.ID] = u
		}
	}

	result := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		entry := gin.H{
			"id":        p.ID.Hex(),
			"userId":    p.UserID.Hex(),
			"headline":  p.Headline,
			"caption":   p.Caption,
			"media":     p.Media,
			"likes":     p.Likes,
			"saves":     p.Saves,
			"createdAt": p.CreatedAt,
			"username":  "",
			"fullName":  "Unknown User",
			"profilePictureUrl": fallbackAvatar,
		}
		if author, ok := authors[p.UserID]; ok {
			entry["username"] = author.Username
			entry["fullName"] = author.FullName
			if author.ProfilePictureURL != "" {
				entry["profilePictureUrl"] = author.ProfilePictureURL
			}
		}
		if viewerHex != "" {
			entry["liked"] = contains(p.LikedBy, viewerHex)
			entry["saved"] = contains(p.SavedBy, viewerHex)
		}
		result = append(result, entry)
	}
	return result, nil
}

func contains(set []string, member string) bool {
	for _, m := range set {
		if m == member {
			return true
		}
	}
	return false
}

// feedQuery runs a cursor-paginated, newest-first post query. The ?before=
// unix timestamp continues from the previous page's oldest post.
func feedQuery(c *gin.Context, filter bson.M) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if before, err := strconv.ParseInt(c.Query("before"), 10, 64); err == nil {
		filter["createdAt"] = bson.M{"$lt": before}
	}

	limit := int64(feedPageSize)
	if n, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && n > 0 && n <= 50 {
		limit = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := database.Posts.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	enriched, err := enrichPosts(ctx, posts, userID.Hex())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, enriched)
}

func GetFeed(c *gin.Context) {
	feedQuery(c, bson.M{})
}

// GetFollowingFeed restricts the feed to the first ten followed users plus
// the caller, matching the mobile app's behavior.
func GetFollowingFeed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var me models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&me); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch current user"})
		return
	}

	hexIDs := append([]string{}, me.Following...)
	hexIDs = append(hexIDs, userID.Hex())
	if len(hexIDs) > 10 {
		hexIDs = hexIDs[:10]
	}

	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, h := range hexIDs {
		if id, err := primitive.ObjectIDFromHex(h); err == nil {
			ids = append(ids, id)
		}
	}

	feedQuery(c, bson.M{"userId": bson.M{"$in": ids}})
}

func GetPost(c *gin.Context) {
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

	var author models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": post.UserID}).Decode(&author); err != nil {
		log.Printf("GetPost author fetch error: %v", err)
	}

	// Comment counts are always derived from the comments collection, never
	// stored on the post.
	commentCount, err := database.Comments.CountDocuments(ctx, bson.M{"postId": postID})
	if err != nil {
		log.Printf("GetPost comment count error: %v", err)
	}

	viewer := userID.Hex()
	c.JSON(http.StatusOK, gin.H{
		"id":           post.ID.Hex(),
		"userId":       post.UserID.Hex(),
		"headline":     post.Headline,
		"caption":      post.Caption,
		"media":        post.Media,
		"likes":        post.Likes,
		"saves":        post.Saves,
		"commentCount": commentCount,
		"createdAt":    post.CreatedAt,
		"liked":        contains(post.LikedBy, viewer),
		"saved":        contains(post.SavedBy, viewer),
		"author": gin.H{
			"id":                author.ID.Hex(),
			"username":          author.Username,
			"fullName":          author.FullName,
			"profilePictureUrl": author.ProfilePictureURL,
		},
		"isFollowingAuthor": contains(author.Followers, viewer),
	})
}

func DeletePost(c *gin.Context) {
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

	result, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID, "userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	// The post's comments go with it. Not atomic with the post delete.
	if _, err := database.Comments.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		log.Printf("DeletePost comment cleanup error: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func GetUserPosts(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	feedQuery(c, bson.M{"userId": targetID})
}

// GetMyPosts serves the profile tabs: own uploads, liked posts, saved
// posts.
func GetMyPosts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	switch c.DefaultQuery("tab", "own") {
	case "own":
		feedQuery(c, bson.M{"userId": userID})
	case "liked":
		feedQuery(c, bson.M{"likedBy": userID.Hex()})
	case "saved":
		feedQuery(c, bson.M{"savedBy": userID.Hex()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "tab must be own, liked or saved"})
	}
}

// ToggleLike flips the caller's membership in the post's like set. The
// membership flip and counter adjustment are one atomic document update.
// A like on someone else's post notifies the owner; an unlike never does.
func ToggleLike(c *gin.Context) {
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

	liked, err := toggleDocSet(ctx, database.Posts, postID, "likedBy", "likes", userID.Hex())
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("ToggleLike error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}

	var post models.Post
	if err := database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	if liked {
		createNotification(userID, post.UserID, models.NotificationLike, postID.Hex())
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": post.Likes})
}

// ToggleSave is the like toggle without the notification side effect.
func ToggleSave(c *gin.Context) {
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

	saved, err := toggleDocSet(ctx, database.Posts, postID, "savedBy", "saves", userID.Hex())
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("ToggleSave error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle save"})
		return
	}

	var post models.Post
	if err := database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": saved, "saves": post.Saves})
}
