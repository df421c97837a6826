package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"ecoai/database"
	"ecoai/models"
	"ecoai/progress"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxImageBytes = 10 << 20

// ClassifyWaste forwards a photographed item to the classification model
// and returns the analysis without persisting anything. The client reviews
// the result before committing it as a history record.
func ClassifyWaste(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer file.Close()

	jpeg, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	analysis, err := aiClient.Classify(ctx, jpeg)
	if err != nil {
		log.Printf("ClassifyWaste error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to classify image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":                analysis.Name,
		"itemDetails":         analysis.ItemDetails,
		"carbonFootprintData": int(analysis.CarbonFootprintData),
		"disposalMethods":     analysis.DisposalMethods,
	})
}

// CreateWasteRecord uploads the item's photo and inserts the history
// record. If the insert fails after the upload succeeded the image is left
// in place; the error is terminal and nothing is compensated.
func CreateWasteRecord(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	name := c.PostForm("name")
	disposalMethod := c.PostForm("disposalMethod")
	co2e, err := strconv.Atoi(c.PostForm("co2e"))
	if name == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and integer co2e are required"})
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	publicID := fmt.Sprintf("%s_%s", userID.Hex(), time.Now().Format("20060102150405"))
	imageURL, err := mediaService.Upload(ctx, file, "ecoai/waste", publicID)
	if err != nil {
		log.Printf("CreateWasteRecord upload error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	item := models.WasteHistoryItem{
		ID:             primitive.NewObjectID(),
		Name:           name,
		CO2e:           co2e,
		ImageRes:       imageURL,
		Date:           time.Now().Unix(),
		UploadedBy:     userID,
		DisposalMethod: disposalMethod,
	}

	if _, err := database.WasteHistory.InsertOne(ctx, item); err != nil {
		log.Printf("CreateWasteRecord insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save waste record"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// CreateWasteRecordFromDatabase logs a catalog item directly, reusing its
// image and carbon figure.
func CreateWasteRecordFromDatabase(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		ItemID string `json:"itemId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId is required"})
		return
	}

	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var catalogItem models.WasteItem
	err = database.WasteDatabase.FindOne(ctx, bson.M{"_id": itemID}).Decode(&catalogItem)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Waste item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch waste item"})
		return
	}

	item := models.WasteHistoryItem{
		ID:             primitive.NewObjectID(),
		Name:           catalogItem.Name,
		CO2e:           catalogItem.CO2e,
		ImageRes:       catalogItem.ImageRes,
		Date:           time.Now().Unix(),
		UploadedBy:     userID,
		DisposalMethod: catalogItem.SortingGuide,
	}

	if _, err := database.WasteHistory.InsertOne(ctx, item); err != nil {
		log.Printf("CreateWasteRecordFromDatabase insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save waste record"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func userWasteHistory(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.WasteHistoryItem, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := database.WasteHistory.Find(ctx, bson.M{"uploadedBy": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.WasteHistoryItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func GetWasteHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	items, err := userWasteHistory(ctx, userID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch waste history"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func GetWasteRecord(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var item models.WasteHistoryItem
	err = database.WasteHistory.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch record"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteWasteRecord removes one of the caller's own records. Records are
// otherwise immutable.
func DeleteWasteRecord(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.WasteHistory.DeleteOne(ctx, bson.M{"_id": itemID, "uploadedBy": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted"})
}

func GetRecentWaste(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := int64(5)
	if n, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && n > 0 && n <= 50 {
		limit = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	items, err := userWasteHistory(ctx, userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent uploads"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetProgress returns the carbon total and weekly streak, both recomputed
// from the caller's full record set on every request; neither figure is
// ever stored.
func GetProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	items, err := userWasteHistory(ctx, userID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch waste history"})
		return
	}

	uploadTimes := make([]time.Time, 0, len(items))
	for _, item := range items {
		uploadTimes = append(uploadTimes, time.Unix(item.Date, 0))
	}

	recent := items
	if len(recent) > 5 {
		recent = recent[:5]
	}

	c.JSON(http.StatusOK, gin.H{
		"carbonTrack":  progress.CarbonTotal(items),
		"weeklyStreak": progress.Streak(uploadTimes, time.Now(), serviceLocation()),
		"recent":       recent,
	})
}

func GetWasteDatabase(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.WasteDatabase.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch waste database"})
		return
	}
	defer cursor.Close(ctx)

	items := []models.WasteItem{}
	if err := cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode waste database"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// SearchWasteDatabase is a case-insensitive name-prefix search over the
// catalog.
func SearchWasteDatabase(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		GetWasteDatabase(c)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pattern := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(query), Options: "i"}
	cursor, err := database.WasteDatabase.Find(ctx, bson.M{"name": pattern})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	defer cursor.Close(ctx)

	items := []models.WasteItem{}
	if err := cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, items)
}
