package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// UploadMedia stores a file server-side and returns its secure URL. Used
// for profile pictures and post media.
func UploadMedia(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxImageBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form data"})
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	publicID := fmt.Sprintf("%s_%s", userID.Hex(), time.Now().Format("20060102150405"))
	url, err := mediaService.Upload(ctx, file, "ecoai/media", publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GetUploadSignature hands a client everything needed to POST a signed
// multipart upload straight to the media API, bypassing this server.
func GetUploadSignature(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	c.JSON(http.StatusOK, mediaService.SignUpload(time.Now()))
}
