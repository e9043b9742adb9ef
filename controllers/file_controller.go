package controllers

import (
	"ecofinds/config"
	"ecofinds/models"

	"github.com/gin-gonic/gin"
)

type FileController struct {
	storage *models.CloudinaryService
}

func NewFileController(storage *models.CloudinaryService) *FileController {
	return &FileController{storage: storage}
}

// GenerateUploadURL godoc
// @Summary Generate upload URL
// @Description Short-lived endpoint the client posts the image file to
// @Tags Files
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /files/upload-url [post]
func (ctrl *FileController) GenerateUploadURL(c *gin.Context) {
	if ctrl.storage == nil {
		c.JSON(503, gin.H{"success": false, "message": "Image storage not configured"})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Upload URL generated",
		"data":    gin.H{"url": config.AppConfig.BaseURL + "/files/upload"},
	})
}

// Upload godoc
// @Summary Upload image
// @Description Store a listing image and return its storage id
// @Tags Files
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /files/upload [post]
func (ctrl *FileController) Upload(c *gin.Context) {
	if ctrl.storage == nil {
		c.JSON(503, gin.H{"success": false, "message": "Image storage not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "No file uploaded"})
		return
	}

	if err := ctrl.storage.ValidateImageFile(fileHeader); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to read file"})
		return
	}
	defer file.Close()

	url, storageID, err := ctrl.storage.UploadImage(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to upload image"})
		return
	}

	c.JSON(201, gin.H{
		"success": true,
		"message": "Image uploaded",
		"data":    gin.H{"url": url, "storage_id": storageID},
	})
}
