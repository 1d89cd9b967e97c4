package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"aitana/services/storage"
	"aitana/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StorageHandler accepts client-uploaded reference images.
type StorageHandler struct {
	Svc storage.StorageService
}

func NewStorageHandler(svc storage.StorageService) *StorageHandler {
	return &StorageHandler{Svc: svc}
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// HandleUpload stores a reference image and returns its URL.
func (h *StorageHandler) HandleUpload(c *gin.Context) {
	if h.Svc == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Upload storage not configured", "")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "No image provided", "")
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		utils.JSONError(c, http.StatusBadRequest, "Unsupported image format", "allowed: jpg, jpeg, png")
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), filepath.Base(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to buffer upload", "")
		return
	}
	defer os.Remove(tempFilePath)

	imageURL, err := h.Svc.UploadImage(c.Request.Context(), tempFilePath)
	if err != nil {
		utils.GetLogger().Error("Image upload failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to store image", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}
