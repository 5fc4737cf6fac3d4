// internal/handlers/object.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skillset/skillset-backend/internal/services"
	"github.com/skillset/skillset-backend/internal/utils"
)

type ObjectHandler struct {
	storage       services.ObjectStorage
	uploadService *services.UploadService
}

func NewObjectHandler(storage services.ObjectStorage, uploadService *services.UploadService) *ObjectHandler {
	return &ObjectHandler{
		storage:       storage,
		uploadService: uploadService,
	}
}

// POST /api/objects/upload
func (h *ObjectHandler) IssueUploadURL(c *gin.Context) {
	uploadURL, objectPath, err := h.storage.IssueUploadURL()
	if err != nil {
		logrus.WithError(err).Error("Upload URL issuance failed")
		utils.InternalErrorResponse(c, "Failed to get upload URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploadURL":  uploadURL,
		"objectPath": objectPath,
	})
}

// GET /objects/*objectPath
func (h *ObjectHandler) Download(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	objectPath := services.ObjectPathPrefix + strings.TrimPrefix(c.Param("objectPath"), "/")

	// Only the upload owner (or an admin) may fetch a stored object.
	if !utils.IsAdmin(c) {
		owns, err := h.uploadService.OwnsObject(userID, objectPath)
		if err != nil {
			logrus.WithError(err).Error("Object ownership check failed")
			utils.InternalErrorResponse(c, "")
			return
		}
		if !owns {
			utils.ForbiddenResponse(c, "Not authorized")
			return
		}
	}

	object, err := h.storage.Open(objectPath)
	if err != nil {
		if errors.Is(err, services.ErrObjectNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		logrus.WithError(err).Error("Object download failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	defer object.Body.Close()

	contentType := object.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, object.ContentLength, contentType, object.Body, nil)
}
