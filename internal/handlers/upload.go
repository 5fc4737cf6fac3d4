// internal/handlers/upload.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skillset/skillset-backend/internal/models"
	"github.com/skillset/skillset-backend/internal/services"
	"github.com/skillset/skillset-backend/internal/store"
	"github.com/skillset/skillset-backend/internal/utils"
)

type UploadHandler struct {
	uploadService *services.UploadService
}

func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

type createUploadRequest struct {
	TaskID string `json:"taskId"`
}

type attachFileRequest struct {
	ObjectPath string `json:"objectPath"`
}

// POST /api/uploads
func (h *UploadHandler) Create(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req createUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid taskId")
		return
	}

	upload, err := h.uploadService.Create(userID, taskID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			utils.NotFoundResponse(c, "Task not found")
		case errors.Is(err, services.ErrTaskCompleted):
			utils.BadRequestResponse(c, "Task already completed")
		case errors.Is(err, services.ErrPendingUpload):
			utils.BadRequestResponse(c, "You have a pending upload for this task")
		default:
			logrus.WithError(err).Error("Upload creation failed")
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	// Reward and balance are only touched on approval.
	c.JSON(http.StatusOK, gin.H{
		"upload":     upload,
		"reward":     0,
		"newBalance": 0,
	})
}

// POST /api/uploads/:uploadId/validate
func (h *UploadHandler) Validate(c *gin.Context) {
	uploadID, err := uuid.Parse(c.Param("uploadId"))
	if err != nil {
		utils.NotFoundResponse(c, "Upload not found")
		return
	}

	result, err := h.uploadService.Validate(uploadID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUploadNotFound):
			utils.NotFoundResponse(c, "Upload not found")
		case errors.Is(err, services.ErrTaskNotFound):
			utils.NotFoundResponse(c, "Task not found")
		case errors.Is(err, store.ErrAlreadyFinalized):
			utils.ConflictResponse(c, "Upload already finalized")
		default:
			logrus.WithError(err).Error("Upload validation failed")
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     models.UploadStatusApproved,
		"reward":     result.Reward,
		"newBalance": result.NewBalance,
	})
}

// POST /api/uploads/:uploadId/cancel
func (h *UploadHandler) Cancel(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	uploadID, err := uuid.Parse(c.Param("uploadId"))
	if err != nil {
		utils.NotFoundResponse(c, "Upload not found")
		return
	}

	if err := h.uploadService.Cancel(userID, uploadID); err != nil {
		switch {
		case errors.Is(err, services.ErrUploadNotFound):
			utils.NotFoundResponse(c, "Upload not found")
		case errors.Is(err, services.ErrNotOwner):
			utils.ForbiddenResponse(c, "Not authorized")
		case errors.Is(err, store.ErrAlreadyFinalized):
			utils.ConflictResponse(c, "Upload already finalized")
		default:
			logrus.WithError(err).Error("Upload cancel failed")
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.UploadStatusCancelled})
}

// POST /api/uploads/:uploadId/reject
func (h *UploadHandler) Reject(c *gin.Context) {
	uploadID, err := uuid.Parse(c.Param("uploadId"))
	if err != nil {
		utils.NotFoundResponse(c, "Upload not found")
		return
	}

	if err := h.uploadService.Reject(uploadID); err != nil {
		switch {
		case errors.Is(err, services.ErrUploadNotFound):
			utils.NotFoundResponse(c, "Upload not found")
		case errors.Is(err, store.ErrAlreadyFinalized):
			utils.ConflictResponse(c, "Upload already finalized")
		default:
			logrus.WithError(err).Error("Upload reject failed")
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.UploadStatusRejected})
}

// GET /api/uploads/me
func (h *UploadHandler) ListMine(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	uploads, err := h.uploadService.ListMine(userID)
	if err != nil {
		logrus.WithError(err).Error("Upload listing failed")
		utils.InternalErrorResponse(c, "Failed to fetch uploads")
		return
	}

	c.JSON(http.StatusOK, uploads)
}

// GET /api/admin/uploads
func (h *UploadHandler) ListAll(c *gin.Context) {
	uploads, err := h.uploadService.ListAll()
	if err != nil {
		logrus.WithError(err).Error("Admin upload listing failed")
		utils.InternalErrorResponse(c, "Failed to fetch uploads")
		return
	}

	c.JSON(http.StatusOK, uploads)
}

// PUT /api/uploads/:uploadId/file
func (h *UploadHandler) AttachFile(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	uploadID, err := uuid.Parse(c.Param("uploadId"))
	if err != nil {
		utils.NotFoundResponse(c, "Upload not found")
		return
	}

	var req attachFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if req.ObjectPath == "" {
		utils.BadRequestResponse(c, "objectPath is required")
		return
	}

	if err := h.uploadService.AttachFile(userID, uploadID, req.ObjectPath); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidObjectPath):
			utils.BadRequestResponse(c, "Invalid object path format")
		case errors.Is(err, services.ErrUploadNotFound):
			utils.NotFoundResponse(c, "Upload not found")
		case errors.Is(err, services.ErrNotOwner):
			utils.ForbiddenResponse(c, "Not authorized")
		case errors.Is(err, store.ErrFileAlreadySet):
			utils.ConflictResponse(c, "Upload file already set")
		default:
			logrus.WithError(err).Error("Upload file update failed")
			utils.InternalErrorResponse(c, "Failed to update upload file")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"objectPath": req.ObjectPath})
}
