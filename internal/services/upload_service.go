// internal/services/upload_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/skillset/skillset-backend/internal/models"
	"github.com/skillset/skillset-backend/internal/store"
)

// ObjectPathPrefix is the canonical namespace for stored objects; every
// attached file URL lives under it.
const ObjectPathPrefix = "/objects/"

// UploadService drives the upload lifecycle:
// validating -> approved | rejected | cancelled.
type UploadService struct {
	store store.Store
}

func NewUploadService(st store.Store) *UploadService {
	return &UploadService{store: st}
}

// Create starts a task for a user. The reward is never applied at
// creation; it is only awarded when an admin approves the upload.
func (s *UploadService) Create(userID, taskID uuid.UUID) (*models.Upload, error) {
	if _, err := s.store.GetTask(taskID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	approved, err := s.store.HasApprovedUpload(userID, taskID)
	if err != nil {
		return nil, fmt.Errorf("check approved uploads: %w", err)
	}
	if approved {
		return nil, ErrTaskCompleted
	}

	pending, err := s.store.HasPendingUpload(userID, taskID)
	if err != nil {
		return nil, fmt.Errorf("check pending uploads: %w", err)
	}
	if pending {
		return nil, ErrPendingUpload
	}

	upload := &models.Upload{
		UserID: userID,
		TaskID: taskID,
		Status: models.UploadStatusValidating,
	}
	if err := s.store.CreateUpload(upload); err != nil {
		// Lost the race against a concurrent create; the unique index
		// turned it into a duplicate.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrPendingUpload
		}
		return nil, fmt.Errorf("create upload: %w", err)
	}

	return upload, nil
}

// AttachFile records the stored object path on the caller's own upload.
// The path is set at most once.
func (s *UploadService) AttachFile(callerID, uploadID uuid.UUID, objectPath string) error {
	if objectPath == "" || !strings.HasPrefix(objectPath, ObjectPathPrefix) {
		return ErrInvalidObjectPath
	}

	upload, err := s.store.GetUpload(uploadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUploadNotFound
		}
		return fmt.Errorf("get upload: %w", err)
	}
	if upload.UserID != callerID {
		return ErrNotOwner
	}

	if err := s.store.SetUploadFile(uploadID, objectPath); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUploadNotFound
		}
		return err
	}
	return nil
}

// Validate approves an upload and awards the task reward to its owner,
// atomically and at most once.
func (s *UploadService) Validate(uploadID uuid.UUID) (*store.ApprovalResult, error) {
	upload, err := s.store.GetUpload(uploadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, fmt.Errorf("get upload: %w", err)
	}

	result, err := s.store.ApproveUpload(upload.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return result, nil
}

// Cancel is owner-only and never touches the balance.
func (s *UploadService) Cancel(callerID, uploadID uuid.UUID) error {
	upload, err := s.store.GetUpload(uploadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUploadNotFound
		}
		return fmt.Errorf("get upload: %w", err)
	}
	if upload.UserID != callerID {
		return ErrNotOwner
	}

	return s.store.FinalizeUpload(uploadID, models.UploadStatusCancelled)
}

// Reject finalizes an upload without awarding anything, however many
// times it is attempted.
func (s *UploadService) Reject(uploadID uuid.UUID) error {
	if _, err := s.store.GetUpload(uploadID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUploadNotFound
		}
		return fmt.Errorf("get upload: %w", err)
	}

	return s.store.FinalizeUpload(uploadID, models.UploadStatusRejected)
}

func (s *UploadService) ListMine(userID uuid.UUID) ([]models.Upload, error) {
	return s.store.UserUploads(userID)
}

func (s *UploadService) ListAll() ([]models.UploadWithDetails, error) {
	return s.store.AllUploadsWithDetails()
}

// OwnsObject reports whether the object path is attached to one of the
// user's uploads. Used to gate object fetches.
func (s *UploadService) OwnsObject(userID uuid.UUID, objectPath string) (bool, error) {
	uploads, err := s.store.UserUploads(userID)
	if err != nil {
		return false, fmt.Errorf("list user uploads: %w", err)
	}
	for _, upload := range uploads {
		if upload.FileURL != nil && *upload.FileURL == objectPath {
			return true, nil
		}
	}
	return false, nil
}
