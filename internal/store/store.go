// internal/store/store.go
package store

import (
	"github.com/google/uuid"

	"github.com/skillset/skillset-backend/internal/models"
)

// ApprovalResult carries the outcome of an atomic approve-and-award.
type ApprovalResult struct {
	Reward     int
	NewBalance int
}

// Store is the persistence boundary. It is constructed explicitly and
// injected into services; there is no package-global database handle.
type Store interface {
	// Users
	GetUser(id uuid.UUID) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	CreateUser(user *models.User) error

	// Sessions
	CreateSession(session *models.Session) error
	GetSession(id uuid.UUID) (*models.Session, error)
	DeleteSession(id uuid.UUID) error

	// Tasks
	AllTasks() ([]models.Task, error)
	GetTask(id uuid.UUID) (*models.Task, error)
	CreateTask(task *models.Task) error

	// Uploads
	CreateUpload(upload *models.Upload) error
	GetUpload(id uuid.UUID) (*models.Upload, error)
	UserUploads(userID uuid.UUID) ([]models.Upload, error)
	HasApprovedUpload(userID, taskID uuid.UUID) (bool, error)
	HasPendingUpload(userID, taskID uuid.UUID) (bool, error)
	AllUploadsWithDetails() ([]models.UploadWithDetails, error)
	SetUploadFile(uploadID uuid.UUID, fileURL string) error

	// FinalizeUpload moves a still-validating upload into a terminal
	// state. Terminal uploads are never transitioned again.
	FinalizeUpload(uploadID uuid.UUID, status models.UploadStatus) error

	// ApproveUpload flips a validating upload to approved and credits the
	// owner with the task reward in one atomic step. Calling it on an
	// already-finalized upload returns ErrAlreadyFinalized and awards
	// nothing.
	ApproveUpload(uploadID uuid.UUID) (*ApprovalResult, error)
}
