// internal/store/gorm.go
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/skillset/skillset-backend/internal/models"
)

const pgUniqueViolation = "23505"

// GormStore implements Store on a PostgreSQL database through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// Users

func (s *GormStore) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &user, nil
}

func (s *GormStore) CreateUser(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := s.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Sessions

func (s *GormStore) CreateSession(session *models.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if err := s.db.Create(session).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *GormStore) GetSession(id uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

func (s *GormStore) DeleteSession(id uuid.UUID) error {
	if err := s.db.Delete(&models.Session{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Tasks

func (s *GormStore) AllTasks() ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := s.db.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *GormStore) GetTask(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

func (s *GormStore) CreateTask(task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if err := s.db.Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Uploads

func (s *GormStore) CreateUpload(upload *models.Upload) error {
	if upload.ID == uuid.Nil {
		upload.ID = uuid.New()
	}
	if upload.Status == "" {
		upload.Status = models.UploadStatusValidating
	}
	if err := s.db.Create(upload).Error; err != nil {
		// The partial unique index on (user_id, task_id) WHERE
		// status = 'validating' is the authoritative duplicate guard.
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create upload: %w", err)
	}
	return nil
}

func (s *GormStore) GetUpload(id uuid.UUID) (*models.Upload, error) {
	var upload models.Upload
	if err := s.db.First(&upload, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get upload: %w", err)
	}
	return &upload, nil
}

func (s *GormStore) UserUploads(userID uuid.UUID) ([]models.Upload, error) {
	uploads := make([]models.Upload, 0)
	err := s.db.
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Find(&uploads).Error
	if err != nil {
		return nil, fmt.Errorf("list user uploads: %w", err)
	}
	return uploads, nil
}

func (s *GormStore) HasApprovedUpload(userID, taskID uuid.UUID) (bool, error) {
	return s.hasUploadWithStatus(userID, taskID, models.UploadStatusApproved)
}

func (s *GormStore) HasPendingUpload(userID, taskID uuid.UUID) (bool, error) {
	return s.hasUploadWithStatus(userID, taskID, models.UploadStatusValidating)
}

func (s *GormStore) hasUploadWithStatus(userID, taskID uuid.UUID, status models.UploadStatus) (bool, error) {
	var count int64
	err := s.db.Model(&models.Upload{}).
		Where("user_id = ? AND task_id = ? AND status = ?", userID, taskID, status).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count uploads: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) AllUploadsWithDetails() ([]models.UploadWithDetails, error) {
	rows := make([]models.UploadWithDetails, 0)
	err := s.db.Model(&models.Upload{}).
		Select("uploads.id, uploads.uploaded_at, users.username, tasks.title AS task_title, uploads.file_url, uploads.status").
		Joins("INNER JOIN users ON users.id = uploads.user_id").
		Joins("INNER JOIN tasks ON tasks.id = uploads.task_id").
		Order("uploads.uploaded_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list uploads with details: %w", err)
	}
	return rows, nil
}

func (s *GormStore) SetUploadFile(uploadID uuid.UUID, fileURL string) error {
	res := s.db.Model(&models.Upload{}).
		Where("id = ? AND file_url IS NULL", uploadID).
		Update("file_url", fileURL)
	if res.Error != nil {
		return fmt.Errorf("set upload file: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetUpload(uploadID); err != nil {
			return err
		}
		return ErrFileAlreadySet
	}
	return nil
}

func (s *GormStore) FinalizeUpload(uploadID uuid.UUID, status models.UploadStatus) error {
	res := s.db.Model(&models.Upload{}).
		Where("id = ? AND status = ?", uploadID, models.UploadStatusValidating).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("finalize upload: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetUpload(uploadID); err != nil {
			return err
		}
		return ErrAlreadyFinalized
	}
	return nil
}

func (s *GormStore) ApproveUpload(uploadID uuid.UUID) (*ApprovalResult, error) {
	var result ApprovalResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var upload models.Upload
		if err := tx.First(&upload, "id = ?", uploadID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("get upload: %w", err)
		}

		var task models.Task
		if err := tx.First(&task, "id = ?", upload.TaskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("get task: %w", err)
		}

		// Status-guarded transition: zero rows means another call got
		// here first, so the reward must not be applied again.
		res := tx.Model(&models.Upload{}).
			Where("id = ? AND status = ?", uploadID, models.UploadStatusValidating).
			Update("status", models.UploadStatusApproved)
		if res.Error != nil {
			return fmt.Errorf("approve upload: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyFinalized
		}

		res = tx.Model(&models.User{}).
			Where("id = ?", upload.UserID).
			UpdateColumn("balance", gorm.Expr("balance + ?", task.Reward))
		if res.Error != nil {
			return fmt.Errorf("award balance: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Rolls the status flip back rather than leaving the upload
			// approved but unpaid.
			return fmt.Errorf("award balance: owner %s: %w", upload.UserID, ErrNotFound)
		}

		var owner models.User
		if err := tx.First(&owner, "id = ?", upload.UserID).Error; err != nil {
			return fmt.Errorf("reload owner: %w", err)
		}

		result = ApprovalResult{Reward: task.Reward, NewBalance: owner.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
