// internal/models/upload.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upload is a user's submission for a task. It starts in "validating"
// and ends in exactly one of the terminal states.
type Upload struct {
	ID         uuid.UUID    `json:"id" gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID    `json:"userId" gorm:"type:uuid;not null;index"`
	TaskID     uuid.UUID    `json:"taskId" gorm:"type:uuid;not null;index"`
	Status     UploadStatus `json:"status" gorm:"type:varchar(20);not null;default:'validating'"`
	FileURL    *string      `json:"fileUrl" gorm:"column:file_url"`
	UploadedAt time.Time    `json:"uploadedAt" gorm:"autoCreateTime"`
}

func (u *Upload) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UploadWithDetails is the admin listing row: an upload joined with its
// owner's username and task title.
type UploadWithDetails struct {
	ID         uuid.UUID    `json:"id"`
	UploadedAt time.Time    `json:"uploadedAt"`
	Username   string       `json:"username"`
	TaskTitle  string       `json:"taskTitle"`
	FileURL    *string      `json:"fileUrl"`
	Status     UploadStatus `json:"status"`
}
