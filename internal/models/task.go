// internal/models/task.go
package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a biddable unit of work with a fixed reward. Tasks are
// read-only through the API and seeded out-of-band.
type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Difficulty  Difficulty `json:"difficulty" gorm:"type:varchar(10);not null"`
	Reward      int        `json:"reward" gorm:"not null;check:reward > 0"`
	Description *string    `json:"description"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
