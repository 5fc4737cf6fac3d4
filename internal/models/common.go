// internal/models/common.go
package models

// Enums

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Difficulty string

const (
	DifficultyLow    Difficulty = "Low"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHigh   Difficulty = "High"
)

type UploadStatus string

const (
	UploadStatusValidating UploadStatus = "validating"
	UploadStatusApproved   UploadStatus = "approved"
	UploadStatusRejected   UploadStatus = "rejected"
	UploadStatusCancelled  UploadStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s UploadStatus) Terminal() bool {
	return s == UploadStatusApproved || s == UploadStatusRejected || s == UploadStatusCancelled
}
