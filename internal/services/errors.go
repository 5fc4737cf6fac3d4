// internal/services/errors.go
package services

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTaskNotFound   = errors.New("task not found")
	ErrUploadNotFound = errors.New("upload not found")
	ErrTaskCompleted  = errors.New("task already completed")
	ErrPendingUpload  = errors.New("pending upload exists for this task")
	ErrNotOwner       = errors.New("caller does not own the upload")

	ErrInvalidObjectPath = errors.New("invalid object path format")
	ErrObjectNotFound    = errors.New("object not found")
)
