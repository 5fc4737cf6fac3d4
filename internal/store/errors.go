// internal/store/errors.go
package store

import "errors"

var (
	// ErrNotFound means the referenced row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate means an insert violated a uniqueness rule (duplicate
	// username, or a second validating upload for the same user/task).
	ErrDuplicate = errors.New("duplicate record")

	// ErrAlreadyFinalized means the upload is already in a terminal state.
	ErrAlreadyFinalized = errors.New("upload already finalized")

	// ErrFileAlreadySet means the upload's file URL was attached before.
	ErrFileAlreadySet = errors.New("upload file already set")
)
