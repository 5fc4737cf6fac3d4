// internal/store/memory_test.go
package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillset/skillset-backend/internal/models"
)

func seedUpload(t *testing.T, s *MemoryStore, reward int) (*models.User, *models.Upload) {
	t.Helper()

	user := &models.User{Username: "alice"}
	require.NoError(t, s.CreateUser(user))

	task := &models.Task{Title: "Sort Recycling", Difficulty: models.DifficultyMedium, Reward: reward}
	require.NoError(t, s.CreateTask(task))

	upload := &models.Upload{UserID: user.ID, TaskID: task.ID}
	require.NoError(t, s.CreateUpload(upload))
	return user, upload
}

func TestCreateUserDuplicate(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.CreateUser(&models.User{Username: "alice"}))

	err := s.CreateUser(&models.User{Username: "alice"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateUploadDuplicatePending(t *testing.T) {
	s := NewMemoryStore()
	user, upload := seedUpload(t, s, 100)

	err := s.CreateUpload(&models.Upload{UserID: user.ID, TaskID: upload.TaskID})
	assert.ErrorIs(t, err, ErrDuplicate)

	// A finalized upload frees the slot again.
	require.NoError(t, s.FinalizeUpload(upload.ID, models.UploadStatusCancelled))
	assert.NoError(t, s.CreateUpload(&models.Upload{UserID: user.ID, TaskID: upload.TaskID}))
}

func TestApproveUpload(t *testing.T) {
	s := NewMemoryStore()
	user, upload := seedUpload(t, s, 100)

	result, err := s.ApproveUpload(upload.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Reward)
	assert.Equal(t, 100, result.NewBalance)

	stored, err := s.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Balance)

	got, err := s.GetUpload(upload.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadStatusApproved, got.Status)
}

func TestApproveUploadAlreadyFinalized(t *testing.T) {
	s := NewMemoryStore()
	user, upload := seedUpload(t, s, 100)

	_, err := s.ApproveUpload(upload.ID)
	require.NoError(t, err)

	_, err = s.ApproveUpload(upload.ID)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	stored, err := s.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Balance)
}

// Concurrent approvals of the same upload must credit the reward
// exactly once.
func TestApproveUploadConcurrent(t *testing.T) {
	s := NewMemoryStore()
	user, upload := seedUpload(t, s, 100)

	const workers = 16
	var wg sync.WaitGroup
	results := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = s.ApproveUpload(upload.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyFinalized)
		}
	}
	assert.Equal(t, 1, succeeded)

	stored, err := s.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Balance)
}

func TestFinalizeUploadGuards(t *testing.T) {
	s := NewMemoryStore()
	_, upload := seedUpload(t, s, 100)

	require.NoError(t, s.FinalizeUpload(upload.ID, models.UploadStatusRejected))

	err := s.FinalizeUpload(upload.ID, models.UploadStatusCancelled)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	got, err := s.GetUpload(upload.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadStatusRejected, got.Status)
}

func TestSetUploadFileOnce(t *testing.T) {
	s := NewMemoryStore()
	_, upload := seedUpload(t, s, 100)

	require.NoError(t, s.SetUploadFile(upload.ID, "/objects/uploads/first"))

	err := s.SetUploadFile(upload.ID, "/objects/uploads/second")
	assert.ErrorIs(t, err, ErrFileAlreadySet)

	got, err := s.GetUpload(upload.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FileURL)
	assert.Equal(t, "/objects/uploads/first", *got.FileURL)
}

func TestGetUploadReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	_, upload := seedUpload(t, s, 100)

	got, err := s.GetUpload(upload.ID)
	require.NoError(t, err)
	got.Status = models.UploadStatusApproved

	again, err := s.GetUpload(upload.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadStatusValidating, again.Status)
}

func TestErrNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, upload := seedUpload(t, s, 100)

	_, err := s.GetUser(upload.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
