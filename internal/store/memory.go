// internal/store/memory.go
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillset/skillset-backend/internal/models"
)

// MemoryStore implements Store with in-process maps. It backs local
// development without a PostgreSQL instance and the test suites. All
// operations run under one mutex, which also serializes the
// approve-and-award critical section.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]models.User
	sessions map[uuid.UUID]models.Session
	tasks    map[uuid.UUID]models.Task
	uploads  map[uuid.UUID]models.Upload
	taskIDs  []uuid.UUID // preserves insertion order for listing
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uuid.UUID]models.User),
		sessions: make(map[uuid.UUID]models.Session),
		tasks:    make(map[uuid.UUID]models.Task),
		uploads:  make(map[uuid.UUID]models.Upload),
	}
}

// Users

func (s *MemoryStore) GetUser(id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByUsername(username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

// Sessions

func (s *MemoryStore) CreateSession(session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()
	s.sessions[session.ID] = *session
	return nil
}

func (s *MemoryStore) GetSession(id uuid.UUID) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *MemoryStore) DeleteSession(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Tasks

func (s *MemoryStore) AllTasks() ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]models.Task, 0, len(s.taskIDs))
	for _, id := range s.taskIDs {
		tasks = append(tasks, s.tasks[id])
	}
	return tasks, nil
}

func (s *MemoryStore) GetTask(id uuid.UUID) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &task, nil
}

func (s *MemoryStore) CreateTask(task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	s.tasks[task.ID] = *task
	s.taskIDs = append(s.taskIDs, task.ID)
	return nil
}

// Uploads

func (s *MemoryStore) CreateUpload(upload *models.Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.uploads {
		if existing.UserID == upload.UserID &&
			existing.TaskID == upload.TaskID &&
			existing.Status == models.UploadStatusValidating {
			return ErrDuplicate
		}
	}
	if upload.ID == uuid.Nil {
		upload.ID = uuid.New()
	}
	if upload.Status == "" {
		upload.Status = models.UploadStatusValidating
	}
	if upload.UploadedAt.IsZero() {
		upload.UploadedAt = time.Now()
	}
	s.uploads[upload.ID] = *upload
	return nil
}

func (s *MemoryStore) GetUpload(id uuid.UUID) (*models.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	upload, ok := s.uploads[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &upload, nil
}

func (s *MemoryStore) UserUploads(userID uuid.UUID) ([]models.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uploads := make([]models.Upload, 0)
	for _, upload := range s.uploads {
		if upload.UserID == userID {
			uploads = append(uploads, upload)
		}
	}
	sort.Slice(uploads, func(i, j int) bool {
		return uploads[i].UploadedAt.After(uploads[j].UploadedAt)
	})
	return uploads, nil
}

func (s *MemoryStore) HasApprovedUpload(userID, taskID uuid.UUID) (bool, error) {
	return s.hasUploadWithStatus(userID, taskID, models.UploadStatusApproved)
}

func (s *MemoryStore) HasPendingUpload(userID, taskID uuid.UUID) (bool, error) {
	return s.hasUploadWithStatus(userID, taskID, models.UploadStatusValidating)
}

func (s *MemoryStore) hasUploadWithStatus(userID, taskID uuid.UUID, status models.UploadStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, upload := range s.uploads {
		if upload.UserID == userID && upload.TaskID == taskID && upload.Status == status {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) AllUploadsWithDetails() ([]models.UploadWithDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]models.UploadWithDetails, 0, len(s.uploads))
	for _, upload := range s.uploads {
		user, userOK := s.users[upload.UserID]
		task, taskOK := s.tasks[upload.TaskID]
		if !userOK || !taskOK {
			continue
		}
		rows = append(rows, models.UploadWithDetails{
			ID:         upload.ID,
			UploadedAt: upload.UploadedAt,
			Username:   user.Username,
			TaskTitle:  task.Title,
			FileURL:    upload.FileURL,
			Status:     upload.Status,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].UploadedAt.After(rows[j].UploadedAt)
	})
	return rows, nil
}

func (s *MemoryStore) SetUploadFile(uploadID uuid.UUID, fileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	upload, ok := s.uploads[uploadID]
	if !ok {
		return ErrNotFound
	}
	if upload.FileURL != nil {
		return ErrFileAlreadySet
	}
	upload.FileURL = &fileURL
	s.uploads[uploadID] = upload
	return nil
}

func (s *MemoryStore) FinalizeUpload(uploadID uuid.UUID, status models.UploadStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	upload, ok := s.uploads[uploadID]
	if !ok {
		return ErrNotFound
	}
	if upload.Status.Terminal() {
		return ErrAlreadyFinalized
	}
	upload.Status = status
	s.uploads[uploadID] = upload
	return nil
}

func (s *MemoryStore) ApproveUpload(uploadID uuid.UUID) (*ApprovalResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	upload, ok := s.uploads[uploadID]
	if !ok {
		return nil, ErrNotFound
	}
	task, ok := s.tasks[upload.TaskID]
	if !ok {
		return nil, ErrNotFound
	}
	if upload.Status.Terminal() {
		return nil, ErrAlreadyFinalized
	}
	owner, ok := s.users[upload.UserID]
	if !ok {
		return nil, ErrNotFound
	}

	upload.Status = models.UploadStatusApproved
	s.uploads[uploadID] = upload

	owner.Balance += task.Reward
	s.users[owner.ID] = owner

	return &ApprovalResult{Reward: task.Reward, NewBalance: owner.Balance}, nil
}
