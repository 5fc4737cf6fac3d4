// internal/tests/helpers_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/skillset/skillset-backend/internal/config"
	"github.com/skillset/skillset-backend/internal/models"
	"github.com/skillset/skillset-backend/internal/router"
	"github.com/skillset/skillset-backend/internal/services"
	"github.com/skillset/skillset-backend/internal/store"
	"github.com/skillset/skillset-backend/internal/utils"
)

const testPassword = "supersecret"

// fakeStorage implements services.ObjectStorage against an in-memory
// byte map.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) IssueUploadURL() (string, string, error) {
	id := uuid.New().String()
	return "https://storage.test/put/" + id, services.ObjectPathPrefix + "uploads/" + id, nil
}

func (f *fakeStorage) Open(objectPath string) (*services.StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[objectPath]
	if !ok {
		return nil, services.ErrObjectNotFound
	}
	return &services.StoredObject{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   "video/mp4",
		ContentLength: int64(len(data)),
	}, nil
}

func (f *fakeStorage) put(objectPath string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectPath] = data
}

// fakeMailer records contact submissions instead of delivering them.
type fakeMailer struct {
	mu   sync.Mutex
	sent []services.ContactForm
	err  error
}

func (m *fakeMailer) SendContactEmail(form *services.ContactForm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, *form)
	return nil
}

// ipCounter hands each test environment its own client IP so the
// per-IP rate limiters never couple separate suites.
var ipCounter int64

type testEnv struct {
	store   *store.MemoryStore
	storage *fakeStorage
	mailer  *fakeMailer
	router  *gin.Engine
	cfg     *config.Config
	ip      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	n := atomic.AddInt64(&ipCounter, 1)
	cfg := &config.Config{
		Environment: "test",
		Session: config.SessionConfig{
			SecretKey:  "test-secret",
			CookieName: "skillset_session",
			TTL:        1,
		},
		Price: config.PriceConfig{
			OrcaBaseURL: "http://127.0.0.1:1",
			SkillMint:   "SKILL",
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}

	env := &testEnv{
		store:   store.NewMemoryStore(),
		storage: newFakeStorage(),
		mailer:  &fakeMailer{},
		cfg:     cfg,
		ip:      fmt.Sprintf("10.0.%d.%d", n/250, n%250+1),
	}
	env.router = router.Initialize(env.store, env.storage, env.mailer, cfg)
	return env
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Forwarded-For", e.ip)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	return rows
}

func (e *testEnv) createUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: username, Role: role}
	require.NoError(t, user.SetPassword(testPassword))
	require.NoError(t, e.store.CreateUser(user))
	return user
}

func (e *testEnv) createTask(t *testing.T, title string, reward int) *models.Task {
	t.Helper()
	task := &models.Task{Title: title, Difficulty: models.DifficultyMedium, Reward: reward}
	require.NoError(t, e.store.CreateTask(task))
	return task
}

// sessionCookie establishes a session directly against the store,
// bypassing the login endpoint and its rate limiter.
func (e *testEnv) sessionCookie(t *testing.T, userID uuid.UUID) *http.Cookie {
	t.Helper()

	session := &models.Session{
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, e.store.CreateSession(session))

	token, err := utils.GenerateSessionToken(session.ID, 1)
	require.NoError(t, err)

	return &http.Cookie{Name: e.cfg.Session.CookieName, Value: token}
}

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("response carries no %q cookie", name)
	return nil
}
