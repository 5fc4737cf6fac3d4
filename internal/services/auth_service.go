// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skillset/skillset-backend/internal/config"
	"github.com/skillset/skillset-backend/internal/models"
	"github.com/skillset/skillset-backend/internal/store"
	"github.com/skillset/skillset-backend/internal/utils"
)

type AuthService struct {
	store store.Store
	cfg   *config.Config
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func NewAuthService(st store.Store, cfg *config.Config) *AuthService {
	return &AuthService{store: st, cfg: cfg}
}

func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	if _, err := s.store.GetUserByUsername(req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Role:     models.RoleUser,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.CreateUser(user); err != nil {
		// Two registrations can race past the lookup; the unique index
		// decides the winner.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(req *LoginRequest) (*models.User, error) {
	user, err := s.store.GetUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// StartSession creates the server-side session record and returns the
// signed cookie token for it.
func (s *AuthService) StartSession(userID uuid.UUID) (string, error) {
	session := &models.Session{
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.Session.TTL) * time.Hour),
	}
	if err := s.store.CreateSession(session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	token, err := utils.GenerateSessionToken(session.ID, s.cfg.Session.TTL)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (s *AuthService) EndSession(sessionID uuid.UUID) error {
	if err := s.store.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *AuthService) CurrentUser(userID uuid.UUID) (*models.User, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
