// internal/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skillset/skillset-backend/internal/config"
	"github.com/skillset/skillset-backend/internal/services"
	"github.com/skillset/skillset-backend/internal/store"
	"github.com/skillset/skillset-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	session     config.SessionConfig
}

func NewAuthHandler(authService *services.AuthService, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		session:     session,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, token, h.session.TTL*3600, "/", "", h.session.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.session.Secure, true)
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.BadRequestResponse(c, utils.ValidationMessage(err))
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			utils.BadRequestResponse(c, "Username already exists")
			return
		}
		logrus.WithError(err).Error("Register failed")
		utils.InternalErrorResponse(c, "")
		return
	}

	token, err := h.authService.StartSession(user.ID)
	if err != nil {
		logrus.WithError(err).Error("Session start failed after registration")
		utils.InternalErrorResponse(c, "Login failed after registration")
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, user.Public())
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.BadRequestResponse(c, utils.ValidationMessage(err))
		return
	}

	user, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.UnauthorizedResponse(c, "Invalid credentials")
			return
		}
		logrus.WithError(err).Error("Login failed")
		utils.InternalErrorResponse(c, "")
		return
	}

	token, err := h.authService.StartSession(user.ID)
	if err != nil {
		logrus.WithError(err).Error("Session start failed")
		utils.InternalErrorResponse(c, "Login failed")
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, user.Public())
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, ok := utils.GetSessionIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.authService.EndSession(sessionID); err != nil {
		logrus.WithError(err).Error("Logout failed")
		utils.InternalErrorResponse(c, "Logout failed")
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.authService.CurrentUser(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFoundResponse(c, "User not found")
			return
		}
		logrus.WithError(err).Error("Current user lookup failed")
		utils.InternalErrorResponse(c, "")
		return
	}

	c.JSON(http.StatusOK, user.Public())
}
