// internal/middleware/auth.go
package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/skillset/skillset-backend/internal/models"
	"github.com/skillset/skillset-backend/internal/store"
	"github.com/skillset/skillset-backend/internal/utils"
)

// SessionRequired authenticates the request from the session cookie.
// The cookie token must verify and its session record must still exist
// and be unexpired; logout therefore revokes access immediately.
func SessionRequired(st store.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			utils.UnauthorizedResponse(c, "Not authenticated")
			c.Abort()
			return
		}

		sessionID, err := utils.ParseSessionToken(token)
		if err != nil {
			utils.UnauthorizedResponse(c, "Not authenticated")
			c.Abort()
			return
		}

		session, err := st.GetSession(sessionID)
		if err != nil {
			utils.UnauthorizedResponse(c, "Not authenticated")
			c.Abort()
			return
		}
		if session.Expired() {
			st.DeleteSession(session.ID)
			utils.UnauthorizedResponse(c, "Session expired")
			c.Abort()
			return
		}

		c.Set(utils.ContextSessionID, session.ID)
		c.Set(utils.ContextUserID, session.UserID)

		// The user row can be gone while the session lingers; handlers
		// that need the user decide how to respond.
		if user, err := st.GetUser(session.UserID); err == nil {
			c.Set(utils.ContextUserRole, user.Role)
		} else if !errors.Is(err, store.ErrNotFound) {
			utils.InternalErrorResponse(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminRequired gates admin-only routes on the user's role, not merely
// on being logged in.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := utils.GetUserRoleFromContext(c)
		if !exists || role != models.RoleAdmin {
			utils.ForbiddenResponse(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
