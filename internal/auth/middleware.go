package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
)

// LoginPath is where visitors without a session are sent.
const LoginPath = "/log_in"

// Middleware exposes the session identity to handlers.
type Middleware struct {
	sessionManager *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(sessionManager *SessionManager) *Middleware {
	return &Middleware{sessionManager: sessionManager}
}

// Handler copies the logged in user, if any, from the session into the Gin
// context. It never rejects a request; use RequireSession for that.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if data := m.sessionManager.GetSessionData(c.Request); data != nil {
			c.Set(ContextKeyUserID, data.UserID)
			c.Set(ContextKeyUsername, data.Username)
		}
		c.Next()
	}
}

// RequireSession redirects visitors without a session to the login page.
func (m *Middleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUsername(c) == "" {
			m.sessionManager.AddFlash(c.Request.Context(), "Please log in to continue.")
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns 0 if not authenticated.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetUsername retrieves the authenticated user's username from the context.
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		if username, ok := name.(string); ok {
			return username
		}
	}
	return ""
}

// IsAuthenticated returns true if the request carries a logged in session.
func IsAuthenticated(c *gin.Context) bool {
	return GetUsername(c) != ""
}
