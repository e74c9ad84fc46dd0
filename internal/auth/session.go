package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Session is the authenticated identity for a single request. It is built
// from verified JWT claims and passed explicitly into services; nothing in
// the core keeps process-wide user state between calls.
type Session struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// Authenticated reports whether the session carries a real identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != uuid.Nil
}

// SessionFromContext rebuilds the session from gin context values set by the
// JWT middleware. Returns nil when the request carries no valid identity.
func SessionFromContext(c *gin.Context) *Session {
	userIDValue, exists := c.Get("user_id")
	if !exists {
		return nil
	}

	userIDStr, ok := userIDValue.(string)
	if !ok {
		return nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil
	}

	session := &Session{UserID: userID}
	if v, ok := c.Get("user_email"); ok {
		if s, ok := v.(string); ok {
			session.Email = s
		}
	}
	if v, ok := c.Get("user_role"); ok {
		if s, ok := v.(string); ok {
			session.Role = s
		}
	}
	return session
}
