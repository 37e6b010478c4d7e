package middleware

import (
	"net/http"

	"kanba/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDKey is the gin context key the authenticated user's ID is stored
// under for downstream handlers.
const UserIDKey = "userID"

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

// SessionAuth resolves the session cookie against the session store and
// attaches the owning user's ID to the request context. A missing,
// malformed, unknown or expired token is a 401; a failing store is a 500,
// so a broken auth subsystem is never mistaken for a logged-out user.
func SessionAuth(sessions repository.SessionRepositoryInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		sessionID, err := uuid.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		ok, err := sessions.Exists(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
			c.Abort()
			return
		}
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		session, err := sessions.Resolve(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
			c.Abort()
			return
		}
		if session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, session.UserID)
		c.Next()
	}
}

// AuthenticatedUser pulls the user ID the auth gate stored on the
// context. The second return is false when the route is not behind the
// gate, which is a programming error in the route table.
func AuthenticatedUser(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
