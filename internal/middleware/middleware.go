package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hackernews-clone/backend/internal/auth"
)

// Auth parses an optional bearer token and, when valid, stores the user id in
// the request context. It never rejects the request: queries are public and
// protected mutations enforce authentication themselves, so a missing or bad
// token simply leaves the context unauthenticated.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if userID, err := auth.FromHeader(header); err == nil {
				c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), userID))
			}
		}
		c.Next()
	}
}
