package middleware

import (
	"net/http"
	"strings"

	"todo_backend/internal/service"

	"github.com/gin-gonic/gin"
)

const userEmailKey = "user_email"

// JWT rejects requests without a valid bearer token and stores the
// verified email claim in the request context for handlers.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header missing"})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		email, err := service.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userEmailKey, email)
		c.Next()
	}
}

// UserEmail returns the identity injected by the JWT middleware.
func UserEmail(c *gin.Context) (string, bool) {
	v, ok := c.Get(userEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok && email != ""
}
