package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quizhost-service/internal/app"
)

// RequireAuth guards admin routes with a Bearer token and stores the verified
// identity on the request context.
func RequireAuth(auth *app.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "authorization header required"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "invalid authorization header format"})
			return
		}
		identity, err := auth.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "invalid or expired token"})
			return
		}
		c.Set("email", identity.Email)
		c.Set("role", identity.Role)
		c.Next()
	}
}
