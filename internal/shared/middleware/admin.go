package middleware

import (
	"inkdrop-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware checks if user has admin role. Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || !actor.IsAdmin() {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
