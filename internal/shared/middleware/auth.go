package middleware

import (
	"strings"

	"inkdrop-backend/internal/shared"
	"inkdrop-backend/internal/shared/response"
	"inkdrop-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
	contextActor  = "actor"
)

// AuthMiddleware verifies the bearer token and stores the caller in the context.
func AuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "Invalid user ID in token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Set(contextActor, &shared.Actor{UserID: userID, Email: claims.Email, Role: claims.Role})

		c.Next()
	}
}

// ActorFrom returns the caller stored by AuthMiddleware.
func ActorFrom(c *gin.Context) (*shared.Actor, bool) {
	v, ok := c.Get(contextActor)
	if !ok {
		return nil, false
	}
	actor, ok := v.(*shared.Actor)
	return actor, ok && actor != nil
}
