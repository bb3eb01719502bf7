package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apierrors "github.com/yukikurage/kanban-board-api/internal/errors"
)

// RequireUUIDParams rejects the request unless every named path parameter is a UUID.
func RequireUUIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			if _, err := uuid.Parse(c.Param(name)); err != nil {
				apierrors.InvalidFormat(c, "Invalid "+name)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
