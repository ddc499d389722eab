package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

// RequireRole only lets callers with one of the roles through.
// It must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, exists := GetPerson(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !slices.Contains(roles, person.Role) {
			apierrors.Forbidden(c, "Your role is not allowed to perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
