package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
)

// TokenParser turns a bearer token into the identity it claims.
type TokenParser interface {
	ParseToken(token string) (services.Caller, error)
}

// RequireAuth authenticates the caller via session or bearer token and
// re-fetches the person so handlers always see current role and status.
func RequireAuth(tokens TokenParser, guard *services.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimed, ok := claimedCaller(c, tokens)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		person, err := guard.Resolve(c.Request.Context(), claimed)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidUser):
				apierrors.InvalidUser(c, err.Error())
			case errors.Is(err, services.ErrForbidden):
				apierrors.Forbidden(c, err.Error())
			default:
				log.Printf("[%s] auth: %v", GetRequestID(c), err)
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		// Store the person in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, person.ID)
		c.Set(constants.ContextKeyPerson, *person)
		c.Next()
	}
}

// claimedCaller prefers a bearer token over the session cookie.
func claimedCaller(c *gin.Context, tokens TokenParser) (services.Caller, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokens == nil {
			return services.Caller{}, false
		}
		caller, err := tokens.ParseToken(strings.TrimSpace(token))
		if err != nil {
			return services.Caller{}, false
		}
		return caller, true
	}

	session := sessions.Default(c)
	id, ok := toUint64(session.Get(constants.ContextKeyUserID))
	if !ok {
		return services.Caller{}, false
	}
	return services.Caller{ID: id}, true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

// GetPerson retrieves the authenticated person from context
func GetPerson(c *gin.Context) (models.Person, bool) {
	value, exists := c.Get(constants.ContextKeyPerson)
	if !exists {
		return models.Person{}, false
	}
	person, ok := value.(models.Person)
	return person, ok
}

// GetCaller retrieves the authenticated caller from context
func GetCaller(c *gin.Context) (services.Caller, bool) {
	person, ok := GetPerson(c)
	if !ok {
		return services.Caller{}, false
	}
	return services.CallerFor(&person), true
}

func toUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
