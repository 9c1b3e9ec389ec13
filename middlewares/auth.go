package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"

	"imghost/errs"
	"imghost/models"
)

// IdentityKey is the gin context key holding the *models.Identity of an authenticated request.
const IdentityKey = "user"

type Authenticator interface {
	Authenticate(token string) (*models.Identity, error)
}

// JWT guards the routes behind it with a session token, read from the
// Authorization header first (API clients) and then from the session cookie (browsers).
func JWT(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := auth.Authenticate(SessionToken(c, cookieName))
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// SessionToken returns the bearer token of the request, or "" when none was sent.
func SessionToken(c *gin.Context, cookieName string) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		// Expecting format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}

	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

// CurrentIdentity returns the identity stored by JWT, if any.
func CurrentIdentity(c *gin.Context) (*models.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*models.Identity)
	return id, ok
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errs.HTTPStatus(errs.KindOf(err)), models.ErrorResponse{
		Success: false,
		Error:   errs.MessageOf(err),
	})
}
