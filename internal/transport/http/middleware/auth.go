package middleware

import (
	"net/http"
	"strings"

	"github.com/akmatoff/auth-api/internal/apierror"
	"github.com/akmatoff/auth-api/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "userID"
	ctxEmail  = "email"

	msgMissingHeader = "Missing authorization header"
	msgInvalidScheme = "Invalid authorization scheme"
)

// tokenVerifier is the subset of auth.TokenService the middleware needs.
type tokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// Authorized extracts and verifies the bearer token, storing the verified
// identity in the gin context. It holds no shared mutable state and is safe
// across concurrent requests.
func Authorized(tokens tokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, msgMissingHeader)
			return
		}

		scheme, token, _ := strings.Cut(header, " ")
		if scheme != "Bearer" {
			unauthorized(c, msgInvalidScheme)
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	resp := apierror.NewResponse([]string{msg}, http.StatusUnauthorized)
	c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
}
