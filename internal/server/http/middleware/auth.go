package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/printmart/printmart/internal/pkg/auth"
)

const (
	// UserIDContextKey is a gin context key for the authenticated user id.
	UserIDContextKey = "userID"
	// StoreIDContextKey is a gin context key for the authenticated store id.
	StoreIDContextKey = "storeID"

	authCookieName = "printmart_token"
)

// TokenParser validates session tokens and reports the subject and scope.
type TokenParser interface {
	ParseToken(token string) (int64, pkgAuth.Scope, error)
}

// UserAuth requires a user-scoped token and stores the user id in the context.
func UserAuth(parser TokenParser) gin.HandlerFunc {
	return scopedAuth(parser, pkgAuth.ScopeUser, UserIDContextKey)
}

// MerchantAuth requires a merchant-scoped token, whose subject is the store
// id, and stores it in the context.
func MerchantAuth(parser TokenParser) gin.HandlerFunc {
	return scopedAuth(parser, pkgAuth.ScopeMerchant, StoreIDContextKey)
}

func scopedAuth(parser TokenParser, want pkgAuth.Scope, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		subjectID, scope, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if scope != want {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(contextKey, subjectID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes the session token cookie to the response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
