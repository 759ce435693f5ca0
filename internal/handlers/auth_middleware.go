package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crowddocs/contribution-service/internal/auth"
	"github.com/crowddocs/contribution-service/internal/models"
)

const (
	// AuthCookieName is the HTTP-only cookie carrying the auth token.
	AuthCookieName = "auth_token"

	identityContextKey = "identity"
)

// AuthMiddleware resolves the caller identity from the auth cookie or a
// bearer header and enforces role requirements per route group.
type AuthMiddleware struct {
	issuer *auth.Issuer
	secure bool
}

func NewAuthMiddleware(issuer *auth.Issuer, secure bool) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer, secure: secure}
}

// SetAuthCookie writes the auth token as an HTTP-only, strict-same-site
// cookie with a max-age matching the token lifetime.
func (am *AuthMiddleware) SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, token, int(auth.AuthTokenTTL.Seconds()), "/", "", am.secure, true)
}

// Authenticate rejects requests without a valid auth-purpose token and
// stores the resolved Identity in the request context.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := am.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
			})
			c.Abort()
			return
		}

		claims, err := am.issuer.Verify(token, auth.PurposeAuth)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			c.Abort()
			return
		}

		identity, err := auth.IdentityFromClaims(claims)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid token payload",
			})
			c.Abort()
			return
		}

		c.Set(identityContextKey, identity)
		c.Next()
	}
}

// RequireRoleMiddleware gates a route group on one of the given roles.
// Must run after Authenticate.
func (am *AuthMiddleware) RequireRoleMiddleware(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := identityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
			})
			c.Abort()
			return
		}

		if err := auth.RequireRole(identity, roles...); err != nil {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "Forbidden - insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (am *AuthMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// identityFrom reads the Identity set by Authenticate.
func identityFrom(c *gin.Context) (auth.Identity, bool) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
