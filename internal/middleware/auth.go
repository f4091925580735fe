package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mannequins/backend/internal/apperr"
	"mannequins/backend/internal/auth"
	"mannequins/backend/internal/models"
	"mannequins/backend/internal/storage"
)

// A private key for context access
type contextKey string

const userContextKey = contextKey("user")

// UserLoader is the slice of the store the middleware needs.
type UserLoader interface {
	VerifyUser(ctx context.Context, filter storage.UserFilter) (*models.User, error)
}

// RequireAuth verifies the bearer token on each request, loads the
// active user record and stores it in the request context.
func RequireAuth(issuer *auth.TokenIssuer, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := issuer.Verify(tokenString)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindExpired {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			return
		}
		if claims.TokenType != auth.TokenTypeBearer {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token type"})
			return
		}

		user, err := users.VerifyUser(c.Request.Context(), storage.UserFilter{ID: claims.UserID})
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			return
		}
		if user.Status == models.StatusDisabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Inactive user"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userContextKey, user)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ForContext finds the authenticated user from the context.
func ForContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}
