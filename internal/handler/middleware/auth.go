package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"mess-market/internal/pkg/cookie"
	"mess-market/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserIDKey = "user_id"
	ctxRollKey   = "user_roll"
)

type AuthMiddleware struct {
	jwtService *jwt.Service
}

func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// RequireAuth accepts the access token from the cookie or, for non-browser
// clients, a Bearer header.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.GetAccessToken(c)

		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimSpace(authHeader[len("Bearer "):])
			}
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil || claims.TokenType != jwt.TokenTypeAccess {
			slog.Warn("token validation failed in auth middleware", "error", errString(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRollKey, claims.Roll)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetUserRoll(c *gin.Context) (string, bool) {
	roll, exists := c.Get(ctxRollKey)
	if !exists {
		return "", false
	}
	r, ok := roll.(string)
	return r, ok
}

func errString(err error) string {
	if err == nil {
		return "wrong token type"
	}
	return err.Error()
}
