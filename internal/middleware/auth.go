package middleware

import (
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"

  "github.com/sahayakai/sahayak-backend/internal/logger"
  "github.com/sahayakai/sahayak-backend/internal/services"
)

// Auth validates the bearer token and stashes the user on the context
// under "user".
func Auth(log *logger.Logger, authService services.AuthService) gin.HandlerFunc {
  authLog := log.With("middleware", "Auth")
  return func(c *gin.Context) {
    header := c.GetHeader("Authorization")
    if header == "" || !strings.HasPrefix(header, "Bearer ") {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
      return
    }

    user, err := authService.UserFromToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
    if err != nil {
      authLog.Debug("Token rejected", "path", c.FullPath(), "error", err.Error())
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
      return
    }

    c.Set("user", user)
    c.Next()
  }
}
