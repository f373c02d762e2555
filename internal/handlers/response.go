package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/sahayakai/sahayak-backend/internal/apierr"
  "github.com/sahayakai/sahayak-backend/internal/types"
)

// respondErr maps service errors onto HTTP responses. apierr carries its
// own status and code; anything else is a 500.
func respondErr(c *gin.Context, err error) {
  var apiErr *apierr.Error
  if errors.As(err, &apiErr) {
    c.JSON(apiErr.Status, gin.H{"error": apiErr.Error(), "code": apiErr.Code})
    return
  }
  c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// currentUser reads the authenticated user placed by the auth middleware.
func currentUser(c *gin.Context) *types.User {
  v, ok := c.Get("user")
  if !ok {
    return nil
  }
  user, _ := v.(*types.User)
  return user
}

// requireRole aborts with 403 unless the authenticated user has the role.
func requireRole(c *gin.Context, role types.UserRole) *types.User {
  user := currentUser(c)
  if user == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
    return nil
  }
  if user.Role != role {
    c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
    return nil
  }
  return user
}
