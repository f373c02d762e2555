package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/sahayakai/sahayak-backend/internal/services"
  "github.com/sahayakai/sahayak-backend/internal/types"
)

type AuthHandler struct {
  authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
  return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req types.LoginRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  token, err := ah.authService.Login(c.Request.Context(), req.Username, req.Password)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, token)
}

func (ah *AuthHandler) Users(c *gin.Context) {
  users, err := ah.authService.Users(c.Request.Context())
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

func (ah *AuthHandler) Me(c *gin.Context) {
  user := currentUser(c)
  if user == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
    return
  }
  c.JSON(http.StatusOK, user)
}
