package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"

  "github.com/sahayakai/sahayak-backend/internal/repos"
  "github.com/sahayakai/sahayak-backend/internal/services"
)

type CollectiveHandler struct {
  collectiveService services.CollectiveService
}

func NewCollectiveHandler(collectiveService services.CollectiveService) *CollectiveHandler {
  return &CollectiveHandler{collectiveService: collectiveService}
}

func (ch *CollectiveHandler) Share(c *gin.Context) {
  user := currentUser(c)
  if user == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
    return
  }

  var req services.ShareSolutionRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  solution, err := ch.collectiveService.Share(c.Request.Context(), user, req)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusCreated, solution)
}

func (ch *CollectiveHandler) List(c *gin.Context) {
  filter := repos.SolutionFilter{
    Topic:   c.Query("topic"),
    Subject: c.Query("subject"),
  }
  if g, err := strconv.Atoi(c.Query("grade")); err == nil {
    filter.Grade = g
  }
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

  solutions, err := ch.collectiveService.List(c.Request.Context(), filter, limit)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"solutions": solutions})
}

func (ch *CollectiveHandler) Use(c *gin.Context) {
  solution, err := ch.collectiveService.Use(c.Request.Context(), c.Param("solution_id"))
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, solution)
}

func (ch *CollectiveHandler) Feedback(c *gin.Context) {
  var req struct {
    Success *bool `json:"success" binding:"required"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  solution, err := ch.collectiveService.Feedback(c.Request.Context(), c.Param("solution_id"), *req.Success)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, solution)
}
