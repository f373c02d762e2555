package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"

  "github.com/sahayakai/sahayak-backend/internal/services"
)

// ResourcesHandler serves the supporting material lookups: textbook
// references and teaching videos.
type ResourcesHandler struct {
  catalog      *services.Catalog
  videoService services.VideoService
}

func NewResourcesHandler(catalog *services.Catalog, videoService services.VideoService) *ResourcesHandler {
  return &ResourcesHandler{catalog: catalog, videoService: videoService}
}

func (rh *ResourcesHandler) NCERTReferences(c *gin.Context) {
  topic := c.Query("topic")
  if topic == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "topic query parameter is required"})
    return
  }

  var grade *int
  if g, err := strconv.Atoi(c.Query("grade")); err == nil {
    grade = &g
  }
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))

  refs := rh.catalog.GetReferences(topic, grade, c.Query("subject"), limit)
  c.JSON(http.StatusOK, gin.H{"references": refs})
}

func (rh *ResourcesHandler) Videos(c *gin.Context) {
  query := c.Query("q")
  if query == "" {
    query = c.Query("topic")
  }
  if query == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
    return
  }

  var grade *int
  if g, err := strconv.Atoi(c.Query("grade")); err == nil {
    grade = &g
  }
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))

  videos := rh.videoService.Search(c.Request.Context(), query, grade, c.Query("language"), limit)
  c.JSON(http.StatusOK, gin.H{"videos": videos})
}
