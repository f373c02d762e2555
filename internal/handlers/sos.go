package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"

  "github.com/sahayakai/sahayak-backend/internal/services"
  "github.com/sahayakai/sahayak-backend/internal/types"
)

type SOSHandler struct {
  sosService services.SOSService
}

func NewSOSHandler(sosService services.SOSService) *SOSHandler {
  return &SOSHandler{sosService: sosService}
}

// Help is the main endpoint: a teacher asks for help mid-lesson and gets a
// playbook back.
func (sh *SOSHandler) Help(c *gin.Context) {
  user := currentUser(c)
  if user == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
    return
  }

  var req types.SOSRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  resp, err := sh.sosService.Resolve(c.Request.Context(), user, req)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, resp)
}

// QuickFixes lists catalog entries for browsing, the teacher's own grades
// first.
func (sh *SOSHandler) QuickFixes(c *gin.Context) {
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
  c.JSON(http.StatusOK, gin.H{"quick_fixes": sh.sosService.QuickFixes(currentUser(c), limit)})
}

// Popular lists the most requested cached problems. CRP and DIET views use
// it to see what teachers are struggling with right now.
func (sh *SOSHandler) Popular(c *gin.Context) {
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
  c.JSON(http.StatusOK, gin.H{"popular": sh.sosService.Popular(c.Request.Context(), limit)})
}

func (sh *SOSHandler) MarkSuccess(c *gin.Context) {
  user := currentUser(c)
  if user == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
    return
  }

  var req struct {
    Success  *bool  `json:"success" binding:"required"`
    Feedback string `json:"feedback"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  if err := sh.sosService.MarkSuccess(c.Request.Context(), user, c.Param("sos_id"), *req.Success, req.Feedback); err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

func (sh *SOSHandler) History(c *gin.Context) {
  user := currentUser(c)
  if user == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
    return
  }

  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
  records, err := sh.sosService.History(c.Request.Context(), user, limit)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"history": records})
}
