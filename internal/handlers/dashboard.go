package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/sahayakai/sahayak-backend/internal/services"
  "github.com/sahayakai/sahayak-backend/internal/types"
)

type DashboardHandler struct {
  dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
  return &DashboardHandler{dashboardService: dashboardService}
}

func (dh *DashboardHandler) Teacher(c *gin.Context) {
  user := requireRole(c, types.RoleTeacher)
  if user == nil {
    return
  }
  dash, err := dh.dashboardService.Teacher(c.Request.Context(), user)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, dash)
}

func (dh *DashboardHandler) CRP(c *gin.Context) {
  user := requireRole(c, types.RoleCRP)
  if user == nil {
    return
  }
  dash, err := dh.dashboardService.CRP(c.Request.Context(), user)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, dash)
}

func (dh *DashboardHandler) DIET(c *gin.Context) {
  user := requireRole(c, types.RoleDIET)
  if user == nil {
    return
  }
  dash, err := dh.dashboardService.DIET(c.Request.Context(), user)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, dash)
}
