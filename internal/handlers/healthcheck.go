package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
)

// CacheHealth reports whether the response cache survived its startup
// health check.
type CacheHealth interface {
  Available() bool
}

type HealthcheckHandler struct {
  appName string
  cache   CacheHealth
}

func NewHealthcheckHandler(appName string, cache CacheHealth) *HealthcheckHandler {
  return &HealthcheckHandler{appName: appName, cache: cache}
}

func (hh *HealthcheckHandler) Healthcheck(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{
    "status":  "healthy",
    "service": hh.appName,
    "cache":   hh.cache.Available(),
  })
}
