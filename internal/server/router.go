package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/sahayakai/sahayak-backend/internal/handlers"
)

type RouterConfig struct {
  AppName            string
  AuthMiddleware     gin.HandlerFunc
  HealthcheckHandler *handlers.HealthcheckHandler
  AuthHandler        *handlers.AuthHandler
  SOSHandler         *handlers.SOSHandler
  ResourcesHandler   *handlers.ResourcesHandler
  DashboardHandler   *handlers.DashboardHandler
  CollectiveHandler  *handlers.CollectiveHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware(cfg.AppName))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:3000",
      "http://localhost:5173",
      "http://localhost:8080",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
  router.POST("/api/auth/login", cfg.AuthHandler.Login)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/api")
  protected.Use(cfg.AuthMiddleware)
  // Auth
  protected.GET("/auth/me", cfg.AuthHandler.Me)
  protected.GET("/auth/users", cfg.AuthHandler.Users)
  // SOS
  protected.POST("/sos/help", cfg.SOSHandler.Help)
  protected.GET("/sos/quick-fixes", cfg.SOSHandler.QuickFixes)
  protected.GET("/sos/popular", cfg.SOSHandler.Popular)
  protected.POST("/sos/:sos_id/success", cfg.SOSHandler.MarkSuccess)
  protected.GET("/sos/history", cfg.SOSHandler.History)
  // Resources
  protected.GET("/resources/ncert", cfg.ResourcesHandler.NCERTReferences)
  protected.GET("/resources/videos", cfg.ResourcesHandler.Videos)
  // Dashboards
  protected.GET("/dashboard/teacher", cfg.DashboardHandler.Teacher)
  protected.GET("/dashboard/crp", cfg.DashboardHandler.CRP)
  protected.GET("/dashboard/diet", cfg.DashboardHandler.DIET)
  // Collective
  protected.POST("/collective/solutions", cfg.CollectiveHandler.Share)
  protected.GET("/collective/solutions", cfg.CollectiveHandler.List)
  protected.POST("/collective/solutions/:solution_id/use", cfg.CollectiveHandler.Use)
  protected.POST("/collective/solutions/:solution_id/feedback", cfg.CollectiveHandler.Feedback)

  return router
}
