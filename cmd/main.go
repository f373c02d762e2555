package main

import (
  "context"
  "fmt"
  "os"

  "github.com/sahayakai/sahayak-backend/internal/clients/gemini"
  "github.com/sahayakai/sahayak-backend/internal/clients/rediscache"
  "github.com/sahayakai/sahayak-backend/internal/clients/youtube"
  "github.com/sahayakai/sahayak-backend/internal/config"
  "github.com/sahayakai/sahayak-backend/internal/data"
  "github.com/sahayakai/sahayak-backend/internal/db"
  "github.com/sahayakai/sahayak-backend/internal/handlers"
  "github.com/sahayakai/sahayak-backend/internal/logger"
  "github.com/sahayakai/sahayak-backend/internal/middleware"
  "github.com/sahayakai/sahayak-backend/internal/observability"
  "github.com/sahayakai/sahayak-backend/internal/repos"
  "github.com/sahayakai/sahayak-backend/internal/server"
  "github.com/sahayakai/sahayak-backend/internal/services"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  ctx := context.Background()

  // Env
  log.Info("Loading configuration from main...")
  cfg := config.Load(log)

  // Tracing
  otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
    ServiceName: "sahayak-backend",
    Environment: os.Getenv("APP_ENV"),
  })
  if otelShutdown != nil {
    defer otelShutdown(ctx)
  }

  // SQLite
  sqliteService, err := db.NewSQLiteService(log)
  if err != nil {
    log.Error("SQLite init failed", "error", err)
    os.Exit(1)
  }
  if err = sqliteService.AutoMigrateAll(); err != nil {
    log.Error("SQLite auto migration failed", "error", err)
    os.Exit(1)
  }
  theDB := sqliteService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(theDB, log)
  sosRepo := repos.NewSOSRepo(theDB, log)
  solutionRepo := repos.NewSolutionRepo(theDB, log)

  // Seed demo data
  if err := db.SeedDemoUsers(ctx, log, userRepo); err != nil {
    log.Error("Could not seed demo users", "error", err)
    os.Exit(1)
  }
  if err := db.SeedDemoSolutions(ctx, log, solutionRepo); err != nil {
    log.Warn("Could not seed demo solutions", "error", err)
  }

  // Static catalogs
  quickFixes, err := data.LoadQuickFixes()
  if err != nil {
    log.Error("Could not load quick fixes", "error", err)
    os.Exit(1)
  }
  ncertRefs, err := data.LoadNCERTRefs()
  if err != nil {
    log.Error("Could not load ncert references", "error", err)
    os.Exit(1)
  }
  curatedVideos, err := data.LoadVideos()
  if err != nil {
    log.Error("Could not load curated videos", "error", err)
    os.Exit(1)
  }

  // Clients
  log.Info("Setting up Clients from main...")
  cache := rediscache.New(log, cfg.RedisAddr, cfg.RedisPassword)

  var geminiClient gemini.Client
  if cfg.GeminiAPIKey != "" {
    geminiClient, err = gemini.NewClient(log, cfg.GeminiAPIKey)
    if err != nil {
      log.Warn("Could not init GeminiClient; generation will serve fallbacks", "error", err)
    }
  } else {
    log.Warn("GEMINI_API_KEY not set; generation will serve fallbacks")
  }

  var youtubeClient youtube.Client
  if cfg.YouTubeAPIKey != "" {
    youtubeClient, err = youtube.NewClient(ctx, log, cfg.YouTubeAPIKey)
    if err != nil {
      log.Warn("Could not init YouTubeClient; using curated videos", "error", err)
    }
  } else {
    log.Warn("YOUTUBE_API_KEY not set; using curated videos")
  }

  // Services
  log.Info("Setting up Services from main...")
  catalog := services.NewCatalog(log, quickFixes, ncertRefs)

  var extractorBackend services.ExtractorBackend
  if cfg.ExtractorBackend == "model" && geminiClient != nil {
    extractorBackend = services.NewModelExtractorBackend(log, geminiClient)
  }
  extractor := services.NewContextExtractor(log, extractorBackend)

  generator := services.NewPlaybookGenerator(log, geminiClient, cfg.GenerationTimeout)
  videoService := services.NewVideoService(log, youtubeClient, curatedVideos)
  authService := services.NewAuthService(theDB, log, userRepo, cfg.JWTSecret, cfg.JWTExpiry)
  sosService := services.NewSOSService(
    theDB,
    log,
    cfg,
    services.NewKeyDeriver(cfg.TopicKeyLength),
    cache,
    catalog,
    extractor,
    generator,
    videoService,
    sosRepo,
  )
  dashboardService := services.NewDashboardService(theDB, log, userRepo, sosRepo)
  collectiveService := services.NewCollectiveService(theDB, log, solutionRepo)

  // Handlers
  log.Info("Setting up Handlers from main...")
  router := server.NewRouter(server.RouterConfig{
    AppName:            cfg.AppName,
    AuthMiddleware:     middleware.Auth(log, authService),
    HealthcheckHandler: handlers.NewHealthcheckHandler(cfg.AppName, cache),
    AuthHandler:        handlers.NewAuthHandler(authService),
    SOSHandler:         handlers.NewSOSHandler(sosService),
    ResourcesHandler:   handlers.NewResourcesHandler(catalog, videoService),
    DashboardHandler:   handlers.NewDashboardHandler(dashboardService),
    CollectiveHandler:  handlers.NewCollectiveHandler(collectiveService),
  })

  log.Info("Starting server...", "port", cfg.Port)
  if err := router.Run(":" + cfg.Port); err != nil {
    log.Error("Server exited", "error", err)
    os.Exit(1)
  }
}
