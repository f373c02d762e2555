package config

import (
  "time"

  "github.com/sahayakai/sahayak-backend/internal/logger"
  "github.com/sahayakai/sahayak-backend/internal/utils"
)

type Config struct {
  AppName string
  Port    string

  // External services
  RedisAddr     string
  RedisPassword string
  GeminiAPIKey  string
  YouTubeAPIKey string

  // Auth
  JWTSecret string
  JWTExpiry time.Duration

  // Resolution policy knobs. MatchThreshold and TopicKeyLength mirror the
  // historical constants (0.8, 50) but stay overridable.
  MatchThreshold    float64
  TopicKeyLength    int
  GeneratedTTL      time.Duration
  QuickFixTTL       time.Duration
  GenerationTimeout time.Duration

  ExtractorBackend string // "model" or "rules"
}

func Load(log *logger.Logger) Config {
  return Config{
    AppName: "SAHAYAK AI",
    Port:    utils.GetEnv("PORT", "8080", log),

    RedisAddr:     utils.GetEnv("REDIS_ADDR", "localhost:6379", log),
    RedisPassword: utils.GetEnv("REDIS_PASSWORD", "", log),
    GeminiAPIKey:  utils.GetEnv("GEMINI_API_KEY", "", log),
    YouTubeAPIKey: utils.GetEnv("YOUTUBE_API_KEY", "", log),

    JWTSecret: utils.GetEnv("JWT_SECRET", "sahayak-ai-secret-key-2024", log),
    JWTExpiry: time.Duration(utils.GetEnvAsInt("JWT_EXPIRY_HOURS", 24, log)) * time.Hour,

    MatchThreshold:    utils.GetEnvAsFloat("SOS_MATCH_THRESHOLD", 0.8, log),
    TopicKeyLength:    utils.GetEnvAsInt("SOS_TOPIC_KEY_LENGTH", 50, log),
    GeneratedTTL:      time.Duration(utils.GetEnvAsInt("SOS_CACHE_TTL_SECONDS", 3600, log)) * time.Second,
    QuickFixTTL:       time.Duration(utils.GetEnvAsInt("SOS_QUICK_FIX_TTL_SECONDS", 7200, log)) * time.Second,
    GenerationTimeout: time.Duration(utils.GetEnvAsInt("GEMINI_TIMEOUT_SECONDS", 20, log)) * time.Second,

    ExtractorBackend: utils.GetEnv("EXTRACTOR_BACKEND", "model", log),
  }
}
