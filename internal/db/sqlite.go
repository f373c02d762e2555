package db

import (
  "fmt"

  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/sahayakai/sahayak-backend/internal/logger"
  "github.com/sahayakai/sahayak-backend/internal/types"
  "github.com/sahayakai/sahayak-backend/internal/utils"
)

type SQLiteService struct {
  db  *gorm.DB
  log *logger.Logger
}

// NewSQLiteService opens the backing store. The default DSN is an in-memory
// database: records live only as long as the process, which is the intended
// durability level. Point SQLITE_DSN at a file to keep data across restarts.
func NewSQLiteService(log *logger.Logger) (*SQLiteService, error) {
  serviceLog := log.With("service", "SQLiteService")

  dsn := utils.GetEnv("SQLITE_DSN", "file::memory:?cache=shared", log)

  log.Info("Opening sqlite database...", "dsn", dsn)
  db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
  if err != nil {
    log.Error("Failed to open sqlite database", "error", err)
    return nil, fmt.Errorf("open sqlite: %w", err)
  }

  return &SQLiteService{db: db, log: serviceLog}, nil
}

func (s *SQLiteService) DB() *gorm.DB {
  return s.db
}

func (s *SQLiteService) AutoMigrateAll() error {
  s.log.Info("Auto migrating sqlite tables...")
  return s.db.AutoMigrate(
    &types.User{},
    &types.SOSRecord{},
    &types.Solution{},
  )
}
