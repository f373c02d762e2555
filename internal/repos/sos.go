package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/sahayakai/sahayak-backend/internal/logger"
  "github.com/sahayakai/sahayak-backend/internal/types"
)

type SOSRepo interface {
  Save(ctx context.Context, tx *gorm.DB, record *types.SOSRecord) (string, error)
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.SOSRecord, error)
  ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID string, limit int) ([]types.SOSRecord, error)
  ListByTeachers(ctx context.Context, tx *gorm.DB, teacherIDs []string) ([]types.SOSRecord, error)
  SetSuccess(ctx context.Context, tx *gorm.DB, id string, success bool, feedback string) (bool, error)
}

type sosRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSOSRepo(db *gorm.DB, baseLog *logger.Logger) SOSRepo {
  return &sosRepo{db: db, log: baseLog.With("repo", "SOSRepo")}
}

func (sr *sosRepo) conn(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return sr.db
}

func (sr *sosRepo) Save(ctx context.Context, tx *gorm.DB, record *types.SOSRecord) (string, error) {
  if record.ID == "" {
    record.ID = uuid.NewString()[:8]
  }
  if record.CreatedAt.IsZero() {
    record.CreatedAt = time.Now()
  }
  if err := sr.conn(tx).WithContext(ctx).Create(record).Error; err != nil {
    return "", err
  }
  return record.ID, nil
}

func (sr *sosRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.SOSRecord, error) {
  var record types.SOSRecord
  err := sr.conn(tx).WithContext(ctx).Where("id = ?", id).First(&record).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &record, nil
}

func (sr *sosRepo) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID string, limit int) ([]types.SOSRecord, error) {
  var records []types.SOSRecord
  q := sr.conn(tx).WithContext(ctx).
    Where("teacher_id = ?", teacherID).
    Order("created_at DESC")
  if limit > 0 {
    q = q.Limit(limit)
  }
  if err := q.Find(&records).Error; err != nil {
    return nil, err
  }
  return records, nil
}

func (sr *sosRepo) ListByTeachers(ctx context.Context, tx *gorm.DB, teacherIDs []string) ([]types.SOSRecord, error) {
  var records []types.SOSRecord
  if len(teacherIDs) == 0 {
    return records, nil
  }
  if err := sr.conn(tx).WithContext(ctx).
    Where("teacher_id IN ?", teacherIDs).
    Order("created_at DESC").
    Find(&records).Error; err != nil {
    return nil, err
  }
  return records, nil
}

// SetSuccess records feedback on a resolved request. Returns false when no
// record with the id exists.
func (sr *sosRepo) SetSuccess(ctx context.Context, tx *gorm.DB, id string, success bool, feedback string) (bool, error) {
  updates := map[string]any{"success": success}
  if feedback != "" {
    updates["feedback"] = feedback
  }
  res := sr.conn(tx).WithContext(ctx).
    Model(&types.SOSRecord{}).
    Where("id = ?", id).
    Updates(updates)
  if res.Error != nil {
    return false, res.Error
  }
  return res.RowsAffected > 0, nil
}
