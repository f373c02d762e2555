package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/sahayakai/sahayak-backend/internal/logger"
  "github.com/sahayakai/sahayak-backend/internal/types"
)

type SolutionFilter struct {
  Topic   string
  Grade   int
  Subject string
}

type SolutionRepo interface {
  Save(ctx context.Context, tx *gorm.DB, solution *types.Solution) (string, error)
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Solution, error)
  List(ctx context.Context, tx *gorm.DB, filter SolutionFilter, limit int) ([]types.Solution, error)
  Update(ctx context.Context, tx *gorm.DB, solution *types.Solution) error
}

type solutionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSolutionRepo(db *gorm.DB, baseLog *logger.Logger) SolutionRepo {
  return &solutionRepo{db: db, log: baseLog.With("repo", "SolutionRepo")}
}

func (sr *solutionRepo) conn(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return sr.db
}

func (sr *solutionRepo) Save(ctx context.Context, tx *gorm.DB, solution *types.Solution) (string, error) {
  if solution.ID == "" {
    solution.ID = uuid.NewString()[:8]
  }
  if err := sr.conn(tx).WithContext(ctx).Create(solution).Error; err != nil {
    return "", err
  }
  return solution.ID, nil
}

func (sr *solutionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Solution, error) {
  var solution types.Solution
  err := sr.conn(tx).WithContext(ctx).Where("id = ?", id).First(&solution).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &solution, nil
}

func (sr *solutionRepo) List(ctx context.Context, tx *gorm.DB, filter SolutionFilter, limit int) ([]types.Solution, error) {
  var solutions []types.Solution
  q := sr.conn(tx).WithContext(ctx).Model(&types.Solution{})
  if filter.Topic != "" {
    q = q.Where("LOWER(topic) LIKE ?", "%"+filter.Topic+"%")
  }
  if filter.Grade > 0 {
    q = q.Where("grade = ?", filter.Grade)
  }
  if filter.Subject != "" {
    q = q.Where("LOWER(subject) = LOWER(?)", filter.Subject)
  }
  q = q.Order("trust_score DESC").Order("usage_count DESC")
  if limit > 0 {
    q = q.Limit(limit)
  }
  if err := q.Find(&solutions).Error; err != nil {
    return nil, err
  }
  return solutions, nil
}

func (sr *solutionRepo) Update(ctx context.Context, tx *gorm.DB, solution *types.Solution) error {
  return sr.conn(tx).WithContext(ctx).Save(solution).Error
}
