package repos

import (
  "context"

  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/sahayakai/sahayak-backend/internal/logger"
  "github.com/sahayakai/sahayak-backend/internal/types"
)

type UserRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, users []*types.User) error
  GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.User, error)
  GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.User, error)
  List(ctx context.Context, tx *gorm.DB) ([]*types.User, error)
  ListTeachersByCluster(ctx context.Context, tx *gorm.DB, cluster string) ([]*types.User, error)
  ListTeachersByDistrict(ctx context.Context, tx *gorm.DB, district string) ([]*types.User, error)
}

type userRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
  return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) conn(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return ur.db
}

func (ur *userRepo) Upsert(ctx context.Context, tx *gorm.DB, users []*types.User) error {
  if len(users) == 0 {
    return nil
  }
  return ur.conn(tx).WithContext(ctx).
    Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
    Create(&users).Error
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.User, error) {
  var user types.User
  err := ur.conn(tx).WithContext(ctx).Where("id = ?", id).First(&user).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &user, nil
}

func (ur *userRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.User, error) {
  var user types.User
  err := ur.conn(tx).WithContext(ctx).Where("username = ?", username).First(&user).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &user, nil
}

func (ur *userRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
  var users []*types.User
  if err := ur.conn(tx).WithContext(ctx).Find(&users).Error; err != nil {
    return nil, err
  }
  return users, nil
}

func (ur *userRepo) ListTeachersByCluster(ctx context.Context, tx *gorm.DB, cluster string) ([]*types.User, error) {
  var users []*types.User
  if err := ur.conn(tx).WithContext(ctx).
    Where("role = ? AND cluster = ?", types.RoleTeacher, cluster).
    Find(&users).Error; err != nil {
    return nil, err
  }
  return users, nil
}

func (ur *userRepo) ListTeachersByDistrict(ctx context.Context, tx *gorm.DB, district string) ([]*types.User, error) {
  var users []*types.User
  if err := ur.conn(tx).WithContext(ctx).
    Where("role = ? AND district = ?", types.RoleTeacher, district).
    Find(&users).Error; err != nil {
    return nil, err
  }
  return users, nil
}
