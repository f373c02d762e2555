package types

type UserRole string

const (
  RoleTeacher UserRole = "teacher"
  RoleCRP     UserRole = "crp"
  RoleDIET    UserRole = "diet"
)

type User struct {
  ID            string   `gorm:"primaryKey;column:id" json:"id"`
  Name          string   `gorm:"not null;column:name" json:"name"`
  Username      string   `gorm:"uniqueIndex;not null;column:username" json:"username"`
  PasswordHash  string   `gorm:"not null;column:password_hash" json:"-"`
  Role          UserRole `gorm:"not null;column:role" json:"role"`
  District      string   `gorm:"column:district" json:"district"`
  Cluster       string   `gorm:"column:cluster" json:"cluster,omitempty"`
  School        string   `gorm:"column:school" json:"school,omitempty"`
  Language      string   `gorm:"column:language;default:hi" json:"language"`
  GradeTeaching []int    `gorm:"serializer:json;column:grade_teaching" json:"grade_teaching,omitempty"`
  Subjects      []string `gorm:"serializer:json;column:subjects" json:"subjects,omitempty"`
}

func (User) TableName() string {
  return "users"
}

type LoginRequest struct {
  Username string `json:"username" binding:"required"`
  Password string `json:"password" binding:"required"`
}

type Token struct {
  AccessToken string `json:"access_token"`
  TokenType   string `json:"token_type"`
  ExpiresIn   int    `json:"expires_in"`
  User        User   `json:"user"`
}
