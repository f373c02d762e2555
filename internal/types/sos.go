package types

import "time"

// SOSContext is the resolved classroom context for a request. Grade is nil
// when unknown; language always carries a known code ("hi" by default).
type SOSContext struct {
  Grade            *int     `json:"grade,omitempty"`
  Subject          string   `json:"subject,omitempty"`
  Topic            string   `json:"topic,omitempty"`
  Language         string   `json:"language"`
  RuralConstraints []string `json:"rural_constraints,omitempty"`
}

type SOSRequest struct {
  Text    string      `json:"text"`
  Context *SOSContext `json:"context,omitempty"`
}

type SimilarSolution struct {
  ID          string  `json:"id"`
  Problem     string  `json:"problem"`
  SuccessRate float64 `json:"success_rate"`
}

type SOSResponse struct {
  SOSID            string            `json:"sos_id"`
  ExtractedContext SOSContext        `json:"extracted_context"`
  Playbook         Playbook          `json:"playbook"`
  FromCache        bool              `json:"from_cache"`
  CacheKey         string            `json:"cache_key,omitempty"`
  SimilarSolutions []SimilarSolution `json:"similar_solutions,omitempty"`
}

// SOSRecord is the append-only history entry for a resolved request.
// Success and Feedback are set at most once, by the mark-success operation.
type SOSRecord struct {
  ID          string     `gorm:"primaryKey;column:id" json:"id"`
  TeacherID   string     `gorm:"index;not null;column:teacher_id" json:"teacher_id"`
  RequestText string     `gorm:"not null;column:request_text" json:"request_text"`
  Context     SOSContext `gorm:"serializer:json;column:context" json:"context"`
  ResponseID  string     `gorm:"column:response_id" json:"response_id"`
  FromCache   bool       `gorm:"column:from_cache" json:"from_cache"`
  Success     *bool      `gorm:"column:success" json:"success,omitempty"`
  Feedback    string     `gorm:"column:feedback" json:"feedback,omitempty"`
  CreatedAt   time.Time  `gorm:"not null;column:created_at" json:"created_at"`
}

func (SOSRecord) TableName() string {
  return "sos_records"
}

// Solution is a teacher-shared remedy in the collective pool. TrustScore and
// SuccessRate move only through the feedback operation and stay in [0.1, 1.0].
type Solution struct {
  ID          string  `gorm:"primaryKey;column:id" json:"id"`
  Problem     string  `gorm:"not null;column:problem" json:"problem"`
  Solution    string  `gorm:"not null;column:solution" json:"solution"`
  Grade       int     `gorm:"index;column:grade" json:"grade"`
  Subject     string  `gorm:"column:subject" json:"subject"`
  Topic       string  `gorm:"column:topic" json:"topic"`
  TeacherID   string  `gorm:"column:teacher_id" json:"-"`
  TeacherName string  `gorm:"column:teacher_name" json:"teacher_name"`
  District    string  `gorm:"column:district" json:"district,omitempty"`
  Anonymous   bool    `gorm:"column:anonymous" json:"anonymous"`
  TrustScore  float64 `gorm:"column:trust_score" json:"trust_score"`
  UsageCount  int     `gorm:"column:usage_count" json:"usage_count"`
  SuccessRate float64 `gorm:"column:success_rate" json:"success_rate"`
}

func (Solution) TableName() string {
  return "solutions"
}
