package types

type ReadinessSignal string

const (
  ReadinessReady        ReadinessSignal = "ready"
  ReadinessNeedsSupport ReadinessSignal = "needs_support"
  ReadinessAtRisk       ReadinessSignal = "at_risk"
)

type TeacherStats struct {
  TotalSOS    int     `json:"total_sos"`
  SuccessRate float64 `json:"success_rate"`
  ThisWeek    int     `json:"this_week"`
}

type TeacherDashboard struct {
  User             map[string]any  `json:"user"`
  Stats            TeacherStats    `json:"stats"`
  ReadinessSignal  ReadinessSignal `json:"readiness_signal"`
  ReadinessMessage string          `json:"readiness_message"`
  RecentSOS        []SOSRecord     `json:"recent_sos"`
  SavedSolutions   []SOSRecord     `json:"saved_solutions"`
  UpcomingTopics   []string        `json:"upcoming_topics"`
}

type TeacherEngagement struct {
  TeacherID       string          `json:"teacher_id"`
  TeacherName     string          `json:"teacher_name"`
  School          string          `json:"school"`
  SOSCount        int             `json:"sos_count"`
  SuccessRate     float64         `json:"success_rate"`
  MostCommonTopic string          `json:"most_common_topic"`
  Readiness       ReadinessSignal `json:"readiness"`
}

type CRPDashboard struct {
  Cluster            string              `json:"cluster"`
  TotalTeachers      int                 `json:"total_teachers"`
  TotalSOS           int                 `json:"total_sos"`
  OverallSuccessRate float64             `json:"overall_success_rate"`
  TeacherEngagement  []TeacherEngagement `json:"teacher_engagement"`
  TopIssues          []TopicCount        `json:"top_issues"`
  AtRiskTeachers     int                 `json:"at_risk_teachers"`
}

type TopicCount struct {
  Topic string `json:"topic"`
  Count int    `json:"count"`
}

type LearningGap struct {
  Topic            string  `json:"topic"`
  Subject          string  `json:"subject"`
  Grade            int     `json:"grade"`
  GapScore         float64 `json:"gap_score"`
  AffectedTeachers int     `json:"affected_teachers"`
}

type TrainingNeed struct {
  Topic        string  `json:"topic"`
  Subject      string  `json:"subject"`
  Priority     string  `json:"priority"`
  TeacherCount int     `json:"teacher_count"`
  FailureRate  float64 `json:"failure_rate"`
}

type DIETDashboard struct {
  District      string         `json:"district"`
  TotalTeachers int            `json:"total_teachers"`
  TotalSOS      int            `json:"total_sos"`
  LearningGaps  []LearningGap  `json:"learning_gaps"`
  TrainingNeeds []TrainingNeed `json:"training_needs"`
  HealthScore   float64        `json:"district_health_score"`
}
