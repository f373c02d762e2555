package services

import (
	"context"
	"net/http"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/sahayakai/sahayak-backend/internal/apierr"
	"github.com/sahayakai/sahayak-backend/internal/logger"
	"github.com/sahayakai/sahayak-backend/internal/repos"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

// DashboardService aggregates SOS history into the three role views:
// teachers see their own signals, CRPs their cluster, DIETs their district.
type DashboardService interface {
	Teacher(ctx context.Context, user *types.User) (*types.TeacherDashboard, error)
	CRP(ctx context.Context, user *types.User) (*types.CRPDashboard, error)
	DIET(ctx context.Context, user *types.User) (*types.DIETDashboard, error)
}

type dashboardService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	sosRepo  repos.SOSRepo
}

func NewDashboardService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, sosRepo repos.SOSRepo) DashboardService {
	return &dashboardService{
		db:       db,
		log:      log.With("service", "DashboardService"),
		userRepo: userRepo,
		sosRepo:  sosRepo,
	}
}

func (ds *dashboardService) Teacher(ctx context.Context, user *types.User) (*types.TeacherDashboard, error) {
	records, err := ds.sosRepo.ListByTeacher(ctx, nil, user.ID, 0)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "dashboard_failed", err)
	}

	stats := computeStats(records)
	signal, message := readiness(records)

	recent := records
	if len(recent) > 5 {
		recent = recent[:5]
	}

	saved := make([]types.SOSRecord, 0, 5)
	for _, r := range records {
		if r.Success != nil && *r.Success {
			saved = append(saved, r)
			if len(saved) == 5 {
				break
			}
		}
	}

	return &types.TeacherDashboard{
		User: map[string]any{
			"id":     user.ID,
			"name":   user.Name,
			"school": user.School,
			"grades": user.GradeTeaching,
		},
		Stats:            stats,
		ReadinessSignal:  signal,
		ReadinessMessage: message,
		RecentSOS:        recent,
		SavedSolutions:   saved,
		UpcomingTopics:   repeatedTopics(records, 2),
	}, nil
}

func (ds *dashboardService) CRP(ctx context.Context, user *types.User) (*types.CRPDashboard, error) {
	teachers, err := ds.userRepo.ListTeachersByCluster(ctx, nil, user.Cluster)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "dashboard_failed", err)
	}

	ids := make([]string, 0, len(teachers))
	for _, t := range teachers {
		ids = append(ids, t.ID)
	}
	records, err := ds.sosRepo.ListByTeachers(ctx, nil, ids)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "dashboard_failed", err)
	}

	byTeacher := make(map[string][]types.SOSRecord)
	for _, r := range records {
		byTeacher[r.TeacherID] = append(byTeacher[r.TeacherID], r)
	}

	engagement := make([]types.TeacherEngagement, 0, len(teachers))
	atRisk := 0
	for _, t := range teachers {
		own := byTeacher[t.ID]
		stats := computeStats(own)
		signal, _ := readiness(own)
		if signal == types.ReadinessAtRisk {
			atRisk++
		}
		engagement = append(engagement, types.TeacherEngagement{
			TeacherID:       t.ID,
			TeacherName:     t.Name,
			School:          t.School,
			SOSCount:        stats.TotalSOS,
			SuccessRate:     stats.SuccessRate,
			MostCommonTopic: mostCommonTopic(own),
			Readiness:       signal,
		})
	}
	sort.SliceStable(engagement, func(i, j int) bool {
		return engagement[i].SOSCount > engagement[j].SOSCount
	})

	return &types.CRPDashboard{
		Cluster:            user.Cluster,
		TotalTeachers:      len(teachers),
		TotalSOS:           len(records),
		OverallSuccessRate: computeStats(records).SuccessRate,
		TeacherEngagement:  engagement,
		TopIssues:          topicCounts(records, 5),
		AtRiskTeachers:     atRisk,
	}, nil
}

func (ds *dashboardService) DIET(ctx context.Context, user *types.User) (*types.DIETDashboard, error) {
	teachers, err := ds.userRepo.ListTeachersByDistrict(ctx, nil, user.District)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "dashboard_failed", err)
	}

	ids := make([]string, 0, len(teachers))
	for _, t := range teachers {
		ids = append(ids, t.ID)
	}
	records, err := ds.sosRepo.ListByTeachers(ctx, nil, ids)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "dashboard_failed", err)
	}

	gaps := learningGaps(records)
	needs := trainingNeeds(records)

	health := 1.0
	if stats := computeStats(records); stats.TotalSOS > 0 {
		health = stats.SuccessRate
	}

	return &types.DIETDashboard{
		District:      user.District,
		TotalTeachers: len(teachers),
		TotalSOS:      len(records),
		LearningGaps:  gaps,
		TrainingNeeds: needs,
		HealthScore:   health,
	}, nil
}

func computeStats(records []types.SOSRecord) types.TeacherStats {
	stats := types.TeacherStats{TotalSOS: len(records)}

	weekAgo := time.Now().AddDate(0, 0, -7)
	rated, succeeded := 0, 0
	for _, r := range records {
		if r.CreatedAt.After(weekAgo) {
			stats.ThisWeek++
		}
		if r.Success != nil {
			rated++
			if *r.Success {
				succeeded++
			}
		}
	}
	if rated > 0 {
		stats.SuccessRate = float64(succeeded) / float64(rated)
	}
	return stats
}

// readiness turns a teacher's history into a coarse support signal. A topic
// asked about again and again, or a high failure rate, both mean the
// teacher needs help before the next lesson, not after it.
func readiness(records []types.SOSRecord) (types.ReadinessSignal, string) {
	if len(records) == 0 {
		return types.ReadinessReady, "No help requests yet. All good!"
	}

	rated, failed := 0, 0
	for _, r := range records {
		if r.Success != nil {
			rated++
			if !*r.Success {
				failed++
			}
		}
	}

	failureRate := 0.0
	if rated > 0 {
		failureRate = float64(failed) / float64(rated)
	}
	repeated := repeatedTopics(records, 3)

	switch {
	case failureRate > 0.5 && rated >= 4:
		return types.ReadinessAtRisk, "Many recent solutions did not work. A mentor visit would help."
	case len(repeated) > 0 || failureRate > 0.3:
		return types.ReadinessNeedsSupport, "Some topics keep coming back. Extra preparation support recommended."
	default:
		return types.ReadinessReady, "Teaching signals look healthy. Keep going!"
	}
}

// repeatedTopics lists topics that show up at least minCount times.
func repeatedTopics(records []types.SOSRecord, minCount int) []string {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Context.Topic != "" {
			counts[r.Context.Topic]++
		}
	}

	out := make([]string, 0)
	for topic, n := range counts {
		if n >= minCount {
			out = append(out, topic)
		}
	}
	sort.Strings(out)
	return out
}

func mostCommonTopic(records []types.SOSRecord) string {
	counts := topicCounts(records, 1)
	if len(counts) == 0 {
		return ""
	}
	return counts[0].Topic
}

func topicCounts(records []types.SOSRecord, limit int) []types.TopicCount {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Context.Topic != "" {
			counts[r.Context.Topic]++
		}
	}

	out := make([]types.TopicCount, 0, len(counts))
	for topic, n := range counts {
		out = append(out, types.TopicCount{Topic: topic, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Topic < out[j].Topic
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type gapKey struct {
	topic   string
	subject string
	grade   int
}

func learningGaps(records []types.SOSRecord) []types.LearningGap {
	type gapAgg struct {
		total    int
		failed   int
		teachers map[string]struct{}
	}

	aggs := make(map[gapKey]*gapAgg)
	for _, r := range records {
		if r.Context.Topic == "" {
			continue
		}
		grade := 0
		if r.Context.Grade != nil {
			grade = *r.Context.Grade
		}
		key := gapKey{topic: r.Context.Topic, subject: r.Context.Subject, grade: grade}
		agg, ok := aggs[key]
		if !ok {
			agg = &gapAgg{teachers: make(map[string]struct{})}
			aggs[key] = agg
		}
		agg.total++
		agg.teachers[r.TeacherID] = struct{}{}
		if r.Success != nil && !*r.Success {
			agg.failed++
		}
	}

	out := make([]types.LearningGap, 0, len(aggs))
	for key, agg := range aggs {
		if agg.total < 2 {
			continue
		}
		failureRate := float64(agg.failed) / float64(agg.total)
		out = append(out, types.LearningGap{
			Topic:            key.topic,
			Subject:          key.subject,
			Grade:            key.grade,
			GapScore:         clamp01(0.5*failureRate + 0.1*float64(agg.total)),
			AffectedTeachers: len(agg.teachers),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].GapScore > out[j].GapScore })
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func trainingNeeds(records []types.SOSRecord) []types.TrainingNeed {
	type needAgg struct {
		rated    int
		failed   int
		teachers map[string]struct{}
		subject  string
	}

	aggs := make(map[string]*needAgg)
	for _, r := range records {
		if r.Context.Topic == "" || r.Success == nil {
			continue
		}
		agg, ok := aggs[r.Context.Topic]
		if !ok {
			agg = &needAgg{teachers: make(map[string]struct{}), subject: r.Context.Subject}
			aggs[r.Context.Topic] = agg
		}
		agg.rated++
		agg.teachers[r.TeacherID] = struct{}{}
		if !*r.Success {
			agg.failed++
		}
	}

	out := make([]types.TrainingNeed, 0)
	for topic, agg := range aggs {
		failureRate := float64(agg.failed) / float64(agg.rated)
		if failureRate < 0.4 {
			continue
		}
		priority := "medium"
		if failureRate > 0.6 && len(agg.teachers) >= 2 {
			priority = "high"
		}
		out = append(out, types.TrainingNeed{
			Topic:        topic,
			Subject:      agg.subject,
			Priority:     priority,
			TeacherCount: len(agg.teachers),
			FailureRate:  failureRate,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FailureRate != out[j].FailureRate {
			return out[i].FailureRate > out[j].FailureRate
		}
		return out[i].Topic < out[j].Topic
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
