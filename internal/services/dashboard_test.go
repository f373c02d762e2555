package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/sahayakai/sahayak-backend/internal/logger"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

type fakeUserRepo struct {
	users map[string]*types.User
}

func newFakeUserRepo(users ...*types.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*types.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Upsert(ctx context.Context, tx *gorm.DB, users []*types.User) error {
	for _, u := range users {
		f.users[u.ID] = u
	}
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	out := make([]*types.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) ListTeachersByCluster(ctx context.Context, tx *gorm.DB, cluster string) ([]*types.User, error) {
	out := make([]*types.User, 0)
	for _, u := range f.users {
		if u.Role == types.RoleTeacher && u.Cluster == cluster {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListTeachersByDistrict(ctx context.Context, tx *gorm.DB, district string) ([]*types.User, error) {
	out := make([]*types.User, 0)
	for _, u := range f.users {
		if u.Role == types.RoleTeacher && u.District == district {
			out = append(out, u)
		}
	}
	return out, nil
}

func boolPtr(v bool) *bool { return &v }

func seedRecords(repo *fakeSOSRepo, teacherID, topic string, outcomes []*bool) {
	for _, outcome := range outcomes {
		rec := &types.SOSRecord{
			TeacherID:   teacherID,
			RequestText: "help with " + topic,
			Context:     types.SOSContext{Topic: topic, Subject: "Math", Grade: intPtr(3), Language: "hi"},
		}
		id, _ := repo.Save(context.Background(), nil, rec)
		if outcome != nil {
			repo.SetSuccess(context.Background(), nil, id, *outcome, "")
		}
	}
}

func TestTeacherDashboardReadiness(t *testing.T) {
	teacher := testTeacher()
	teacher.Cluster = "Block A"
	userRepo := newFakeUserRepo(teacher)

	// Healthy history: a few requests, all succeeded.
	sosRepo := newFakeSOSRepo()
	seedRecords(sosRepo, teacher.ID, "Addition", []*bool{boolPtr(true), boolPtr(true)})

	svc := NewDashboardService(nil, logger.NewNop(), userRepo, sosRepo)
	dash, err := svc.Teacher(context.Background(), teacher)
	if err != nil {
		t.Fatalf("teacher dashboard: %v", err)
	}
	if dash.ReadinessSignal != types.ReadinessReady {
		t.Fatalf("healthy history must read ready, got %s", dash.ReadinessSignal)
	}
	if dash.Stats.TotalSOS != 2 || dash.Stats.SuccessRate != 1.0 {
		t.Fatalf("unexpected stats: %+v", dash.Stats)
	}

	// Same topic over and over flags support.
	sosRepo = newFakeSOSRepo()
	seedRecords(sosRepo, teacher.ID, "Fractions", []*bool{nil, nil, nil, nil})
	svc = NewDashboardService(nil, logger.NewNop(), userRepo, sosRepo)
	dash, _ = svc.Teacher(context.Background(), teacher)
	if dash.ReadinessSignal != types.ReadinessNeedsSupport {
		t.Fatalf("repeated topic must flag support, got %s", dash.ReadinessSignal)
	}

	// Mostly failing solutions flag risk.
	sosRepo = newFakeSOSRepo()
	seedRecords(sosRepo, teacher.ID, "Division", []*bool{boolPtr(false), boolPtr(false), boolPtr(false), boolPtr(true)})
	seedRecords(sosRepo, teacher.ID, "Reading", []*bool{boolPtr(false)})
	svc = NewDashboardService(nil, logger.NewNop(), userRepo, sosRepo)
	dash, _ = svc.Teacher(context.Background(), teacher)
	if dash.ReadinessSignal != types.ReadinessAtRisk {
		t.Fatalf("high failure rate must flag risk, got %s", dash.ReadinessSignal)
	}
}

func TestCRPDashboardAggregation(t *testing.T) {
	t1 := &types.User{ID: "t1", Name: "Teacher One", Role: types.RoleTeacher, Cluster: "Block A", District: "Sitapur", School: "GPS 1"}
	t2 := &types.User{ID: "t2", Name: "Teacher Two", Role: types.RoleTeacher, Cluster: "Block A", District: "Sitapur", School: "GPS 2"}
	elsewhere := &types.User{ID: "t3", Name: "Other", Role: types.RoleTeacher, Cluster: "Block B", District: "Sitapur"}
	crp := &types.User{ID: "c1", Name: "CRP", Role: types.RoleCRP, Cluster: "Block A"}
	userRepo := newFakeUserRepo(t1, t2, elsewhere, crp)

	sosRepo := newFakeSOSRepo()
	seedRecords(sosRepo, "t1", "Addition", []*bool{boolPtr(true), boolPtr(true), boolPtr(false)})
	seedRecords(sosRepo, "t2", "Addition", []*bool{boolPtr(false)})
	seedRecords(sosRepo, "t3", "Counting", []*bool{boolPtr(true)})

	svc := NewDashboardService(nil, logger.NewNop(), userRepo, sosRepo)
	dash, err := svc.CRP(context.Background(), crp)
	if err != nil {
		t.Fatalf("crp dashboard: %v", err)
	}

	if dash.TotalTeachers != 2 {
		t.Fatalf("cluster has 2 teachers, got %d", dash.TotalTeachers)
	}
	if dash.TotalSOS != 4 {
		t.Fatalf("other clusters must not leak in, got %d records", dash.TotalSOS)
	}
	if len(dash.TopIssues) == 0 || dash.TopIssues[0].Topic != "Addition" {
		t.Fatalf("expected Addition as top issue: %+v", dash.TopIssues)
	}
	if len(dash.TeacherEngagement) != 2 || dash.TeacherEngagement[0].SOSCount < dash.TeacherEngagement[1].SOSCount {
		t.Fatalf("engagement not sorted by volume: %+v", dash.TeacherEngagement)
	}
}

func TestDIETDashboardTrainingNeeds(t *testing.T) {
	t1 := &types.User{ID: "t1", Role: types.RoleTeacher, District: "Sitapur"}
	t2 := &types.User{ID: "t2", Role: types.RoleTeacher, District: "Sitapur"}
	diet := &types.User{ID: "d1", Role: types.RoleDIET, District: "Sitapur"}
	userRepo := newFakeUserRepo(t1, t2, diet)

	sosRepo := newFakeSOSRepo()
	seedRecords(sosRepo, "t1", "Fractions", []*bool{boolPtr(false), boolPtr(false), boolPtr(false)})
	seedRecords(sosRepo, "t2", "Fractions", []*bool{boolPtr(false), boolPtr(true)})
	seedRecords(sosRepo, "t1", "Counting", []*bool{boolPtr(true), boolPtr(true)})

	svc := NewDashboardService(nil, logger.NewNop(), userRepo, sosRepo)
	dash, err := svc.DIET(context.Background(), diet)
	if err != nil {
		t.Fatalf("diet dashboard: %v", err)
	}

	if len(dash.TrainingNeeds) == 0 {
		t.Fatalf("expected a training need for fractions")
	}
	need := dash.TrainingNeeds[0]
	if need.Topic != "Fractions" || need.Priority != "high" || need.TeacherCount != 2 {
		t.Fatalf("unexpected training need: %+v", need)
	}
	if len(dash.LearningGaps) == 0 {
		t.Fatalf("expected learning gaps")
	}
	if dash.HealthScore < 0 || dash.HealthScore > 1 {
		t.Fatalf("health score out of range: %v", dash.HealthScore)
	}
}
