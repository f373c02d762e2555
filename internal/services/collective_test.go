package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/sahayakai/sahayak-backend/internal/apierr"
	"github.com/sahayakai/sahayak-backend/internal/logger"
	"github.com/sahayakai/sahayak-backend/internal/repos"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

type fakeSolutionRepo struct {
	mu        sync.Mutex
	solutions map[string]*types.Solution
	seq       int
}

func newFakeSolutionRepo() *fakeSolutionRepo {
	return &fakeSolutionRepo{solutions: make(map[string]*types.Solution)}
}

func (f *fakeSolutionRepo) Save(ctx context.Context, tx *gorm.DB, solution *types.Solution) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if solution.ID == "" {
		f.seq++
		solution.ID = fmt.Sprintf("sol-%d", f.seq)
	}
	cp := *solution
	f.solutions[solution.ID] = &cp
	return solution.ID, nil
}

func (f *fakeSolutionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Solution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sol, ok := f.solutions[id]
	if !ok {
		return nil, nil
	}
	cp := *sol
	return &cp, nil
}

func (f *fakeSolutionRepo) List(ctx context.Context, tx *gorm.DB, filter repos.SolutionFilter, limit int) ([]types.Solution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.Solution, 0, len(f.solutions))
	for _, sol := range f.solutions {
		if filter.Topic != "" && !strings.Contains(strings.ToLower(sol.Topic), strings.ToLower(filter.Topic)) {
			continue
		}
		if filter.Grade > 0 && sol.Grade != filter.Grade {
			continue
		}
		out = append(out, *sol)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSolutionRepo) Update(ctx context.Context, tx *gorm.DB, solution *types.Solution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *solution
	f.solutions[solution.ID] = &cp
	return nil
}

func newCollectiveHarness() (CollectiveService, *fakeSolutionRepo) {
	repo := newFakeSolutionRepo()
	return NewCollectiveService(nil, logger.NewNop(), repo), repo
}

func TestShareSolution(t *testing.T) {
	svc, _ := newCollectiveHarness()
	user := testTeacher()
	user.District = "Sitapur"

	sol, err := svc.Share(context.Background(), user, ShareSolutionRequest{
		Problem:  "Children mixing up b and d",
		Solution: "Draw a bed with b and d as headboards",
		Grade:    2,
		Subject:  "English",
		Topic:    "Alphabet",
	})
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if sol.ID == "" {
		t.Fatalf("id not assigned")
	}
	if sol.TrustScore != 0.5 {
		t.Fatalf("new solutions start at neutral trust, got %v", sol.TrustScore)
	}
	if sol.TeacherName != "Sunita Devi" || sol.District != "Sitapur" {
		t.Fatalf("attribution missing: %+v", sol)
	}

	anon, err := svc.Share(context.Background(), user, ShareSolutionRequest{
		Problem:   "Noise during group work",
		Solution:  "Silent signal: raised hand means everyone freezes",
		Anonymous: true,
	})
	if err != nil {
		t.Fatalf("share anonymous: %v", err)
	}
	if anon.TeacherName != "Anonymous Teacher" {
		t.Fatalf("anonymous share must hide the name, got %q", anon.TeacherName)
	}

	var apiErr *apierr.Error
	if _, err := svc.Share(context.Background(), user, ShareSolutionRequest{Problem: " ", Solution: ""}); !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("expected 400 for empty fields, got %v", err)
	}
}

func TestUseIncrementsCount(t *testing.T) {
	svc, repo := newCollectiveHarness()
	sol, _ := svc.Share(context.Background(), testTeacher(), ShareSolutionRequest{Problem: "p", Solution: "s"})

	for i := 0; i < 3; i++ {
		if _, err := svc.Use(context.Background(), sol.ID); err != nil {
			t.Fatalf("use: %v", err)
		}
	}

	stored, _ := repo.GetByID(context.Background(), nil, sol.ID)
	if stored.UsageCount != 3 {
		t.Fatalf("usage count %d, want 3", stored.UsageCount)
	}

	var apiErr *apierr.Error
	if _, err := svc.Use(context.Background(), "sol-missing"); !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestFeedbackMovesTrustAsymmetrically(t *testing.T) {
	svc, _ := newCollectiveHarness()
	sol, _ := svc.Share(context.Background(), testTeacher(), ShareSolutionRequest{Problem: "p", Solution: "s"})

	up, err := svc.Feedback(context.Background(), sol.ID, true)
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if math.Abs(up.TrustScore-0.6) > 1e-9 {
		t.Fatalf("success must add 0.1, got %v", up.TrustScore)
	}

	down, _ := svc.Feedback(context.Background(), sol.ID, false)
	if math.Abs(down.TrustScore-0.55) > 1e-9 {
		t.Fatalf("failure must subtract 0.05, got %v", down.TrustScore)
	}
}

func TestFeedbackStepShrinksWithUsage(t *testing.T) {
	svc, _ := newCollectiveHarness()
	sol, _ := svc.Share(context.Background(), testTeacher(), ShareSolutionRequest{Problem: "p", Solution: "s"})

	for i := 0; i < 4; i++ {
		if _, err := svc.Use(context.Background(), sol.ID); err != nil {
			t.Fatalf("use: %v", err)
		}
	}

	// At 4 recorded uses a success moves trust by 0.1/4, not the full step.
	up, err := svc.Feedback(context.Background(), sol.ID, true)
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if math.Abs(up.TrustScore-0.525) > 1e-9 {
		t.Fatalf("trust %v, want 0.525", up.TrustScore)
	}

	down, _ := svc.Feedback(context.Background(), sol.ID, false)
	if math.Abs(down.TrustScore-0.5125) > 1e-9 {
		t.Fatalf("trust %v, want 0.5125", down.TrustScore)
	}
}

func TestFeedbackClampsUnderRepeatedSignals(t *testing.T) {
	svc, _ := newCollectiveHarness()
	sol, _ := svc.Share(context.Background(), testTeacher(), ShareSolutionRequest{Problem: "p", Solution: "s"})

	for i := 0; i < 30; i++ {
		if _, err := svc.Feedback(context.Background(), sol.ID, false); err != nil {
			t.Fatalf("feedback: %v", err)
		}
	}
	low, _ := svc.Use(context.Background(), sol.ID)
	if low.TrustScore != 0.1 {
		t.Fatalf("trust must floor at 0.1, got %v", low.TrustScore)
	}

	for i := 0; i < 30; i++ {
		svc.Feedback(context.Background(), sol.ID, true)
	}
	high, _ := svc.Use(context.Background(), sol.ID)
	if high.TrustScore != 1.0 {
		t.Fatalf("trust must cap at 1.0, got %v", high.TrustScore)
	}
}

func TestConcurrentFeedbackStaysBounded(t *testing.T) {
	svc, repo := newCollectiveHarness()
	sol, _ := svc.Share(context.Background(), testTeacher(), ShareSolutionRequest{Problem: "p", Solution: "s"})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		success := i%2 == 0
		go func() {
			defer wg.Done()
			if _, err := svc.Feedback(context.Background(), sol.ID, success); err != nil {
				t.Errorf("feedback: %v", err)
			}
		}()
	}
	wg.Wait()

	stored, _ := repo.GetByID(context.Background(), nil, sol.ID)
	if stored.TrustScore < 0.1 || stored.TrustScore > 1.0 {
		t.Fatalf("trust escaped bounds: %v", stored.TrustScore)
	}
	// 5 successes (+0.1 each) and 5 failures (-0.05 each) from 0.5 land on
	// 0.75 in every interleaving; no clamp boundary is crossed mid-way.
	if math.Abs(stored.TrustScore-0.75) > 1e-9 {
		t.Fatalf("trust %v, want 0.75", stored.TrustScore)
	}
	if stored.SuccessRate < 0.1 || stored.SuccessRate > 1.0 {
		t.Fatalf("success rate escaped bounds: %v", stored.SuccessRate)
	}
}
