package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/sahayakai/sahayak-backend/internal/apierr"
	"github.com/sahayakai/sahayak-backend/internal/logger"
	"github.com/sahayakai/sahayak-backend/internal/repos"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

// ShareSolutionRequest is a teacher contributing a remedy that worked.
type ShareSolutionRequest struct {
	Problem   string `json:"problem" binding:"required"`
	Solution  string `json:"solution" binding:"required"`
	Grade     int    `json:"grade"`
	Subject   string `json:"subject"`
	Topic     string `json:"topic"`
	Anonymous bool   `json:"anonymous"`
}

// CollectiveService is the shared solution pool. Trust statistics move only
// through Use and Feedback, serialized per solution so concurrent feedback
// on one entry never interleaves mid-update.
type CollectiveService interface {
	Share(ctx context.Context, user *types.User, req ShareSolutionRequest) (*types.Solution, error)
	List(ctx context.Context, filter repos.SolutionFilter, limit int) ([]types.Solution, error)
	Use(ctx context.Context, solutionID string) (*types.Solution, error)
	Feedback(ctx context.Context, solutionID string, success bool) (*types.Solution, error)
}

type collectiveService struct {
	db           *gorm.DB
	log          *logger.Logger
	solutionRepo repos.SolutionRepo

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCollectiveService(db *gorm.DB, log *logger.Logger, solutionRepo repos.SolutionRepo) CollectiveService {
	return &collectiveService{
		db:           db,
		log:          log.With("service", "CollectiveService"),
		solutionRepo: solutionRepo,
		locks:        make(map[string]*sync.Mutex),
	}
}

func (cs *collectiveService) lockFor(id string) *sync.Mutex {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	l, ok := cs.locks[id]
	if !ok {
		l = &sync.Mutex{}
		cs.locks[id] = l
	}
	return l
}

func (cs *collectiveService) Share(ctx context.Context, user *types.User, req ShareSolutionRequest) (*types.Solution, error) {
	if strings.TrimSpace(req.Problem) == "" || strings.TrimSpace(req.Solution) == "" {
		return nil, apierr.New(http.StatusBadRequest, "solution_fields_required", errors.New("problem and solution are required"))
	}

	teacherName := user.Name
	if req.Anonymous {
		teacherName = "Anonymous Teacher"
	}

	solution := &types.Solution{
		Problem:     strings.TrimSpace(req.Problem),
		Solution:    strings.TrimSpace(req.Solution),
		Grade:       req.Grade,
		Subject:     req.Subject,
		Topic:       req.Topic,
		TeacherID:   user.ID,
		TeacherName: teacherName,
		District:    user.District,
		Anonymous:   req.Anonymous,
		TrustScore:  0.5,
		SuccessRate: 0.5,
	}

	id, err := cs.solutionRepo.Save(ctx, nil, solution)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "solution_save_failed", err)
	}
	solution.ID = id

	cs.log.Info("Solution shared", "solution_id", id, "teacher_id", user.ID, "anonymous", req.Anonymous)
	return solution, nil
}

func (cs *collectiveService) List(ctx context.Context, filter repos.SolutionFilter, limit int) ([]types.Solution, error) {
	solutions, err := cs.solutionRepo.List(ctx, nil, filter, limit)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "solution_list_failed", err)
	}
	return solutions, nil
}

func (cs *collectiveService) Use(ctx context.Context, solutionID string) (*types.Solution, error) {
	lock := cs.lockFor(solutionID)
	lock.Lock()
	defer lock.Unlock()

	solution, err := cs.solutionRepo.GetByID(ctx, nil, solutionID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "solution_lookup_failed", err)
	}
	if solution == nil {
		return nil, apierr.New(http.StatusNotFound, "solution_not_found", errors.New("solution not found"))
	}

	solution.UsageCount++
	if err := cs.solutionRepo.Update(ctx, nil, solution); err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "solution_update_failed", err)
	}
	return solution, nil
}

// Feedback folds one outcome into the solution's trust score and success
// rate. Successful uses raise trust faster than failures lower it, so one
// bad day does not bury a proven remedy. The step shrinks with usage: a
// widely used solution's trust reflects its whole history, and a single
// report should barely move it.
func (cs *collectiveService) Feedback(ctx context.Context, solutionID string, success bool) (*types.Solution, error) {
	lock := cs.lockFor(solutionID)
	lock.Lock()
	defer lock.Unlock()

	solution, err := cs.solutionRepo.GetByID(ctx, nil, solutionID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "solution_lookup_failed", err)
	}
	if solution == nil {
		return nil, apierr.New(http.StatusNotFound, "solution_not_found", errors.New("solution not found"))
	}

	weight := float64(solution.UsageCount)
	if weight < 1 {
		weight = 1
	}
	if success {
		solution.TrustScore = clampTrust(solution.TrustScore + 0.1/weight)
	} else {
		solution.TrustScore = clampTrust(solution.TrustScore - 0.05/weight)
	}

	rate := solution.SuccessRate * 0.9
	if success {
		rate += 0.1
	}
	solution.SuccessRate = clampTrust(rate)

	if err := cs.solutionRepo.Update(ctx, nil, solution); err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "solution_update_failed", err)
	}

	cs.log.Info("Solution feedback recorded",
		"solution_id", solutionID,
		"success", success,
		"trust_score", solution.TrustScore,
	)
	return solution, nil
}
