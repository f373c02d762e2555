package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/sahayakai/sahayak-backend/internal/apierr"
	"github.com/sahayakai/sahayak-backend/internal/clients/rediscache"
	"github.com/sahayakai/sahayak-backend/internal/config"
	"github.com/sahayakai/sahayak-backend/internal/logger"
	"github.com/sahayakai/sahayak-backend/internal/repos"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

// ResponseCache is the cache surface the resolver needs. Implementations
// must treat every failure as a miss, never as an error.
type ResponseCache interface {
	Available() bool
	Get(ctx context.Context, key string) (*types.Playbook, bool)
	Set(ctx context.Context, key string, pb *types.Playbook, ttl time.Duration) bool
	IncrementUsage(ctx context.Context, key string)
	PopularProblems(ctx context.Context, limit int) []rediscache.PopularProblem
}

// SOSService resolves mid-lesson help requests: cache first, then catalog
// match, then generation. Resolution never fails for infrastructure
// reasons; only an empty request is an error.
type SOSService interface {
	Resolve(ctx context.Context, user *types.User, req types.SOSRequest) (*types.SOSResponse, error)
	QuickFixes(user *types.User, limit int) []types.QuickFix
	MarkSuccess(ctx context.Context, user *types.User, sosID string, success bool, feedback string) error
	History(ctx context.Context, user *types.User, limit int) ([]types.SOSRecord, error)
	Popular(ctx context.Context, limit int) []rediscache.PopularProblem
}

type sosService struct {
	db        *gorm.DB
	log       *logger.Logger
	cfg       config.Config
	keys      *KeyDeriver
	cache     ResponseCache
	catalog   *Catalog
	extractor *ContextExtractor
	generator Generator
	videos    VideoService
	sosRepo   repos.SOSRepo
}

func NewSOSService(
	db *gorm.DB,
	log *logger.Logger,
	cfg config.Config,
	keys *KeyDeriver,
	cache ResponseCache,
	catalog *Catalog,
	extractor *ContextExtractor,
	generator Generator,
	videos VideoService,
	sosRepo repos.SOSRepo,
) SOSService {
	return &sosService{
		db:        db,
		log:       log.With("service", "SOSService"),
		cfg:       cfg,
		keys:      keys,
		cache:     cache,
		catalog:   catalog,
		extractor: extractor,
		generator: generator,
		videos:    videos,
		sosRepo:   sosRepo,
	}
}

var defaultRuralConstraints = []string{"no projector", "limited materials", "multi-grade classroom"}

func (ss *sosService) Resolve(ctx context.Context, user *types.User, req types.SOSRequest) (*types.SOSResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apierr.New(http.StatusBadRequest, "sos_text_required", errors.New("sos text is required"))
	}

	extracted := ss.extractor.Extract(ctx, text)
	merged := ss.mergeContext(user, req.Context, extracted, text)
	key := ss.keys.ContextKey(merged)
	problemKey := ss.keys.ProblemKey(text)

	// Context-derived key first, then the raw-text key. The second catches
	// identical problem text asked under a different profile.
	for _, k := range []string{key, problemKey} {
		pb, ok := ss.cache.Get(ctx, k)
		if !ok {
			continue
		}
		ss.cache.IncrementUsage(ctx, k)
		sosID := ss.record(ctx, user, text, merged, pb.ID, true)
		ss.log.Info("SOS resolved from cache", "sos_id", sosID, "cache_key", k)
		return &types.SOSResponse{
			SOSID:            sosID,
			ExtractedContext: merged,
			Playbook:         *pb,
			FromCache:        true,
			CacheKey:         k,
		}, nil
	}

	matches := ss.catalog.SearchSimilar(text, merged.Grade, merged.Subject, 3)
	similar := similarSolutions(matches, merged.Language)

	if len(matches) > 0 && matches[0].RelevanceScore > ss.cfg.MatchThreshold {
		pb := ss.playbookFromQuickFix(matches[0], merged.Language)
		ss.enrich(ctx, &pb, text, merged)
		ss.catalog.IncrementUsage(matches[0].ID)
		ss.cache.Set(ctx, key, &pb, ss.cfg.QuickFixTTL)
		ss.cache.Set(ctx, problemKey, &pb, ss.cfg.QuickFixTTL)

		// Catalog answers are pre-existing knowledge, so they count as
		// served-from-cache even on the first request.
		sosID := ss.record(ctx, user, text, merged, pb.ID, true)
		ss.log.Info("SOS resolved from catalog",
			"sos_id", sosID,
			"quick_fix", matches[0].ID,
			"relevance", matches[0].RelevanceScore,
		)
		return &types.SOSResponse{
			SOSID:            sosID,
			ExtractedContext: merged,
			Playbook:         pb,
			FromCache:        true,
			CacheKey:         key,
			SimilarSolutions: similar,
		}, nil
	}

	grade := 3
	if merged.Grade != nil {
		grade = *merged.Grade
	}
	generated := ss.generator.Generate(ctx, GenerateRequest{
		Problem:     text,
		Grade:       grade,
		Subject:     merged.Subject,
		Topic:       merged.Topic,
		Language:    merged.Language,
		Constraints: merged.RuralConstraints,
	})

	pb := types.Playbook{
		ID:              "pb-" + uuid.NewString()[:8],
		Problem:         text,
		WhatToSay:       generated.WhatToSay,
		Activity:        generated.Activity,
		ClassManagement: generated.ClassManagement,
		QuickCheck:      generated.QuickCheck,
		TrustScore:      0.7,
		FromQuickFix:    false,
		Language:        merged.Language,
	}
	ss.enrich(ctx, &pb, text, merged)
	ss.cache.Set(ctx, key, &pb, ss.cfg.GeneratedTTL)
	ss.cache.Set(ctx, problemKey, &pb, ss.cfg.GeneratedTTL)

	sosID := ss.record(ctx, user, text, merged, pb.ID, false)
	ss.log.Info("SOS resolved via generation", "sos_id", sosID, "cache_key", key)
	return &types.SOSResponse{
		SOSID:            sosID,
		ExtractedContext: merged,
		Playbook:         pb,
		FromCache:        false,
		CacheKey:         key,
		SimilarSolutions: similar,
	}, nil
}

// mergeContext layers the explicit request context over extraction over
// the teacher profile. Explicit values always win.
func (ss *sosService) mergeContext(user *types.User, reqCtx *types.SOSContext, extracted ExtractedContext, text string) types.SOSContext {
	merged := types.SOSContext{}
	if reqCtx != nil {
		merged = *reqCtx
	}

	if merged.Grade == nil {
		merged.Grade = extracted.Grade
	}
	if merged.Grade == nil && user != nil && len(user.GradeTeaching) > 0 {
		g := user.GradeTeaching[0]
		merged.Grade = &g
	}

	if merged.Subject == "" {
		merged.Subject = extracted.Subject
	}
	if merged.Subject == "" {
		merged.Subject = "General"
	}

	if merged.Topic == "" {
		merged.Topic = extracted.Topic
	}
	if merged.Topic == "" {
		merged.Topic = truncateRunes(text, ss.cfg.TopicKeyLength)
	}

	if merged.Language == "" && user != nil {
		merged.Language = user.Language
	}
	if merged.Language == "" {
		merged.Language = "hi"
	}

	if len(merged.RuralConstraints) == 0 {
		merged.RuralConstraints = defaultRuralConstraints
	}
	return merged
}

func (ss *sosService) playbookFromQuickFix(match types.ScoredQuickFix, lang string) types.Playbook {
	return types.Playbook{
		ID:        match.ID,
		Problem:   match.Problem.Resolve(lang),
		WhatToSay: match.WhatToSay.Resolve(lang),
		Activity: types.Activity{
			Name:            match.ActivityName.Resolve(lang),
			Steps:           match.Steps.Resolve(lang),
			Materials:       match.Materials,
			DurationMinutes: 10,
		},
		ClassManagement: match.ClassManagement.Resolve(lang),
		QuickCheck: types.QuickCheck{
			Questions:         match.Questions.Resolve(lang),
			ExpectedResponses: quickCheckExpected(lang),
			SuccessIndicators: quickCheckIndicators(lang),
		},
		TrustScore:   match.SuccessRate,
		FromQuickFix: true,
		Language:     lang,
	}
}

// Catalog entries carry questions but not marking guidance, so the
// quick check is completed with stock expectations in the playbook's
// language.
func quickCheckExpected(lang string) []string {
	if lang == "hi" {
		return []string{"बच्चे समझ कर जवाब देते हैं।"}
	}
	return []string{"Students demonstrate understanding."}
}

func quickCheckIndicators(lang string) []string {
	if lang == "hi" {
		return []string{"ज़्यादातर बच्चे गतिविधि में हिस्सा लेते हैं।"}
	}
	return []string{"Active participation."}
}

// enrich attaches textbook references and videos. Both lookups are
// best-effort and never fail the resolution.
func (ss *sosService) enrich(ctx context.Context, pb *types.Playbook, text string, merged types.SOSContext) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pb.NCERTRefs = ss.catalog.GetReferences(merged.Topic, merged.Grade, merged.Subject, 3)
		return nil
	})
	g.Go(func() error {
		pb.Videos = ss.videos.Search(gctx, text, merged.Grade, merged.Language, 3)
		return nil
	})

	_ = g.Wait()
}

// record appends the history entry. Best-effort: a failed write is logged
// and the resolution still succeeds.
func (ss *sosService) record(ctx context.Context, user *types.User, text string, merged types.SOSContext, responseID string, fromCache bool) string {
	rec := &types.SOSRecord{
		TeacherID:   user.ID,
		RequestText: text,
		Context:     merged,
		ResponseID:  responseID,
		FromCache:   fromCache,
	}
	id, err := ss.sosRepo.Save(ctx, nil, rec)
	if err != nil {
		ss.log.Warn("Failed to record SOS history", "teacher_id", user.ID, "error", err.Error())
		return ""
	}
	return id
}

func similarSolutions(matches []types.ScoredQuickFix, lang string) []types.SimilarSolution {
	out := make([]types.SimilarSolution, 0, len(matches))
	for _, m := range matches {
		out = append(out, types.SimilarSolution{
			ID:          m.ID,
			Problem:     m.Problem.Resolve(lang),
			SuccessRate: m.SuccessRate,
		})
		if len(out) == 3 {
			break
		}
	}
	return out
}

// QuickFixes returns the browse list, with entries for the teacher's own
// grades ahead of the rest.
func (ss *sosService) QuickFixes(user *types.User, limit int) []types.QuickFix {
	if limit <= 0 {
		limit = 10
	}
	ranked := ss.catalog.TopQuickFixes(0)
	if user == nil || len(user.GradeTeaching) == 0 {
		if len(ranked) > limit {
			ranked = ranked[:limit]
		}
		return ranked
	}

	teaching := make(map[int]bool, len(user.GradeTeaching))
	for _, g := range user.GradeTeaching {
		teaching[g] = true
	}

	out := make([]types.QuickFix, 0, limit)
	for _, qf := range ranked {
		if teaching[qf.Grade] {
			out = append(out, qf)
			if len(out) == limit {
				return out
			}
		}
	}
	for _, qf := range ranked {
		if !teaching[qf.Grade] {
			out = append(out, qf)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func (ss *sosService) MarkSuccess(ctx context.Context, user *types.User, sosID string, success bool, feedback string) error {
	rec, err := ss.sosRepo.GetByID(ctx, nil, sosID)
	if err != nil {
		return apierr.New(http.StatusInternalServerError, "sos_lookup_failed", err)
	}
	if rec == nil || rec.TeacherID != user.ID {
		return apierr.New(http.StatusNotFound, "sos_not_found", errors.New("sos record not found"))
	}

	updated, err := ss.sosRepo.SetSuccess(ctx, nil, sosID, success, feedback)
	if err != nil {
		return apierr.New(http.StatusInternalServerError, "sos_update_failed", err)
	}
	if !updated {
		return apierr.New(http.StatusNotFound, "sos_not_found", errors.New("sos record not found"))
	}

	// Feedback on a catalog-backed playbook moves that entry's stats too.
	if _, ok := ss.catalog.Get(rec.ResponseID); ok {
		ss.catalog.RecordFeedback(rec.ResponseID, success)
	}
	return nil
}

// Popular surfaces the most requested cached problems. Empty when the
// cache is degraded.
func (ss *sosService) Popular(ctx context.Context, limit int) []rediscache.PopularProblem {
	if limit <= 0 {
		limit = 10
	}
	return ss.cache.PopularProblems(ctx, limit)
}

func (ss *sosService) History(ctx context.Context, user *types.User, limit int) ([]types.SOSRecord, error) {
	records, err := ss.sosRepo.ListByTeacher(ctx, nil, user.ID, limit)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "sos_history_failed", err)
	}
	return records, nil
}
