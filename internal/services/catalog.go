package services

import (
	"sort"
	"sync"

	"github.com/sahayakai/sahayak-backend/internal/logger"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

const gradeFallbackRelevance = 0.4

// Catalog holds the curated quick-fix playbooks and textbook references.
// Entries are loaded once at startup; only the per-entry usage and success
// statistics mutate afterwards, each guarded by its own mutex.
type Catalog struct {
	log     *logger.Logger
	entries []*catalogEntry
	byID    map[string]*catalogEntry
	refs    []types.NCERTRef
}

type catalogEntry struct {
	mu  sync.Mutex
	fix types.QuickFix
}

// snapshot returns a copy of the entry with current statistics.
func (e *catalogEntry) snapshot() types.QuickFix {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fix
}

func NewCatalog(log *logger.Logger, fixes []types.QuickFix, refs []types.NCERTRef) *Catalog {
	c := &Catalog{
		log:  log.With("service", "Catalog"),
		byID: make(map[string]*catalogEntry, len(fixes)),
		refs: refs,
	}
	for _, fix := range fixes {
		entry := &catalogEntry{fix: fix}
		c.entries = append(c.entries, entry)
		c.byID[fix.ID] = entry
	}
	c.log.Info("Catalog loaded", "quick_fixes", len(fixes), "ncert_refs", len(refs))
	return c
}

// SearchSimilar scores every entry against the query and returns the top
// matches with a positive score, best first.
func (c *Catalog) SearchSimilar(query string, grade *int, subject string, limit int) []types.ScoredQuickFix {
	if limit <= 0 {
		limit = 3
	}

	scored := make([]types.ScoredQuickFix, 0, len(c.entries))
	for _, entry := range c.entries {
		fix := entry.snapshot()
		score := ScoreQuickFix(query, fix, grade, subject)
		if score <= 0 {
			continue
		}
		scored = append(scored, types.ScoredQuickFix{QuickFix: fix, RelevanceScore: score})
	}

	// Ties on relevance go to the entry with the better track record.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].RelevanceScore != scored[j].RelevanceScore {
			return scored[i].RelevanceScore > scored[j].RelevanceScore
		}
		if scored[i].SuccessRate != scored[j].SuccessRate {
			return scored[i].SuccessRate > scored[j].SuccessRate
		}
		return scored[i].UsageCount > scored[j].UsageCount
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// GetReferences returns textbook references relevant to the topic and
// context. When nothing matches by keyword but a grade is known, same-grade
// references are returned with a flat fallback relevance.
func (c *Catalog) GetReferences(topic string, grade *int, subject string, limit int) []types.NCERTRef {
	if limit <= 0 {
		limit = 3
	}

	matched := make([]types.NCERTRef, 0, limit)
	for _, ref := range c.refs {
		score := ScoreReference(topic, ref, grade, subject)
		if score <= 0 {
			continue
		}
		ref.RelevanceScore = score
		matched = append(matched, ref)
	}

	if len(matched) == 0 && grade != nil {
		for _, ref := range c.refs {
			if ref.Grade != *grade {
				continue
			}
			ref.RelevanceScore = gradeFallbackRelevance
			matched = append(matched, ref)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RelevanceScore > matched[j].RelevanceScore
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// TopQuickFixes returns the most successful entries for browsing. A
// non-positive limit means the full catalog.
func (c *Catalog) TopQuickFixes(limit int) []types.QuickFix {
	out := make([]types.QuickFix, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry.snapshot())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SuccessRate != out[j].SuccessRate {
			return out[i].SuccessRate > out[j].SuccessRate
		}
		return out[i].UsageCount > out[j].UsageCount
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (c *Catalog) Get(id string) (types.QuickFix, bool) {
	entry, ok := c.byID[id]
	if !ok {
		return types.QuickFix{}, false
	}
	return entry.snapshot(), true
}

// IncrementUsage bumps the usage counter for one entry.
func (c *Catalog) IncrementUsage(id string) bool {
	entry, ok := c.byID[id]
	if !ok {
		return false
	}
	entry.mu.Lock()
	entry.fix.UsageCount++
	entry.mu.Unlock()
	return true
}

// RecordFeedback folds one success or failure signal into the entry's
// success rate (exponential moving average, clamped to [0.1, 1.0]) and
// returns the new rate.
func (c *Catalog) RecordFeedback(id string, success bool) (float64, bool) {
	entry, ok := c.byID[id]
	if !ok {
		return 0, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	rate := entry.fix.SuccessRate * 0.9
	if success {
		rate += 0.1
	}
	entry.fix.SuccessRate = clampTrust(rate)
	return entry.fix.SuccessRate, true
}

func clampTrust(v float64) float64 {
	if v < 0.1 {
		return 0.1
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
