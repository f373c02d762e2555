package services

import (
	"strings"
	"unicode/utf8"

	"github.com/sahayakai/sahayak-backend/internal/types"
)

// Relevance weights. Raw scores are normalized by a fixed divisor rather
// than the achievable maximum, so mid-range scores stay comparable across
// queries of different lengths. Token evidence is coverage-scaled: a long
// query full of incidental word hits cannot outrank a short one that the
// entry actually answers.
const (
	weightTokenCoverage = 3.0
	weightTopicOverlap  = 2.0
	weightGradeExact   = 1.0
	weightGradeNear    = 0.5
	weightSubjectMatch = 1.0
	quickFixDivisor    = 6.0

	weightRefTopicWord = 2.0
	weightRefChapter   = 1.0
	weightRefGrade     = 2.0
	weightRefGradeNear = 1.0
	weightRefSubject   = 1.5
	refDivisor         = 6.0

	weightVidTopic     = 2.0
	weightVidTitle     = 1.0
	weightVidGrade     = 1.0
	weightVidGradeNear = 0.5
	weightVidLanguage  = 0.5
	videoDivisor       = 4.0
)

// tokenize lowercases s and returns its whitespace-separated tokens longer
// than two runes. Short function words drop out of matching entirely.
func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}

// ScoreQuickFix rates how well a catalog entry answers the query in the
// given classroom context. Token credit is the matched fraction of the
// query's tokens, so grade and subject stay decisive between entries that
// share common words. Entries with no token or topic overlap score 0
// regardless of context. Result is clamped to [0, 1].
func ScoreQuickFix(query string, fix types.QuickFix, grade *int, subject string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	haystack := strings.ToLower(fix.Problem.Combined() + " " + fix.Topic)

	tokens := tokenize(q)
	matched := 0
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			matched++
		}
	}

	score := 0.0
	if len(tokens) > 0 {
		score += weightTokenCoverage * float64(matched) / float64(len(tokens))
	}

	topicHit := false
	if fix.Topic != "" {
		topic := strings.ToLower(fix.Topic)
		if strings.Contains(q, topic) || strings.Contains(topic, q) {
			topicHit = true
			score += weightTopicOverlap
		}
	}
	if matched == 0 && !topicHit {
		return 0
	}

	if grade != nil {
		switch {
		case fix.Grade == *grade:
			score += weightGradeExact
		case fix.Grade == *grade-1 || fix.Grade == *grade+1:
			score += weightGradeNear
		}
	}

	if subject != "" && strings.EqualFold(fix.Subject, subject) {
		score += weightSubjectMatch
	}

	return clamp01(score / quickFixDivisor)
}

// ScoreReference rates a textbook reference against a topic and classroom
// context. Grade and subject only boost an existing keyword hit; a
// reference with zero topic overlap scores 0 regardless of context, which
// keeps the catalog's grade-fallback path reachable. Result is clamped to
// [0, 1].
func ScoreReference(topic string, ref types.NCERTRef, grade *int, subject string) float64 {
	refTopic := strings.ToLower(ref.Topic)
	refChapter := strings.ToLower(ref.Chapter)

	score := 0.0
	for _, tok := range tokenize(topic) {
		if strings.Contains(refTopic, tok) {
			score += weightRefTopicWord
		} else if strings.Contains(refChapter, tok) {
			score += weightRefChapter
		}
	}
	if score == 0 {
		return 0
	}

	if grade != nil {
		switch {
		case ref.Grade == *grade:
			score += weightRefGrade
		case ref.Grade == *grade-1 || ref.Grade == *grade+1:
			score += weightRefGradeNear
		}
	}

	if subject != "" && strings.EqualFold(ref.Subject, subject) {
		score += weightRefSubject
	}

	return clamp01(score / refDivisor)
}

// ScoreVideo rates a curated video against a query. Result is clamped to
// [0, 1].
func ScoreVideo(query string, video types.Video, grade *int, language string) float64 {
	q := strings.ToLower(query)
	topic := strings.ToLower(video.Topic)
	title := strings.ToLower(video.Title)

	score := 0.0
	if topic != "" && (strings.Contains(q, topic) || strings.Contains(topic, q)) {
		score += weightVidTopic
	}
	for _, tok := range tokenize(query) {
		if strings.Contains(title, tok) {
			score += weightVidTitle
			break
		}
	}

	if grade != nil {
		switch {
		case video.Grade == *grade:
			score += weightVidGrade
		case video.Grade == *grade-1 || video.Grade == *grade+1:
			score += weightVidGradeNear
		}
	}
	if language != "" && strings.EqualFold(video.Language, language) {
		score += weightVidLanguage
	}

	return clamp01(score / videoDivisor)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
