package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sahayakai/sahayak-backend/internal/clients/gemini"
	"github.com/sahayakai/sahayak-backend/internal/logger"
)

// ExtractedContext is what the extractor can infer from raw problem text.
// Zero values mean "not found"; the resolver fills remaining holes from the
// request context and the teacher profile.
type ExtractedContext struct {
	Grade       *int   `json:"grade"`
	Subject     string `json:"subject"`
	Topic       string `json:"topic"`
	ProblemType string `json:"problem_type"`
}

// ExtractorBackend is one strategy for pulling structure out of free text.
type ExtractorBackend interface {
	Extract(ctx context.Context, text string) (ExtractedContext, error)
}

// ContextExtractor wraps a backend with the rules fallback. Extraction is
// always total: backend failures degrade to rules, never to an error.
type ContextExtractor struct {
	log     *logger.Logger
	backend ExtractorBackend
}

func NewContextExtractor(log *logger.Logger, backend ExtractorBackend) *ContextExtractor {
	return &ContextExtractor{
		log:     log.With("service", "ContextExtractor"),
		backend: backend,
	}
}

func (ce *ContextExtractor) Extract(ctx context.Context, text string) ExtractedContext {
	if ce.backend != nil {
		extracted, err := ce.backend.Extract(ctx, text)
		if err == nil {
			return extracted
		}
		ce.log.Warn("Extractor backend failed; falling back to rules", "error", err.Error())
	}
	return ExtractWithRules(text)
}

var gradePattern = regexp.MustCompile(`(?i)(?:grade|class|कक्षा)\s*([1-8])`)

// keywordRule binds a label to its trigger words. Rules are scanned in
// declaration order and the first hit wins, so extraction stays stable when
// a sentence touches several subjects or topics at once.
type keywordRule struct {
	label    string
	keywords []string
}

// Keyword tables are bilingual on purpose: rural teachers mix Hindi and
// English freely in one sentence.
var subjectRules = []keywordRule{
	{"Math", []string{"जोड़", "घटा", "गिनती", "गुणा", "भाग", "भिन्न", "संख्या", "add", "subtract", "count", "multiply", "divide", "fraction", "number", "math", "गणित"}},
	{"Hindi", []string{"हिंदी", "मात्रा", "वर्णमाला", "कविता", "hindi", "varnamala", "matra"}},
	{"English", []string{"english", "alphabet", "spelling", "reading", "अंग्रेजी", "अंग्रेज़ी"}},
	{"EVS", []string{"पौधे", "जानवर", "पानी", "plant", "animal", "water", "environment", "evs"}},
}

var topicRules = []keywordRule{
	{"Addition", []string{"जोड़", "add", "addition", "sum"}},
	{"Subtraction", []string{"घटा", "subtract", "subtraction", "minus"}},
	{"Counting", []string{"गिनती", "count", "counting"}},
	{"Multiplication", []string{"गुणा", "multiply", "multiplication", "table", "पहाड़ा"}},
	{"Fractions", []string{"भिन्न", "fraction", "आधा", "half"}},
	{"Place Value", []string{"place value", "स्थानीय मान", "इकाई", "दहाई"}},
	{"Reading", []string{"पढ़", "read", "reading"}},
	{"Alphabet", []string{"alphabet", "वर्णमाला", "अक्षर", "letter"}},
	{"Speaking", []string{"बोल", "speak", "speaking"}},
}

var problemTypeRules = []keywordRule{
	{"confusion", []string{"नहीं समझ", "समझ नहीं", "confused", "don't understand", "not understanding", "struggling"}},
	{"attention", []string{"ध्यान नहीं", "not paying attention", "distracted", "focus"}},
	{"behavior", []string{"शोर", "लड़", "noise", "fighting", "shouting", "discipline"}},
	{"boredom", []string{"बोर", "bored", "boring", "interest नहीं", "not interested"}},
}

// ExtractWithRules pulls classroom context out of text using bilingual
// keyword and pattern matching. Deterministic and dependency-free.
func ExtractWithRules(text string) ExtractedContext {
	lower := strings.ToLower(text)

	out := ExtractedContext{
		Subject:     "General",
		Topic:       "General classroom issue",
		ProblemType: "general_difficulty",
	}

	if m := gradePattern.FindStringSubmatch(text); len(m) == 2 {
		grade := int(m[1][0] - '0')
		out.Grade = &grade
	}

	for _, rule := range subjectRules {
		if containsAny(lower, rule.keywords) {
			out.Subject = rule.label
			break
		}
	}

	for _, rule := range topicRules {
		if containsAny(lower, rule.keywords) {
			out.Topic = rule.label
			break
		}
	}

	for _, rule := range problemTypeRules {
		if containsAny(lower, rule.keywords) {
			out.ProblemType = rule.label
			break
		}
	}

	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// modelBackend extracts context with the generative model.
type modelBackend struct {
	log    *logger.Logger
	client gemini.Client
}

func NewModelExtractorBackend(log *logger.Logger, client gemini.Client) ExtractorBackend {
	return &modelBackend{
		log:    log.With("service", "ModelExtractorBackend"),
		client: client,
	}
}

const extractPromptTemplate = `Extract classroom context from a rural Indian teacher's help request.
The request may mix Hindi and English.

Request: %q

Reply with ONLY a JSON object, no prose:
{"grade": <1-8 or null>, "subject": "<Math|Hindi|English|EVS|General>", "topic": "<short topic or empty>", "problem_type": "<confusion|attention|behavior|boredom|general_difficulty>"}`

func (mb *modelBackend) Extract(ctx context.Context, text string) (ExtractedContext, error) {
	raw, err := mb.client.GenerateText(ctx, fmt.Sprintf(extractPromptTemplate, text))
	if err != nil {
		return ExtractedContext{}, err
	}

	var out ExtractedContext
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &out); err != nil {
		return ExtractedContext{}, fmt.Errorf("parse extraction response: %w", err)
	}

	if out.Grade != nil && (*out.Grade < 1 || *out.Grade > 8) {
		out.Grade = nil
	}
	if out.Subject == "" {
		out.Subject = "General"
	}
	if out.ProblemType == "" {
		out.ProblemType = "general_difficulty"
	}
	return out, nil
}
