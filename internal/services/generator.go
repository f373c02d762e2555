package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sahayakai/sahayak-backend/internal/clients/gemini"
	"github.com/sahayakai/sahayak-backend/internal/logger"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

// GenerateRequest carries the fully-resolved context for one generation.
type GenerateRequest struct {
	Problem     string
	Grade       int
	Subject     string
	Topic       string
	Language    string
	Constraints []string
}

// GeneratedPlaybook is the model-made (or fallback) guidance body. Every
// field is always populated; callers never need to nil-check.
type GeneratedPlaybook struct {
	WhatToSay       []string         `json:"what_to_say"`
	Activity        types.Activity   `json:"activity"`
	ClassManagement []string         `json:"class_management"`
	QuickCheck      types.QuickCheck `json:"quick_check"`
}

// Generator produces a playbook body for a problem no catalog entry covers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) GeneratedPlaybook
}

type playbookGenerator struct {
	log     *logger.Logger
	client  gemini.Client
	timeout time.Duration
}

// NewPlaybookGenerator wires the model-backed generator. A nil client is
// allowed: every call then serves the deterministic fallback.
func NewPlaybookGenerator(log *logger.Logger, client gemini.Client, timeout time.Duration) Generator {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &playbookGenerator{
		log:     log.With("service", "PlaybookGenerator"),
		client:  client,
		timeout: timeout,
	}
}

const generatePromptTemplate = `You are SAHAYAK, a teaching co-pilot for rural Indian government schools.
A teacher needs help RIGHT NOW, mid-lesson. Low resources: no projector, no printouts, maybe a blackboard and stones/sticks/leaves.

Problem: %s
Grade: %d
Subject: %s
Topic: %s
Respond in language: %s
Constraints: %s

Reply with ONLY a JSON object, no prose, no markdown:
{
  "what_to_say": ["2-3 sentences the teacher can say aloud immediately, encouraging, in the requested language"],
  "activity": {"name": "...", "steps": ["4-6 concrete steps using only zero-cost materials"], "materials": ["..."], "duration_minutes": 10},
  "class_management": ["2-3 tips for a multi-grade classroom"],
  "quick_check": {"questions": ["2 questions to verify understanding"], "expected_responses": ["..."], "success_indicators": ["..."]}
}`

func (pg *playbookGenerator) Generate(ctx context.Context, req GenerateRequest) GeneratedPlaybook {
	if pg.client == nil {
		return FallbackPlaybook(req)
	}

	genCtx, cancel := context.WithTimeout(ctx, pg.timeout)
	defer cancel()

	prompt := fmt.Sprintf(generatePromptTemplate,
		req.Problem, req.Grade, req.Subject, req.Topic,
		languageName(req.Language), strings.Join(req.Constraints, "; "))

	raw, err := pg.client.GenerateText(genCtx, prompt)
	if err != nil {
		pg.log.Warn("Generation failed; serving fallback playbook", "error", err.Error())
		return FallbackPlaybook(req)
	}

	var out GeneratedPlaybook
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &out); err != nil {
		pg.log.Warn("Generation response unparseable; serving fallback playbook", "error", err.Error())
		return FallbackPlaybook(req)
	}
	if len(out.WhatToSay) == 0 || out.Activity.Name == "" {
		pg.log.Warn("Generation response incomplete; serving fallback playbook")
		return FallbackPlaybook(req)
	}
	if out.Activity.DurationMinutes <= 0 {
		out.Activity.DurationMinutes = 10
	}
	return out
}

// FallbackPlaybook is the deterministic playbook served when the model is
// unreachable, times out, or answers garbage. Same shape as a generated
// one so nothing downstream cares which path produced it.
func FallbackPlaybook(req GenerateRequest) GeneratedPlaybook {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = "इस विषय"
		if req.Language != "hi" {
			topic = "this topic"
		}
	}

	if req.Language == "hi" {
		return GeneratedPlaybook{
			WhatToSay: []string{
				"कोई बात नहीं बच्चों, यह मुश्किल लगता है पर हम इसे खेल से सीखेंगे।",
				"सब लोग अपनी जगह पर बैठ जाओ, अब हम कुछ मज़ेदार करेंगे।",
			},
			Activity: types.Activity{
				Name: topic + ": जोड़ी में अभ्यास",
				Steps: []string{
					"बच्चों को दो-दो की जोड़ी में बैठाओ।",
					"हर जोड़ी को 10 कंकड़ या पत्तियां इकट्ठा करने को कहो।",
					"बोर्ड पर एक आसान सवाल लिखो और जोड़ी से कंकड़ों से हल करवाओ।",
					"जो जोड़ी पहले सही करे, वह अगला सवाल बोर्ड पर लिखे।",
					"आखिर में हर जोड़ी से एक जवाब ज़ोर से बुलवाओ।",
				},
				Materials:       []string{"कंकड़ या पत्तियां", "ब्लैकबोर्ड"},
				DurationMinutes: 10,
			},
			ClassManagement: []string{
				"तेज़ बच्चों को धीमे बच्चों के साथ जोड़ी बनाओ।",
				"हर 2-3 मिनट में पूरी कक्षा से एक साथ जवाब बुलवाओ।",
			},
			QuickCheck: types.QuickCheck{
				Questions:         []string{"बोर्ड का सवाल अपने कंकड़ों से दिखाओ।", "अपनी जोड़ी को एक नया सवाल दो।"},
				ExpectedResponses: []string{"बच्चे कंकड़ों से सही जवाब दिखाते हैं।"},
				SuccessIndicators: []string{"आधे से ज़्यादा जोड़ियां बिना मदद के हल करती हैं।"},
			},
		}
	}

	return GeneratedPlaybook{
		WhatToSay: []string{
			"That's alright everyone, this feels hard but we will learn it through a game.",
			"Sit with your partner, we are going to try something fun now.",
		},
		Activity: types.Activity{
			Name: topic + ": pair practice",
			Steps: []string{
				"Put the children in pairs.",
				"Ask each pair to collect 10 pebbles or leaves.",
				"Write one easy question on the board and have pairs solve it with pebbles.",
				"The first pair to finish writes the next question on the board.",
				"Finish by having every pair call out one answer.",
			},
			Materials:       []string{"Pebbles or leaves", "Blackboard"},
			DurationMinutes: 10,
		},
		ClassManagement: []string{
			"Pair faster children with slower ones.",
			"Every 2-3 minutes, have the whole class answer together.",
		},
		QuickCheck: types.QuickCheck{
			Questions:         []string{"Show the board question with your pebbles.", "Give your partner one new question."},
			ExpectedResponses: []string{"Children show the correct answer with pebbles."},
			SuccessIndicators: []string{"More than half the pairs solve without help."},
		},
	}
}

func languageName(code string) string {
	switch code {
	case "hi":
		return "Hindi (Devanagari)"
	case "kn":
		return "Kannada"
	default:
		return "English"
	}
}

// stripCodeFences removes a leading/trailing markdown code fence from a
// model reply, with or without a language tag.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "" || isFenceTag(first) {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
