package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sahayakai/sahayak-backend/internal/logger"
)

func generateReq() GenerateRequest {
	return GenerateRequest{
		Problem:  "बच्चे जोड़ना नहीं समझ रहे",
		Grade:    3,
		Subject:  "Math",
		Topic:    "Addition",
		Language: "hi",
	}
}

func assertComplete(t *testing.T, pb GeneratedPlaybook) {
	t.Helper()
	if len(pb.WhatToSay) == 0 {
		t.Fatalf("what_to_say empty")
	}
	if pb.Activity.Name == "" || len(pb.Activity.Steps) == 0 {
		t.Fatalf("activity incomplete: %+v", pb.Activity)
	}
	if pb.Activity.DurationMinutes <= 0 {
		t.Fatalf("duration must be positive")
	}
	if len(pb.ClassManagement) == 0 {
		t.Fatalf("class_management empty")
	}
	if len(pb.QuickCheck.Questions) == 0 {
		t.Fatalf("quick_check empty")
	}
}

func TestGenerateParsesFencedReply(t *testing.T) {
	reply := "```json\n" + `{
		"what_to_say": ["शाबाश, फिर से कोशिश करते हैं"],
		"activity": {"name": "कंकड़ जोड़", "steps": ["कंकड़ बांटो", "जोड़ो"], "materials": ["कंकड़"], "duration_minutes": 8},
		"class_management": ["जोड़ी बनाओ"],
		"quick_check": {"questions": ["2+3 कितना?"], "expected_responses": ["5"], "success_indicators": ["सही जवाब"]}
	}` + "\n```"

	client := &fakeGemini{reply: reply}
	gen := NewPlaybookGenerator(logger.NewNop(), client, 5*time.Second)

	pb := gen.Generate(context.Background(), generateReq())
	assertComplete(t, pb)
	if pb.Activity.Name != "कंकड़ जोड़" {
		t.Fatalf("fenced reply not parsed: %+v", pb.Activity)
	}
	if pb.Activity.DurationMinutes != 8 {
		t.Fatalf("duration overwritten: %d", pb.Activity.DurationMinutes)
	}
}

func TestGenerateFallsBackOnError(t *testing.T) {
	client := &fakeGemini{err: errors.New("upstream 500")}
	gen := NewPlaybookGenerator(logger.NewNop(), client, 5*time.Second)

	pb := gen.Generate(context.Background(), generateReq())
	assertComplete(t, pb)
}

func TestGenerateFallsBackOnGarbage(t *testing.T) {
	for _, reply := range []string{"not json at all", `{"what_to_say": []}`, `{}`} {
		client := &fakeGemini{reply: reply}
		gen := NewPlaybookGenerator(logger.NewNop(), client, 5*time.Second)

		pb := gen.Generate(context.Background(), generateReq())
		assertComplete(t, pb)
	}
}

func TestGenerateNilClientServesFallback(t *testing.T) {
	gen := NewPlaybookGenerator(logger.NewNop(), nil, 5*time.Second)
	pb := gen.Generate(context.Background(), generateReq())
	assertComplete(t, pb)
}

func TestFallbackPlaybookLocalized(t *testing.T) {
	hi := FallbackPlaybook(GenerateRequest{Topic: "जोड़", Language: "hi"})
	en := FallbackPlaybook(GenerateRequest{Topic: "Addition", Language: "en"})

	assertComplete(t, hi)
	assertComplete(t, en)
	if hi.Activity.Name == en.Activity.Name {
		t.Fatalf("fallback must localize")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Fatalf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
