package types

type Activity struct {
  Name            string   `json:"name"`
  Steps           []string `json:"steps"`
  Materials       []string `json:"materials"`
  DurationMinutes int      `json:"duration_minutes"`
}

type QuickCheck struct {
  Questions         []string `json:"questions"`
  ExpectedResponses []string `json:"expected_responses"`
  SuccessIndicators []string `json:"success_indicators"`
}

type NCERTRef struct {
  Grade          int     `yaml:"grade" json:"grade"`
  Subject        string  `yaml:"subject" json:"subject"`
  Chapter        string  `yaml:"chapter" json:"chapter"`
  ChapterNumber  int     `yaml:"chapter_number" json:"chapter_number"`
  PageRange      string  `yaml:"page_range" json:"page_range,omitempty"`
  Topic          string  `yaml:"topic" json:"topic"`
  Link           string  `yaml:"link" json:"link,omitempty"`
  RelevanceScore float64 `yaml:"-" json:"relevance_score,omitempty"`
}

type Video struct {
  ID             string  `yaml:"id" json:"id"`
  Title          string  `yaml:"title" json:"title"`
  Channel        string  `yaml:"channel" json:"channel"`
  Duration       string  `yaml:"duration" json:"duration"`
  Thumbnail      string  `yaml:"thumbnail" json:"thumbnail"`
  EmbedURL       string  `yaml:"-" json:"embed_url"`
  Language       string  `yaml:"language" json:"language"`
  Grade          int     `yaml:"grade" json:"grade"`
  Topic          string  `yaml:"topic" json:"topic,omitempty"`
  RelevanceScore float64 `yaml:"-" json:"relevance_score,omitempty"`
}

// Playbook is the resolved teaching guidance artifact returned to a caller.
// Created fresh per resolution; cached copies are serialized verbatim.
type Playbook struct {
  ID              string     `json:"id"`
  Problem         string     `json:"problem"`
  WhatToSay       []string   `json:"what_to_say"`
  Activity        Activity   `json:"activity"`
  ClassManagement []string   `json:"class_management"`
  QuickCheck      QuickCheck `json:"quick_check"`
  NCERTRefs       []NCERTRef `json:"ncert_refs,omitempty"`
  Videos          []Video    `json:"videos,omitempty"`
  TrustScore      float64    `json:"trust_score"`
  FromQuickFix    bool       `json:"from_quick_fix"`
  Language        string     `json:"language,omitempty"`
}
