package types

// LocalizedText holds per-language variants of a single text field, keyed by
// language code. The "base" key is the language-neutral value. Lookups go
// requested language, then "en", then "base", the same fallback chain for
// every localized field in the catalog.
type LocalizedText map[string]string

func (t LocalizedText) Resolve(lang string) string {
  if t == nil {
    return ""
  }
  if v, ok := t[lang]; ok && v != "" {
    return v
  }
  if v, ok := t["en"]; ok && v != "" {
    return v
  }
  return t["base"]
}

// Combined joins every variant into one haystack for keyword matching.
func (t LocalizedText) Combined() string {
  if t == nil {
    return ""
  }
  out := ""
  for _, key := range []string{"base", "en", "hi", "kn"} {
    if v := t[key]; v != "" {
      if out != "" {
        out += " "
      }
      out += v
    }
  }
  return out
}

type LocalizedList map[string][]string

func (l LocalizedList) Resolve(lang string) []string {
  if l == nil {
    return nil
  }
  if v, ok := l[lang]; ok && len(v) > 0 {
    return v
  }
  if v, ok := l["en"]; ok && len(v) > 0 {
    return v
  }
  return l["base"]
}

// QuickFix is a pre-authored playbook entry with measured success statistics.
// Loaded once at startup; only UsageCount and SuccessRate mutate afterwards,
// and only through the catalog's feedback operations.
type QuickFix struct {
  ID              string        `yaml:"id" json:"id"`
  Grade           int           `yaml:"grade" json:"grade"`
  Subject         string        `yaml:"subject" json:"subject"`
  Topic           string        `yaml:"topic" json:"topic"`
  Problem         LocalizedText `yaml:"problem" json:"problem"`
  WhatToSay       LocalizedList `yaml:"what_to_say" json:"what_to_say"`
  ActivityName    LocalizedText `yaml:"activity" json:"activity"`
  Steps           LocalizedList `yaml:"steps" json:"steps"`
  Materials       []string      `yaml:"materials" json:"materials"`
  ClassManagement LocalizedList `yaml:"class_management" json:"class_management"`
  Questions       LocalizedList `yaml:"questions" json:"questions"`
  UsageCount      int           `yaml:"usage_count" json:"usage_count"`
  SuccessRate     float64       `yaml:"success_rate" json:"success_rate"`
}

// ScoredQuickFix pairs a catalog entry with its relevance for a query.
type ScoredQuickFix struct {
  QuickFix
  RelevanceScore float64 `json:"relevance_score"`
}
