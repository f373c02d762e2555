package types

import "testing"

func TestLocalizedTextResolve_FallbackChain(t *testing.T) {
  full := LocalizedText{"base": "b", "en": "e", "hi": "h"}
  if got := full.Resolve("hi"); got != "h" {
    t.Fatalf("expected hi variant, got %q", got)
  }
  if got := full.Resolve("kn"); got != "e" {
    t.Fatalf("expected en fallback for kn, got %q", got)
  }

  noEn := LocalizedText{"base": "b"}
  if got := noEn.Resolve("kn"); got != "b" {
    t.Fatalf("expected base fallback, got %q", got)
  }

  var empty LocalizedText
  if got := empty.Resolve("hi"); got != "" {
    t.Fatalf("expected empty for nil map, got %q", got)
  }
}

func TestLocalizedTextResolve_SkipsEmptyVariants(t *testing.T) {
  lt := LocalizedText{"base": "b", "en": "", "hi": ""}
  if got := lt.Resolve("hi"); got != "b" {
    t.Fatalf("empty variants should fall through to base, got %q", got)
  }
}

func TestLocalizedListResolve(t *testing.T) {
  ll := LocalizedList{"base": {"x"}, "en": {"a", "b"}}
  if got := ll.Resolve("hi"); len(got) != 2 || got[0] != "a" {
    t.Fatalf("expected en fallback, got %v", got)
  }
  if got := ll.Resolve("en"); len(got) != 2 {
    t.Fatalf("expected en variant, got %v", got)
  }
}
