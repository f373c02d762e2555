package rediscache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/sahayakai/sahayak-backend/internal/logger"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

func testPlaybook() *types.Playbook {
	return &types.Playbook{
		ID:        "pb-test-1",
		Problem:   "बच्चे जोड़ना नहीं समझ रहे",
		WhatToSay: []string{"कोई बात नहीं, हम फिर से कोशिश करेंगे"},
		Activity: types.Activity{
			Name:  "पत्थर गिनो",
			Steps: []string{"हर बच्चे को 10 पत्थर दो"},
		},
		TrustScore: 0.8,
		Language:   "hi",
	}
}

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(logger.NewNop(), mr.Addr(), "")
	if !c.Available() {
		t.Fatalf("expected cache available against miniredis")
	}

	ctx := context.Background()
	key := ContextNamespace + "abc123def456"

	if _, ok := c.Get(ctx, key); ok {
		t.Fatalf("expected miss before set")
	}
	if !c.Set(ctx, key, testPlaybook(), time.Hour) {
		t.Fatalf("set failed")
	}

	got, ok := c.Get(ctx, key)
	if !ok {
		t.Fatalf("expected hit after set")
	}
	if got.ID != "pb-test-1" {
		t.Fatalf("got id %q", got.ID)
	}
	if got.Problem != "बच्चे जोड़ना नहीं समझ रहे" {
		t.Fatalf("devanagari text mangled: %q", got.Problem)
	}

	// Raw stored bytes must keep the text unescaped.
	raw, err := mr.Get(key)
	if err != nil {
		t.Fatalf("miniredis get: %v", err)
	}
	if strings.Contains(raw, `\u0`) {
		t.Fatalf("stored entry has escaped unicode: %s", raw)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(logger.NewNop(), mr.Addr(), "")

	ctx := context.Background()
	key := ProblemNamespace + "feedface0001"
	if !c.Set(ctx, key, testPlaybook(), 2*time.Second) {
		t.Fatalf("set failed")
	}
	if _, ok := c.Get(ctx, key); !ok {
		t.Fatalf("expected hit before expiry")
	}

	mr.FastForward(3 * time.Second)

	if _, ok := c.Get(ctx, key); ok {
		t.Fatalf("expected miss after ttl expiry")
	}
}

func TestCacheUsageCounter(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(logger.NewNop(), mr.Addr(), "")

	ctx := context.Background()
	key := ContextNamespace + "abc123def456"
	_ = c.Set(ctx, key, testPlaybook(), time.Hour)

	c.IncrementUsage(ctx, key)
	c.IncrementUsage(ctx, key)
	c.IncrementUsage(ctx, key)

	top := c.PopularProblems(ctx, 5)
	if len(top) != 1 {
		t.Fatalf("expected 1 popular problem, got %d", len(top))
	}
	if top[0].CacheKey != key || top[0].Uses != 3 {
		t.Fatalf("unexpected popular entry: %+v", top[0])
	}
}

func TestCacheDegradesWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c := New(logger.NewNop(), addr, "")
	if c.Available() {
		t.Fatalf("expected cache unavailable")
	}

	ctx := context.Background()
	if ok := c.Set(ctx, ContextNamespace+"dead", testPlaybook(), time.Hour); ok {
		t.Fatalf("set must be a no-op when degraded")
	}
	if _, ok := c.Get(ctx, ContextNamespace+"dead"); ok {
		t.Fatalf("get must miss when degraded")
	}
	c.IncrementUsage(ctx, ContextNamespace+"dead")
	if got := c.PopularProblems(ctx, 5); len(got) != 0 {
		t.Fatalf("popular problems must be empty when degraded")
	}
}
