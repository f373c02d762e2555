package services

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/sahayakai/sahayak-backend/internal/clients/rediscache"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

// KeyDeriver maps classroom contexts and raw problem text onto stable,
// namespaced cache keys. Two requests normalize to the same key exactly
// when grade, subject, truncated topic and language all agree.
type KeyDeriver struct {
	topicLength int
}

func NewKeyDeriver(topicLength int) *KeyDeriver {
	if topicLength <= 0 {
		topicLength = 50
	}
	return &KeyDeriver{topicLength: topicLength}
}

// ContextKey derives the cache key for a resolved classroom context.
func (kd *KeyDeriver) ContextKey(sosCtx types.SOSContext) string {
	grade := ""
	if sosCtx.Grade != nil {
		grade = strconv.Itoa(*sosCtx.Grade)
	}

	lang := sosCtx.Language
	if lang == "" {
		lang = "hi"
	}

	parts := []string{
		grade,
		strings.ToLower(strings.TrimSpace(sosCtx.Subject)),
		truncateRunes(strings.ToLower(strings.TrimSpace(sosCtx.Topic)), kd.topicLength),
		lang,
	}
	return rediscache.ContextNamespace + hashKey(strings.Join(parts, ":"))
}

// ProblemKey derives the cache key for raw problem text, independent of
// any classroom context. Only the first 100 runes participate.
func (kd *KeyDeriver) ProblemKey(text string) string {
	normalized := truncateRunes(strings.ToLower(strings.TrimSpace(text)), 100)
	return rediscache.ProblemNamespace + hashKey(normalized)
}

func hashKey(material string) string {
	sum := md5.Sum([]byte(material))
	return hex.EncodeToString(sum[:])[:12]
}

// truncateRunes cuts s to at most n runes. Truncation happens before
// hashing so near-identical long topics collapse onto one key.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
