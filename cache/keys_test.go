package cache

import (
	"strings"
	"testing"
)

func TestGenerateKey_DeterministicAcrossMapOrder(t *testing.T) {
	// maps with the same pairs in different insertion order must hash the
	// same; Go maps are unordered so we also vary nesting
	a := map[string]any{
		"options": map[string]any{"a": 1, "b": 2},
		"query":   map[string]any{"match": map[string]any{"value": "x", "field": "title"}},
	}
	b := map[string]any{
		"query":   map[string]any{"match": map[string]any{"field": "title", "value": "x"}},
		"options": map[string]any{"b": 2, "a": 1},
	}

	ka := GenerateKey("ogini_search", TypeQuery, "products", a)
	kb := GenerateKey("ogini_search", TypeQuery, "products", b)
	if ka != kb {
		t.Fatalf("expected identical keys for structurally equal params, got %q and %q", ka, kb)
	}
}

func TestGenerateKey_SensitiveToNonIgnoredParams(t *testing.T) {
	base := map[string]any{"query": "hello"}
	changed := map[string]any{"query": "world"}

	if GenerateKey("p", TypeQuery, "idx", base) == GenerateKey("p", TypeQuery, "idx", changed) {
		t.Fatalf("expected different keys when query text changes")
	}
	if GenerateKey("p", TypeQuery, "idx", base) == GenerateKey("p", TypeQuery, "other", base) {
		t.Fatalf("expected different keys for different indices")
	}
	if GenerateKey("p", TypeQuery, "idx", base) == GenerateKey("p", TypeSuggestion, "idx", base) {
		t.Fatalf("expected different keys for different operation types")
	}
}

func TestGenerateKey_IgnoresVolatileFields(t *testing.T) {
	base := map[string]any{"query": "hello"}
	withVolatile := map[string]any{
		"query":     "hello",
		"timestamp": 1718000000,
		"debug":     true,
		"_cache":    "x",
	}

	if GenerateKey("p", TypeQuery, "idx", base) != GenerateKey("p", TypeQuery, "idx", withVolatile) {
		t.Fatalf("expected volatile fields to be ignored")
	}
}

func TestGenerateKey_StripsVolatileFieldsAtDepth(t *testing.T) {
	base := map[string]any{
		"filters": []any{map[string]any{"term": map[string]any{"a": "b"}}},
	}
	nested := map[string]any{
		"filters": []any{map[string]any{
			"term":      map[string]any{"a": "b", "timestamp": 99},
			"debug":     true,
			"timestamp": 1,
		}},
	}

	if GenerateKey("p", TypeQuery, "idx", base) != GenerateKey("p", TypeQuery, "idx", nested) {
		t.Fatalf("expected volatile fields stripped at every nesting level")
	}
}

func TestGenerateKey_Format(t *testing.T) {
	key := GenerateKey("ogini_search", TypeSuggestion, "idx", map[string]any{"text": "he"})

	parts := strings.Split(key, ":")
	if len(parts) != 3 {
		t.Fatalf("expected key format prefix:type:hash, got %q", key)
	}
	if parts[0] != "ogini_search" || parts[1] != "suggestion" {
		t.Fatalf("expected prefix and type in key, got %q", key)
	}
	if len(parts[2]) != 64 {
		t.Fatalf("expected sha256 hex digest of length 64, got %d", len(parts[2]))
	}
}
