package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Operation types used in cache keys
const (
	TypeQuery      = "query"
	TypeSuggestion = "suggestion"
	TypeFacet      = "facet"
)

// volatileFields are stripped from key material at every nesting level so
// they never influence the cache key.
var volatileFields = map[string]struct{}{
	"timestamp": {},
	"_cache":    {},
	"debug":     {},
}

// GenerateKey builds the cache key "{prefix}:{type}:{sha256-hex}" from a
// canonicalized representation of (operation type, index name, params).
// Two structurally-equal requests produce the same key regardless of map
// insertion order.
func GenerateKey(prefix, opType, index string, params map[string]any) string {
	material := map[string]any{
		"type":   opType,
		"index":  index,
		"params": stripVolatile(params),
	}

	// encoding/json serializes map keys in sorted order, which makes the
	// serialization canonical once volatile fields are stripped.
	data, err := json.Marshal(material)
	if err != nil {
		data = []byte(fmt.Sprintf("%s:%s", opType, index))
	}

	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s:%s", prefix, opType, hex.EncodeToString(sum[:]))
}

// stripVolatile returns a copy of the tree with volatile fields removed at
// every nesting level
func stripVolatile(node any) any {
	switch n := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, v := range n {
			if _, volatile := volatileFields[k]; volatile {
				continue
			}
			out[k] = stripVolatile(v)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			out[i] = stripVolatile(v)
		}
		return out
	default:
		return node
	}
}
