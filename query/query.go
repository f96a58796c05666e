// Package query models the OginiSearch query DSL. Incoming payloads are
// free-form trees; Normalize converts them into a typed Query whose match
// clause is a tagged union, so downstream passes never sniff shapes.
package query

import (
	"strings"
)

// Kind identifies the match clause variant
type Kind int

const (
	MatchAll Kind = iota
	Match
	Wildcard
)

// Clause is the query clause tagged union. A Query always holds exactly
// one of MatchAll, Match{Field?, Value} or Wildcard{Value}.
type Clause struct {
	Kind  Kind
	Field string
	Value string
}

// Boost holds the exact/phrase/fuzzy match weights
type Boost struct {
	Exact  float64 `json:"exact"`
	Phrase float64 `json:"phrase"`
	Fuzzy  float64 `json:"fuzzy"`
}

// Query is the normalized search query
type Query struct {
	Clause      Clause
	Filter      any
	Sort        any
	Fields      []string
	Boost       *Boost
	Facets      any
	Highlight   any
	PhraseQuery string
	Size        int
	From        int
}

// Normalize converts an untyped search body into a Query. It accepts the
// legacy plain-string query, the nested match object, match_all and
// wildcard forms; anything unrecognized becomes match_all.
func Normalize(body map[string]any) *Query {
	q := &Query{Clause: Clause{Kind: MatchAll}}
	if body == nil {
		return q
	}

	switch raw := body["query"].(type) {
	case string:
		// legacy plain-string query
		q.Clause = Clause{Kind: Match, Value: raw}
	case map[string]any:
		q.Clause = normalizeClause(raw)
	}

	q.Filter = copyTree(body["filter"])
	q.Sort = copyTree(body["sort"])
	q.Facets = copyTree(body["facets"])
	q.Highlight = copyTree(body["highlight"])

	if fields, ok := body["fields"].([]any); ok {
		for _, f := range fields {
			if s, ok := f.(string); ok {
				q.Fields = append(q.Fields, s)
			}
		}
	}
	if fields, ok := body["fields"].([]string); ok {
		q.Fields = append(q.Fields, fields...)
	}

	if boost, ok := body["boost"].(map[string]any); ok {
		q.Boost = &Boost{
			Exact:  toFloat(boost["exact"]),
			Phrase: toFloat(boost["phrase"]),
			Fuzzy:  toFloat(boost["fuzzy"]),
		}
	}

	q.Size = toInt(body["size"])
	q.From = toInt(body["from"])

	return q
}

func normalizeClause(raw map[string]any) Clause {
	if _, ok := raw["match_all"]; ok {
		return Clause{Kind: MatchAll}
	}
	if m, ok := raw["match"].(map[string]any); ok {
		c := Clause{Kind: Match}
		if v, ok := m["value"].(string); ok {
			c.Value = v
		}
		if f, ok := m["field"].(string); ok {
			c.Field = f
		}
		return c
	}
	if w, ok := raw["wildcard"].(map[string]any); ok {
		c := Clause{Kind: Wildcard}
		if v, ok := w["value"].(string); ok {
			c.Value = v
		}
		return c
	}
	return Clause{Kind: MatchAll}
}

// Text returns the textual value of the match clause, empty for match_all.
func (q *Query) Text() string {
	return q.Clause.Value
}

// IsEmpty reports whether the match clause carries no usable text
func (q *Query) IsEmpty() bool {
	return q.Clause.Kind == MatchAll || strings.TrimSpace(q.Clause.Value) == ""
}

// Clone returns a deep copy of the query
func (q *Query) Clone() *Query {
	if q == nil {
		return nil
	}
	clone := *q
	clone.Filter = copyTree(q.Filter)
	clone.Sort = copyTree(q.Sort)
	clone.Facets = copyTree(q.Facets)
	clone.Highlight = copyTree(q.Highlight)
	if q.Fields != nil {
		clone.Fields = append([]string(nil), q.Fields...)
	}
	if q.Boost != nil {
		b := *q.Boost
		clone.Boost = &b
	}
	return &clone
}

// ToMap produces the wire body for the search endpoint
func (q *Query) ToMap() map[string]any {
	body := map[string]any{}

	switch q.Clause.Kind {
	case Match:
		match := map[string]any{"value": q.Clause.Value}
		if q.Clause.Field != "" {
			match["field"] = q.Clause.Field
		}
		body["query"] = map[string]any{"match": match}
	case Wildcard:
		body["query"] = map[string]any{"wildcard": map[string]any{"value": q.Clause.Value}}
	default:
		body["query"] = map[string]any{"match_all": map[string]any{}}
	}

	if q.Filter != nil {
		body["filter"] = q.Filter
	}
	if q.Sort != nil {
		body["sort"] = q.Sort
	}
	if len(q.Fields) > 0 {
		body["fields"] = q.Fields
	}
	if q.Boost != nil {
		body["boost"] = map[string]any{
			"exact":  q.Boost.Exact,
			"phrase": q.Boost.Phrase,
			"fuzzy":  q.Boost.Fuzzy,
		}
	}
	if q.Facets != nil {
		body["facets"] = q.Facets
	}
	if q.Highlight != nil {
		body["highlight"] = q.Highlight
	}
	if q.PhraseQuery != "" {
		body["phrase_query"] = q.PhraseQuery
	}
	if q.Size > 0 {
		body["size"] = q.Size
	}
	if q.From > 0 {
		body["from"] = q.From
	}

	return body
}

// copyTree deep-copies a free-form tree of maps, slices and scalars
func copyTree(node any) any {
	switch n := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[k] = copyTree(v)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			out[i] = copyTree(v)
		}
		return out
	default:
		return node
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
