package optimizer

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/oginisearch/ogini-go/config"
	"github.com/oginisearch/ogini-go/query"
)

func testOptimizer() *Optimizer {
	return New(&config.Optimizer{
		Enabled:            true,
		MinTermLength:      3,
		MaxQueryLength:     500,
		MaxComplexityScore: 10,
		WildcardPenalty:    2.0,
		BoostExact:         2.0,
		BoostPhrase:        1.5,
		BoostFuzzy:         1.0,
		Stopwords:          []string{"the", "a", "an", "and", "or", "is", "to", "of"},
	})
}

func matchQuery(text string) *query.Query {
	return &query.Query{Clause: query.Clause{Kind: query.Match, Value: text}}
}

func TestOptimize_StopwordRemoval(t *testing.T) {
	o := testOptimizer()

	out := o.Optimize(matchQuery("the quick brown fox"))
	// wildcards are appended by the later pass; strip them to inspect the
	// stopword result
	text := strings.ReplaceAll(out.Clause.Value, "*", "")
	if text != "quick brown fox" {
		t.Fatalf("expected %q after stopword removal, got %q", "quick brown fox", text)
	}
}

func TestOptimize_WildcardInjection(t *testing.T) {
	o := testOptimizer()

	out := o.Optimize(matchQuery("search term"))
	if out.Clause.Value != "search* term*" {
		t.Fatalf("expected %q, got %q", "search* term*", out.Clause.Value)
	}
}

func TestOptimize_WildcardRunCollapse(t *testing.T) {
	o := testOptimizer()

	out := o.Optimize(matchQuery("foo*** bar"))
	if strings.Contains(out.Clause.Value, "**") {
		t.Fatalf("expected wildcard runs collapsed, got %q", out.Clause.Value)
	}
	// existing wildcards suppress injection on other tokens
	if out.Clause.Value != "foo* bar" {
		t.Fatalf("expected %q, got %q", "foo* bar", out.Clause.Value)
	}
}

func TestOptimize_NoWildcardsInsideQuotedPhrases(t *testing.T) {
	o := testOptimizer()

	out := o.Optimize(matchQuery(`"exact   phrase   here"`))
	if strings.Contains(out.Clause.Value, "*") {
		t.Fatalf("expected no wildcards in quoted text, got %q", out.Clause.Value)
	}
	if out.Clause.Value != `"exact phrase here"` {
		t.Fatalf("expected internal whitespace normalized, got %q", out.Clause.Value)
	}
}

func TestOptimize_PhraseDetectionIsAdditive(t *testing.T) {
	o := testOptimizer()

	out := o.Optimize(matchQuery("quick brown"))
	if out.PhraseQuery != `"quick brown"` {
		t.Fatalf("expected phrase query stashed, got %q", out.PhraseQuery)
	}
	if out.Clause.Kind != query.Match {
		t.Fatalf("expected match clause kept, got %v", out.Clause.Kind)
	}

	single := o.Optimize(matchQuery("quick"))
	if single.PhraseQuery != "" {
		t.Fatalf("expected no phrase query for single token, got %q", single.PhraseQuery)
	}
}

func TestOptimize_ExactMatchBoostOverwrites(t *testing.T) {
	o := testOptimizer()

	q := matchQuery("hello")
	q.Boost = &query.Boost{Exact: 9, Phrase: 9, Fuzzy: 9}
	out := o.Optimize(q)

	if out.Boost == nil || out.Boost.Exact != 2.0 || out.Boost.Phrase != 1.5 || out.Boost.Fuzzy != 1.0 {
		t.Fatalf("expected configured boost to overwrite, got %+v", out.Boost)
	}
}

func TestOptimize_FilterMerge(t *testing.T) {
	o := testOptimizer()

	q := matchQuery("x")
	q.Filter = map[string]any{"bool": map[string]any{"must": []any{
		map[string]any{"term": map[string]any{"status": "a"}},
		map[string]any{"term": map[string]any{"status": "b"}},
	}}}

	out := o.Optimize(q)
	must := out.Filter.(map[string]any)["bool"].(map[string]any)["must"].([]any)
	if len(must) != 1 {
		t.Fatalf("expected adjacent term filters merged, got %v", must)
	}
	expected := map[string]any{"terms": map[string]any{"status": []any{"a", "b"}}}
	if !reflect.DeepEqual(must[0], expected) {
		t.Fatalf("expected %v, got %v", expected, must[0])
	}
}

func TestOptimize_FilterMergeDeduplicates(t *testing.T) {
	o := testOptimizer()

	q := matchQuery("x")
	q.Filter = []any{
		map[string]any{"term": map[string]any{"status": "a"}},
		map[string]any{"term": map[string]any{"status": "a"}},
		map[string]any{"term": map[string]any{"status": "b"}},
	}

	out := o.Optimize(q)
	filters := out.Filter.([]any)
	if len(filters) != 1 {
		t.Fatalf("expected one merged filter, got %v", filters)
	}
	values := filters[0].(map[string]any)["terms"].(map[string]any)["status"].([]any)
	if len(values) != 2 {
		t.Fatalf("expected deduplicated values [a b], got %v", values)
	}
}

func TestOptimize_FilterSelectivityOrder(t *testing.T) {
	o := testOptimizer()

	q := matchQuery("x")
	q.Filter = []any{
		map[string]any{"wildcard": map[string]any{"name": "a*"}},
		map[string]any{"match": map[string]any{"body": "text"}},
		map[string]any{"term": map[string]any{"status": "a"}},
		map[string]any{"range": map[string]any{"age": map[string]any{"gte": 1}}},
	}

	out := o.Optimize(q)
	filters := out.Filter.([]any)
	order := make([]string, len(filters))
	for i, f := range filters {
		for k := range f.(map[string]any) {
			order[i] = k
		}
	}
	expected := []string{"range", "term", "match", "wildcard"}
	if !reflect.DeepEqual(order, expected) {
		t.Fatalf("expected selectivity order %v, got %v", expected, order)
	}
}

func TestOptimize_BareFilterListWithNonObjectIsLeftAlone(t *testing.T) {
	o := testOptimizer()

	q := matchQuery("x")
	q.Filter = []any{map[string]any{"term": map[string]any{"a": "b"}}, "not-an-object"}

	out := o.Optimize(q)
	filters := out.Filter.([]any)
	if len(filters) != 2 {
		t.Fatalf("expected mixed filter list untouched, got %v", filters)
	}
}

func TestOptimize_FieldWeighting(t *testing.T) {
	o := testOptimizer()

	q := matchQuery("x")
	q.Fields = []string{"title", "description", "custom", "content^0.5"}

	out := o.Optimize(q)
	expected := []string{"title^3.0", "description^1.5", "custom^1.0", "content^0.5"}
	if !reflect.DeepEqual(out.Fields, expected) {
		t.Fatalf("expected %v, got %v", expected, out.Fields)
	}
}

func TestOptimize_DoesNotMutateInput(t *testing.T) {
	o := testOptimizer()

	q := matchQuery("the quick brown fox")
	q.Filter = map[string]any{"bool": map[string]any{"must": []any{
		map[string]any{"term": map[string]any{"status": "a"}},
		map[string]any{"term": map[string]any{"status": "b"}},
	}}}
	q.Fields = []string{"title"}

	_ = o.Optimize(q)

	if q.Clause.Value != "the quick brown fox" {
		t.Fatalf("expected input clause untouched, got %q", q.Clause.Value)
	}
	must := q.Filter.(map[string]any)["bool"].(map[string]any)["must"].([]any)
	if len(must) != 2 {
		t.Fatalf("expected input filter untouched, got %v", must)
	}
	if q.Fields[0] != "title" {
		t.Fatalf("expected input fields untouched, got %v", q.Fields)
	}
	if q.Boost != nil {
		t.Fatalf("expected input boost untouched, got %+v", q.Boost)
	}
}

func TestRepair_EmptyMatchCollapsesToMatchAll(t *testing.T) {
	o := testOptimizer()

	out := o.Repair(matchQuery("   "))
	if out.Clause.Kind != query.MatchAll {
		t.Fatalf("expected match_all for empty match value, got %+v", out.Clause)
	}
}

func TestRepair_Idempotent(t *testing.T) {
	o := testOptimizer()

	queries := []*query.Query{
		matchQuery(""),
		matchQuery("hello"),
		{Clause: query.Clause{Kind: query.Wildcard, Value: ""}},
		{Clause: query.Clause{Kind: query.MatchAll}},
	}
	for _, q := range queries {
		once := o.Repair(q)
		twice := o.Repair(once)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("expected repair to be idempotent, got %+v then %+v", once, twice)
		}
	}
}

func TestRepair_DropsNonObjectFilter(t *testing.T) {
	o := testOptimizer()

	q := matchQuery("x")
	q.Filter = "not a filter"
	out := o.Repair(q)
	if out.Filter != nil {
		t.Fatalf("expected non-object filter dropped, got %v", out.Filter)
	}
}

func TestRepair_TruncatesOverlongQuery(t *testing.T) {
	o := New(&config.Optimizer{Enabled: true, MinTermLength: 3, MaxQueryLength: 10, MaxComplexityScore: 10})

	out := o.Repair(matchQuery("aaaaaaaaaaaaaaaaaaaa"))
	if len(out.Clause.Value) != 10 {
		t.Fatalf("expected value truncated to 10, got %d", len(out.Clause.Value))
	}
}

func TestRepair_TruncatesOnRuneBoundary(t *testing.T) {
	o := New(&config.Optimizer{Enabled: true, MinTermLength: 3, MaxQueryLength: 5, MaxComplexityScore: 10})

	// "anéé" is 6 bytes; a byte cut at 5 would split the second é
	out := o.Repair(matchQuery("anéé x"))
	if !utf8.ValidString(out.Clause.Value) {
		t.Fatalf("expected valid UTF-8 after truncation, got %q", out.Clause.Value)
	}
	if len(out.Clause.Value) > 5 {
		t.Fatalf("expected value within 5 bytes, got %d", len(out.Clause.Value))
	}
	if out.Clause.Value != "ané" {
		t.Fatalf("expected truncation backed off to a rune boundary, got %q", out.Clause.Value)
	}
}

func TestAnalyze_Complexity(t *testing.T) {
	o := testOptimizer()

	low := o.Analyze(matchQuery("quick fox"))
	if low.Complexity != ComplexityLow || low.EstimatedPerformance != "excellent" {
		t.Fatalf("expected low/excellent, got %s/%s", low.Complexity, low.EstimatedPerformance)
	}

	medium := matchQuery("one two three four")
	medium.Filter = []any{
		map[string]any{"term": map[string]any{"a": "b"}},
		map[string]any{"term": map[string]any{"c": "d"}},
	}
	m := o.Analyze(medium)
	if m.Complexity != ComplexityMedium || m.EstimatedPerformance != "good" {
		t.Fatalf("expected medium/good for score %d, got %s/%s", m.Score, m.Complexity, m.EstimatedPerformance)
	}

	high := matchQuery(`one* two* three* "four five" six seven`)
	high.Filter = []any{
		map[string]any{"term": map[string]any{"a": "b"}},
		map[string]any{"term": map[string]any{"c": "d"}},
	}
	high.Sort = []any{map[string]any{"a": "asc"}}
	h := o.Analyze(high)
	if h.Complexity != ComplexityHigh || h.EstimatedPerformance != "moderate" {
		t.Fatalf("expected high/moderate for score %d, got %s/%s", h.Score, h.Complexity, h.EstimatedPerformance)
	}
	if len(h.Recommendations) == 0 {
		t.Fatalf("expected recommendations for a high-complexity query")
	}
}

func TestAnalyze_ScoreComponents(t *testing.T) {
	o := testOptimizer()

	q := matchQuery(`hello* "world"`)
	q.Filter = []any{map[string]any{"term": map[string]any{"a": "b"}}}
	q.Sort = []any{map[string]any{"a": "asc"}}

	// 2 words + 2*1 wildcard + 2 quotes + 2*1 filter + 1 sort = 9
	a := o.Analyze(q)
	if a.Score != 9 {
		t.Fatalf("expected score 9, got %d", a.Score)
	}
}
