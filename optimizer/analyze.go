package optimizer

import (
	"strings"

	"github.com/oginisearch/ogini-go/query"
)

// Complexity levels
const (
	ComplexityLow    = "low"
	ComplexityMedium = "medium"
	ComplexityHigh   = "high"
)

// Analysis is the outcome of analyzing a query
type Analysis struct {
	Complexity           string   `json:"complexity"`
	Score                int      `json:"score"`
	EstimatedPerformance string   `json:"estimated_performance"`
	Recommendations      []string `json:"recommendations"`
}

// Analyze scores a query's complexity: word count plus 2 per wildcard,
// 1 per quote, 2 per filter and 1 per sort field. Scores of 5 or less are
// low, scores within max_complexity_score are medium, the rest high.
func (o *Optimizer) Analyze(q *query.Query) Analysis {
	text := ""
	if q != nil {
		text = q.Clause.Value
	}

	wildcards := strings.Count(text, "*")
	quotes := strings.Count(text, `"`)
	filters := countFilters(q)
	sorts := countSorts(q)

	score := len(strings.Fields(text)) + 2*wildcards + quotes + 2*filters + sorts

	complexity := ComplexityHigh
	performance := "moderate"
	switch {
	case score <= 5:
		complexity = ComplexityLow
		performance = "excellent"
	case score <= o.cfg.MaxComplexityScore:
		complexity = ComplexityMedium
		performance = "good"
	}

	var recommendations []string
	if wildcards > 2 {
		recommendations = append(recommendations, "reduce wildcard usage to improve performance")
	}
	if filters > 3 {
		recommendations = append(recommendations, "combine term filters on the same field")
	}
	if o.cfg.MaxQueryLength > 0 && len(text) > o.cfg.MaxQueryLength {
		recommendations = append(recommendations, "shorten the query text")
	}
	if complexity == ComplexityHigh {
		recommendations = append(recommendations, "simplify the query to reduce latency")
	}

	return Analysis{
		Complexity:           complexity,
		Score:                score,
		EstimatedPerformance: performance,
		Recommendations:      recommendations,
	}
}

// countFilters counts the filter objects a query carries
func countFilters(q *query.Query) int {
	if q == nil || q.Filter == nil {
		return 0
	}
	switch f := q.Filter.(type) {
	case map[string]any:
		if boolClause, ok := f["bool"].(map[string]any); ok {
			if must, ok := boolClause["must"].([]any); ok {
				return len(must)
			}
		}
		if len(f) == 0 {
			return 0
		}
		return 1
	case []any:
		return len(f)
	}
	return 1
}

// countSorts counts the sort fields a query carries
func countSorts(q *query.Query) int {
	if q == nil || q.Sort == nil {
		return 0
	}
	switch s := q.Sort.(type) {
	case []any:
		return len(s)
	case map[string]any:
		return len(s)
	}
	return 1
}
