// Package optimizer rewrites search queries for relevance and performance
// before dispatch: stopword removal, phrase detection, wildcard injection,
// exact-match boosting, filter reordering and field weighting, followed by
// a validation/repair pass. Optimize is a pure function; the input query
// is never mutated.
package optimizer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/oginisearch/ogini-go/config"
	"github.com/oginisearch/ogini-go/query"
)

// fieldWeights is the fixed importance table used for field weighting
var fieldWeights = map[string]string{
	"title":       "3.0",
	"name":        "2.5",
	"description": "1.5",
	"content":     "1.0",
	"tags":        "1.2",
}

const defaultFieldWeight = "1.0"

// Optimizer rewrites queries according to its configuration
type Optimizer struct {
	cfg       config.Optimizer
	stopwords map[string]struct{}
}

// New creates an optimizer from configuration
func New(cfg *config.Optimizer) *Optimizer {
	o := &Optimizer{
		cfg:       *cfg,
		stopwords: make(map[string]struct{}, len(cfg.Stopwords)),
	}
	for _, w := range cfg.Stopwords {
		o.stopwords[strings.ToLower(w)] = struct{}{}
	}
	return o
}

// Optimize returns a rewritten copy of the query. Pass order: stopwords,
// phrase detection, wildcards, boost, filters, field weights, repair.
func (o *Optimizer) Optimize(q *query.Query) *query.Query {
	if q == nil {
		return &query.Query{Clause: query.Clause{Kind: query.MatchAll}}
	}

	out := q.Clone()
	if o.cfg.Enabled {
		o.removeStopwords(out)
		o.detectPhrases(out)
		o.optimizeWildcards(out)
		o.applyBoosts(out)
		o.optimizeFilters(out)
		o.weightFields(out)
	}
	o.repair(out)
	return out
}

// removeStopwords lowercases the match text and drops tokens that are in
// the stopword set and do not exceed min_term_length
func (o *Optimizer) removeStopwords(q *query.Query) {
	if q.Clause.Kind != query.Match || q.Clause.Value == "" {
		return
	}

	tokens := strings.Split(strings.ToLower(q.Clause.Value), " ")
	kept := tokens[:0]
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, stop := o.stopwords[tok]; stop && len(tok) <= o.cfg.MinTermLength {
			continue
		}
		kept = append(kept, tok)
	}
	q.Clause.Value = strings.Join(kept, " ")
}

// detectPhrases normalizes whitespace inside existing quoted substrings,
// or stashes the whole multi-word text as an additive phrase query
func (o *Optimizer) detectPhrases(q *query.Query) {
	if q.Clause.Kind != query.Match || q.Clause.Value == "" {
		return
	}

	text := q.Clause.Value
	if strings.Contains(text, `"`) {
		q.Clause.Value = normalizeQuotedWhitespace(text)
		return
	}
	if len(strings.Fields(text)) > 1 {
		q.PhraseQuery = `"` + text + `"`
	}
}

// normalizeQuotedWhitespace collapses runs of whitespace inside quotes
func normalizeQuotedWhitespace(text string) string {
	parts := strings.Split(text, `"`)
	for i := 1; i < len(parts); i += 2 {
		parts[i] = strings.Join(strings.Fields(parts[i]), " ")
	}
	return strings.Join(parts, `"`)
}

// optimizeWildcards collapses wildcard runs and appends a trailing * to
// every sufficiently long token when the text has no wildcards or quotes,
// enabling prefix matching
func (o *Optimizer) optimizeWildcards(q *query.Query) {
	if q.Clause.Kind != query.Match || q.Clause.Value == "" {
		return
	}

	text := q.Clause.Value
	for strings.Contains(text, "**") {
		text = strings.ReplaceAll(text, "**", "*")
	}

	if !strings.Contains(text, "*") && !strings.Contains(text, `"`) {
		tokens := strings.Fields(text)
		for i, tok := range tokens {
			if len(tok) >= o.cfg.MinTermLength {
				tokens[i] = tok + "*"
			}
		}
		text = strings.Join(tokens, " ")
	}
	q.Clause.Value = text
}

// applyBoosts attaches the configured exact/phrase/fuzzy weights to any
// match query, overwriting a pre-existing boost
func (o *Optimizer) applyBoosts(q *query.Query) {
	if q.Clause.Kind != query.Match {
		return
	}
	q.Boost = &query.Boost{
		Exact:  o.cfg.BoostExact,
		Phrase: o.cfg.BoostPhrase,
		Fuzzy:  o.cfg.BoostFuzzy,
	}
}

// optimizeFilters sorts filter sequences by selectivity and merges
// adjacent term filters on the same field
func (o *Optimizer) optimizeFilters(q *query.Query) {
	switch f := q.Filter.(type) {
	case map[string]any:
		boolClause, ok := f["bool"].(map[string]any)
		if !ok {
			return
		}
		must, ok := boolClause["must"].([]any)
		if !ok {
			return
		}
		boolClause["must"] = o.rewriteFilterList(must)
	case []any:
		// a bare top-level filter list; only treat it as a sequence when
		// every element is itself a filter object
		for _, el := range f {
			if _, ok := el.(map[string]any); !ok {
				return
			}
		}
		q.Filter = o.rewriteFilterList(f)
	}
}

func (o *Optimizer) rewriteFilterList(filters []any) []any {
	sorted := append([]any(nil), filters...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return o.selectivityRank(sorted[i]) < o.selectivityRank(sorted[j])
	})
	return mergeTermFilters(sorted)
}

// selectivityRank orders filters most selective first: range, term,
// terms, match, then wildcard scaled by the configured penalty
func (o *Optimizer) selectivityRank(filter any) float64 {
	obj, ok := filter.(map[string]any)
	if !ok {
		return 5
	}
	switch {
	case obj["range"] != nil:
		return 1
	case obj["term"] != nil:
		return 2
	case obj["terms"] != nil:
		return 3
	case obj["match"] != nil:
		return 4
	case obj["wildcard"] != nil:
		return 5 * o.cfg.WildcardPenalty
	default:
		return 5
	}
}

// mergeTermFilters merges adjacent term filters on the same field into a
// single deduplicated terms filter
func mergeTermFilters(filters []any) []any {
	out := make([]any, 0, len(filters))
	for _, filter := range filters {
		field, value, ok := termFilter(filter)
		if !ok {
			out = append(out, filter)
			continue
		}

		if len(out) > 0 {
			if prevField, values, ok := mergeTarget(out[len(out)-1]); ok && prevField == field {
				out[len(out)-1] = map[string]any{"terms": map[string]any{field: appendUnique(values, value)}}
				continue
			}
		}
		out = append(out, filter)
	}
	return out
}

// termFilter extracts the single field/value pair of a term filter
func termFilter(filter any) (string, any, bool) {
	obj, ok := filter.(map[string]any)
	if !ok {
		return "", nil, false
	}
	term, ok := obj["term"].(map[string]any)
	if !ok || len(term) != 1 {
		return "", nil, false
	}
	for field, value := range term {
		return field, value, true
	}
	return "", nil, false
}

// mergeTarget extracts the field and current values of a term or terms
// filter that a following term filter can merge into
func mergeTarget(filter any) (string, []any, bool) {
	if field, value, ok := termFilter(filter); ok {
		return field, []any{value}, true
	}
	obj, ok := filter.(map[string]any)
	if !ok {
		return "", nil, false
	}
	terms, ok := obj["terms"].(map[string]any)
	if !ok || len(terms) != 1 {
		return "", nil, false
	}
	for field, values := range terms {
		if list, ok := values.([]any); ok {
			return field, list, true
		}
	}
	return "", nil, false
}

func appendUnique(values []any, value any) []any {
	for _, v := range values {
		if v == value {
			return values
		}
	}
	return append(values, value)
}

// weightFields appends ^weight suffixes from the importance table to any
// field that does not already carry one
func (o *Optimizer) weightFields(q *query.Query) {
	for i, field := range q.Fields {
		if strings.Contains(field, "^") {
			continue
		}
		weight, ok := fieldWeights[field]
		if !ok {
			weight = defaultFieldWeight
		}
		q.Fields[i] = field + "^" + weight
	}
}

// repair is the validation pass that always runs last. It is idempotent:
// repairing a repaired query changes nothing.
func (o *Optimizer) repair(q *query.Query) {
	if max := o.cfg.MaxQueryLength; max > 0 && len(q.Clause.Value) > max {
		// back off to a rune boundary so truncation never leaves
		// invalid UTF-8
		cut := max
		for cut > 0 && !utf8.RuneStart(q.Clause.Value[cut]) {
			cut--
		}
		q.Clause.Value = q.Clause.Value[:cut]
	}

	switch q.Clause.Kind {
	case query.Match, query.Wildcard:
		if strings.TrimSpace(q.Clause.Value) == "" {
			q.Clause = query.Clause{Kind: query.MatchAll}
		}
	default:
		q.Clause = query.Clause{Kind: query.MatchAll}
	}

	switch q.Filter.(type) {
	case map[string]any, []any, nil:
	default:
		q.Filter = nil
	}
}

// Repair exposes the validation/repair pass on its own
func (o *Optimizer) Repair(q *query.Query) *query.Query {
	out := q.Clone()
	o.repair(out)
	return out
}
