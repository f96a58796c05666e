package config

import (
	"github.com/spf13/viper"
)

// Optimizer query optimizer config struct
type Optimizer struct {
	Enabled            bool     `json:"enabled" yaml:"enabled"`
	MinTermLength      int      `json:"min_term_length" yaml:"min_term_length" validate:"gte=1"`
	MaxQueryLength     int      `json:"max_query_length" yaml:"max_query_length" validate:"gte=1"`
	MaxComplexityScore int      `json:"max_complexity_score" yaml:"max_complexity_score"`
	WildcardPenalty    float64  `json:"wildcard_penalty" yaml:"wildcard_penalty"`
	BoostExact         float64  `json:"boost_exact" yaml:"boost_exact"`
	BoostPhrase        float64  `json:"boost_phrase" yaml:"boost_phrase"`
	BoostFuzzy         float64  `json:"boost_fuzzy" yaml:"boost_fuzzy"`
	Stopwords          []string `json:"stopwords" yaml:"stopwords"`
}

// defaultStopwords is the fixed low-information word set stripped from
// match text when term length does not exceed min_term_length.
var defaultStopwords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
	"for", "of", "with", "by", "is", "are", "was", "were", "be",
	"been", "being", "have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "must",
	"shall", "can", "this", "that", "these", "those", "it", "its",
}

// getOptimizerConfig reads query optimizer configurations
func getOptimizerConfig(v *viper.Viper) *Optimizer {
	cfg := &Optimizer{
		Enabled:            true,
		MinTermLength:      v.GetInt("optimizer.min_term_length"),
		MaxQueryLength:     v.GetInt("optimizer.max_query_length"),
		MaxComplexityScore: v.GetInt("optimizer.max_complexity_score"),
		WildcardPenalty:    v.GetFloat64("optimizer.wildcard_penalty"),
		BoostExact:         v.GetFloat64("optimizer.boost_exact"),
		BoostPhrase:        v.GetFloat64("optimizer.boost_phrase"),
		BoostFuzzy:         v.GetFloat64("optimizer.boost_fuzzy"),
		Stopwords:          v.GetStringSlice("optimizer.stopwords"),
	}
	if v.IsSet("optimizer.enabled") {
		cfg.Enabled = v.GetBool("optimizer.enabled")
	}
	if cfg.MinTermLength == 0 {
		cfg.MinTermLength = 3
	}
	if cfg.MaxQueryLength == 0 {
		cfg.MaxQueryLength = 500
	}
	if cfg.MaxComplexityScore == 0 {
		cfg.MaxComplexityScore = 10
	}
	if cfg.WildcardPenalty == 0 {
		cfg.WildcardPenalty = 2.0
	}
	if cfg.BoostExact == 0 {
		cfg.BoostExact = 2.0
	}
	if cfg.BoostPhrase == 0 {
		cfg.BoostPhrase = 1.5
	}
	if cfg.BoostFuzzy == 0 {
		cfg.BoostFuzzy = 1.0
	}
	if len(cfg.Stopwords) == 0 {
		cfg.Stopwords = defaultStopwords
	}
	return cfg
}
