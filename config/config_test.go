package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := Default()

	if cfg.Client.BaseURL != "http://localhost:3000" {
		t.Fatalf("expected default base url, got %q", cfg.Client.BaseURL)
	}
	if cfg.Client.UserAgent != "ogini-go" {
		t.Fatalf("expected default user agent, got %q", cfg.Client.UserAgent)
	}
	if cfg.Client.RequestTimeout != 30*time.Second || cfg.Client.ConnectTimeout != 5*time.Second {
		t.Fatalf("expected default client timeouts, got %+v", cfg.Client)
	}

	if !cfg.Pool.Enabled || cfg.Pool.Size != 5 || cfg.Pool.MaxConcurrent != 10 {
		t.Fatalf("expected default pool config, got %+v", cfg.Pool)
	}
	if !cfg.Pool.KeepAlive || cfg.Pool.MaxIdleTime != 5*time.Minute {
		t.Fatalf("expected default pool keep-alive and idle time, got %+v", cfg.Pool)
	}
	if cfg.Pool.BaseURL != "http://localhost:3000" {
		t.Fatalf("expected pool base url to fall back to the client default, got %q", cfg.Pool.BaseURL)
	}

	if !cfg.Cache.Enabled || cfg.Cache.Prefix != "ogini_search" {
		t.Fatalf("expected default cache config, got %+v", cfg.Cache)
	}
	if cfg.Cache.DefaultTTL != 5*time.Minute || cfg.Cache.QueryTTL != 10*time.Minute {
		t.Fatalf("expected default cache TTLs, got %+v", cfg.Cache)
	}
	if cfg.Cache.SuggestionTTL != time.Hour || cfg.Cache.FacetTTL != 30*time.Minute {
		t.Fatalf("expected default suggestion/facet TTLs, got %+v", cfg.Cache)
	}

	if !cfg.Optimizer.Enabled || cfg.Optimizer.MinTermLength != 3 || cfg.Optimizer.MaxQueryLength != 500 {
		t.Fatalf("expected default optimizer config, got %+v", cfg.Optimizer)
	}
	if cfg.Optimizer.BoostExact != 2.0 || cfg.Optimizer.BoostPhrase != 1.5 || cfg.Optimizer.BoostFuzzy != 1.0 {
		t.Fatalf("expected default boosts, got %+v", cfg.Optimizer)
	}
	if len(cfg.Optimizer.Stopwords) == 0 {
		t.Fatalf("expected a default stopword list")
	}

	if cfg.Batch.BatchSize != 100 || cfg.Batch.MaxRetryAttempts != 3 {
		t.Fatalf("expected default batch config, got %+v", cfg.Batch)
	}
	if cfg.Batch.Delay != 100*time.Millisecond || cfg.Batch.RetryDelay != 500*time.Millisecond {
		t.Fatalf("expected default batch delays, got %+v", cfg.Batch)
	}

	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.BaseDelay != 100*time.Millisecond {
		t.Fatalf("expected default retry config, got %+v", cfg.Retry)
	}
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("client.base_url", "https://search.example.com/")
	v.Set("client.api_key", "secret")
	v.Set("pool.size", 8)
	v.Set("cache.prefix", "acme")
	v.Set("cache.query_ttl", "15m")
	v.Set("optimizer.stopwords", []string{"foo", "bar"})
	v.Set("batch.batch_size", 250)
	v.Set("retry.max_attempts", 5)

	cfg := FromViper(v)

	if cfg.Client.BaseURL != "https://search.example.com/" {
		t.Fatalf("expected overridden base url, got %q", cfg.Client.BaseURL)
	}
	if cfg.Pool.Size != 8 {
		t.Fatalf("expected pool size 8, got %d", cfg.Pool.Size)
	}
	if cfg.Pool.APIKey != "secret" {
		t.Fatalf("expected pool api key inherited from client, got %q", cfg.Pool.APIKey)
	}
	if cfg.Cache.Prefix != "acme" || cfg.Cache.QueryTTL != 15*time.Minute {
		t.Fatalf("expected cache overrides, got %+v", cfg.Cache)
	}
	if len(cfg.Optimizer.Stopwords) != 2 {
		t.Fatalf("expected stopword override, got %v", cfg.Optimizer.Stopwords)
	}
	if cfg.Batch.BatchSize != 250 {
		t.Fatalf("expected batch size 250, got %d", cfg.Batch.BatchSize)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Fatalf("expected retry max attempts 5, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestFromViper_ExplicitFalseDisables(t *testing.T) {
	v := viper.New()
	v.Set("pool.enabled", false)
	v.Set("cache.enabled", false)
	v.Set("optimizer.enabled", false)
	v.Set("pool.keep_alive", false)

	cfg := FromViper(v)

	if cfg.Pool.Enabled || cfg.Cache.Enabled || cfg.Optimizer.Enabled {
		t.Fatalf("expected explicit false to disable, got pool=%v cache=%v optimizer=%v",
			cfg.Pool.Enabled, cfg.Cache.Enabled, cfg.Optimizer.Enabled)
	}
	if cfg.Pool.KeepAlive {
		t.Fatalf("expected keep_alive disabled")
	}
}

func TestValidate_RejectsInvalidValues(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}

	cfg.Client.BaseURL = ""
	cfg.Pool.Size = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation failure for empty base url and negative pool size")
	}
}
