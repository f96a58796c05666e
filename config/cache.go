package config

import (
	"time"

	"github.com/spf13/viper"
)

// Cache query cache config struct
type Cache struct {
	Enabled       bool          `json:"enabled" yaml:"enabled"`
	Prefix        string        `json:"prefix" yaml:"prefix"`
	DefaultTTL    time.Duration `json:"default_ttl" yaml:"default_ttl"`
	QueryTTL      time.Duration `json:"query_ttl" yaml:"query_ttl"`
	SuggestionTTL time.Duration `json:"suggestion_ttl" yaml:"suggestion_ttl"`
	FacetTTL      time.Duration `json:"facet_ttl" yaml:"facet_ttl"`
	Redis         *Redis        `json:"redis" yaml:"redis"`
}

// Redis redis config struct
type Redis struct {
	Addr         string        `json:"addr" yaml:"addr"`
	Username     string        `json:"username" yaml:"username"`
	Password     string        `json:"password" yaml:"password"`
	Db           int           `json:"db" yaml:"db"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
}

// getCacheConfig reads query cache configurations
func getCacheConfig(v *viper.Viper) *Cache {
	cfg := &Cache{
		Enabled:       true,
		Prefix:        v.GetString("cache.prefix"),
		DefaultTTL:    v.GetDuration("cache.default_ttl"),
		QueryTTL:      v.GetDuration("cache.query_ttl"),
		SuggestionTTL: v.GetDuration("cache.suggestion_ttl"),
		FacetTTL:      v.GetDuration("cache.facet_ttl"),
		Redis:         getRedisConfig(v),
	}
	if v.IsSet("cache.enabled") {
		cfg.Enabled = v.GetBool("cache.enabled")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "ogini_search"
	}
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}
	if cfg.QueryTTL == 0 {
		cfg.QueryTTL = 10 * time.Minute
	}
	if cfg.SuggestionTTL == 0 {
		cfg.SuggestionTTL = time.Hour
	}
	if cfg.FacetTTL == 0 {
		cfg.FacetTTL = 30 * time.Minute
	}
	return cfg
}

// getRedisConfig reads Redis configurations
func getRedisConfig(v *viper.Viper) *Redis {
	return &Redis{
		Addr:         v.GetString("cache.redis.addr"),
		Username:     v.GetString("cache.redis.username"),
		Password:     v.GetString("cache.redis.password"),
		Db:           v.GetInt("cache.redis.db"),
		ReadTimeout:  v.GetDuration("cache.redis.read_timeout"),
		WriteTimeout: v.GetDuration("cache.redis.write_timeout"),
		DialTimeout:  v.GetDuration("cache.redis.dial_timeout"),
	}
}
