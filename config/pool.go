package config

import (
	"time"

	"github.com/spf13/viper"
)

// Pool connection pool config struct
type Pool struct {
	Enabled         bool          `json:"enabled" yaml:"enabled"`
	Size            int           `json:"size" yaml:"size" validate:"gte=1"`
	MaxConnsPerHost int           `json:"max_conns_per_host" yaml:"max_conns_per_host"`
	ConnectTimeout  time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	RequestTimeout  time.Duration `json:"request_timeout" yaml:"request_timeout"`
	KeepAlive       bool          `json:"keep_alive" yaml:"keep_alive"`
	IdleConnTimeout time.Duration `json:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleTime     time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
	HTTP2           bool          `json:"http2" yaml:"http2"`
	MaxConcurrent   int           `json:"max_concurrent" yaml:"max_concurrent" validate:"gte=1"`
	RatePerSecond   float64       `json:"rate_per_second" yaml:"rate_per_second"`
	BaseURL         string        `json:"base_url" yaml:"base_url"`
	APIKey          string        `json:"api_key" yaml:"api_key"`
	UserAgent       string        `json:"user_agent" yaml:"user_agent"`
}

// getPoolConfig reads connection pool configurations
func getPoolConfig(v *viper.Viper) *Pool {
	cfg := &Pool{
		Enabled:         true,
		Size:            v.GetInt("pool.size"),
		MaxConnsPerHost: v.GetInt("pool.max_conns_per_host"),
		ConnectTimeout:  v.GetDuration("pool.connect_timeout"),
		RequestTimeout:  v.GetDuration("pool.request_timeout"),
		KeepAlive:       true,
		IdleConnTimeout: v.GetDuration("pool.idle_conn_timeout"),
		MaxIdleTime:     v.GetDuration("pool.max_idle_time"),
		HTTP2:           v.GetBool("pool.http2"),
		MaxConcurrent:   v.GetInt("pool.max_concurrent"),
		RatePerSecond:   v.GetFloat64("pool.rate_per_second"),
		BaseURL:         v.GetString("pool.base_url"),
		APIKey:          v.GetString("pool.api_key"),
		UserAgent:       v.GetString("pool.user_agent"),
	}
	if v.IsSet("pool.enabled") {
		cfg.Enabled = v.GetBool("pool.enabled")
	}
	if v.IsSet("pool.keep_alive") {
		cfg.KeepAlive = v.GetBool("pool.keep_alive")
	}
	if cfg.Size == 0 {
		cfg.Size = 5
	}
	if cfg.MaxConnsPerHost == 0 {
		cfg.MaxConnsPerHost = 10
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.IdleConnTimeout == 0 {
		cfg.IdleConnTimeout = 90 * time.Second
	}
	if cfg.MaxIdleTime == 0 {
		cfg.MaxIdleTime = 5 * time.Minute
	}
	if cfg.MaxConcurrent == 0 {
		cfg.MaxConcurrent = 10
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = v.GetString("client.base_url")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:3000"
	}
	if cfg.APIKey == "" {
		cfg.APIKey = v.GetString("client.api_key")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = v.GetString("client.user_agent")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ogini-go"
	}
	return cfg
}
