package config

import (
	"time"

	"github.com/spf13/viper"
)

// Client core client config struct
type Client struct {
	BaseURL        string        `json:"base_url" yaml:"base_url" validate:"required"`
	APIKey         string        `json:"api_key" yaml:"api_key"`
	UserAgent      string        `json:"user_agent" yaml:"user_agent"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
}

// getClientConfig reads core client configurations
func getClientConfig(v *viper.Viper) *Client {
	cfg := &Client{
		BaseURL:        v.GetString("client.base_url"),
		APIKey:         v.GetString("client.api_key"),
		UserAgent:      v.GetString("client.user_agent"),
		RequestTimeout: v.GetDuration("client.request_timeout"),
		ConnectTimeout: v.GetDuration("client.connect_timeout"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:3000"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ogini-go"
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	return cfg
}
