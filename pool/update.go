package pool

import (
	"time"

	"golang.org/x/time/rate"
)

// ConfigPatch is a partial pool configuration; nil fields keep the
// current value.
type ConfigPatch struct {
	Enabled         *bool
	Size            *int
	MaxConnsPerHost *int
	ConnectTimeout  *time.Duration
	RequestTimeout  *time.Duration
	KeepAlive       *bool
	IdleConnTimeout *time.Duration
	MaxIdleTime     *time.Duration
	HTTP2           *bool
	MaxConcurrent   *int
	RatePerSecond   *float64
	BaseURL         *string
	APIKey          *string
	UserAgent       *string
}

// UpdateConfig merges the patch into the current configuration. A change
// to the pool size, base URL or API key tears the whole pool down and
// reinitializes it; live connections are never partially reconfigured.
func (p *Pool) UpdateConfig(patch *ConfigPatch) {
	if patch == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	rebuild := false

	if patch.Size != nil && *patch.Size != p.cfg.Size {
		p.cfg.Size = *patch.Size
		rebuild = true
	}
	if patch.BaseURL != nil && *patch.BaseURL != p.cfg.BaseURL {
		p.cfg.BaseURL = *patch.BaseURL
		rebuild = true
	}
	if patch.APIKey != nil && *patch.APIKey != p.cfg.APIKey {
		p.cfg.APIKey = *patch.APIKey
		rebuild = true
	}

	if patch.Enabled != nil {
		p.cfg.Enabled = *patch.Enabled
		rebuild = true
	}
	if patch.MaxConnsPerHost != nil {
		p.cfg.MaxConnsPerHost = *patch.MaxConnsPerHost
	}
	if patch.ConnectTimeout != nil {
		p.cfg.ConnectTimeout = *patch.ConnectTimeout
	}
	if patch.RequestTimeout != nil {
		p.cfg.RequestTimeout = *patch.RequestTimeout
	}
	if patch.KeepAlive != nil {
		p.cfg.KeepAlive = *patch.KeepAlive
	}
	if patch.IdleConnTimeout != nil {
		p.cfg.IdleConnTimeout = *patch.IdleConnTimeout
	}
	if patch.MaxIdleTime != nil {
		p.cfg.MaxIdleTime = *patch.MaxIdleTime
	}
	if patch.HTTP2 != nil {
		p.cfg.HTTP2 = *patch.HTTP2
	}
	if patch.MaxConcurrent != nil {
		p.cfg.MaxConcurrent = *patch.MaxConcurrent
	}
	if patch.RatePerSecond != nil {
		p.cfg.RatePerSecond = *patch.RatePerSecond
		p.limiter = nil
		if p.cfg.RatePerSecond > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(p.cfg.RatePerSecond), 1)
		}
	}

	if rebuild {
		p.initialize()
	}
}
