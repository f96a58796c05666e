package config

import (
	"time"

	"github.com/spf13/viper"
)

// Retry transport retry policy config struct
type Retry struct {
	MaxAttempts int           `json:"max_attempts" yaml:"max_attempts" validate:"gte=1"`
	BaseDelay   time.Duration `json:"base_delay" yaml:"base_delay"`
}

// getRetryConfig reads retry policy configurations
func getRetryConfig(v *viper.Viper) *Retry {
	cfg := &Retry{
		MaxAttempts: v.GetInt("retry.max_attempts"),
		BaseDelay:   v.GetDuration("retry.base_delay"),
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = 100 * time.Millisecond
	}
	return cfg
}
