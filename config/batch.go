package config

import (
	"time"

	"github.com/spf13/viper"
)

// Batch batch processor config struct
type Batch struct {
	BatchSize        int           `json:"batch_size" yaml:"batch_size" validate:"gte=1"`
	Delay            time.Duration `json:"delay" yaml:"delay"`
	MaxRetryAttempts int           `json:"max_retry_attempts" yaml:"max_retry_attempts" validate:"gte=1"`
	RetryDelay       time.Duration `json:"retry_delay" yaml:"retry_delay"`
}

// getBatchConfig reads batch processor configurations
func getBatchConfig(v *viper.Viper) *Batch {
	cfg := &Batch{
		BatchSize:        v.GetInt("batch.batch_size"),
		Delay:            v.GetDuration("batch.delay"),
		MaxRetryAttempts: v.GetInt("batch.max_retry_attempts"),
		RetryDelay:       v.GetDuration("batch.retry_delay"),
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Delay == 0 {
		cfg.Delay = 100 * time.Millisecond
	}
	if cfg.MaxRetryAttempts == 0 {
		cfg.MaxRetryAttempts = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	return cfg
}
