package config

import (
	"github.com/spf13/viper"
)

// Observes observability config struct
type Observes struct {
	Sentry *Sentry `json:"sentry" yaml:"sentry"`
}

// Sentry sentry config struct
type Sentry struct {
	Dsn         string `json:"dsn" yaml:"dsn"`
	Environment string `json:"environment" yaml:"environment"`
}

// getObservesConfig reads observability configurations
func getObservesConfig(v *viper.Viper) *Observes {
	return &Observes{
		Sentry: &Sentry{
			Dsn:         v.GetString("observes.sentry.dsn"),
			Environment: v.GetString("observes.sentry.environment"),
		},
	}
}
