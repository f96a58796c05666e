package config

import (
	"github.com/spf13/viper"
)

// Logger logger config struct
type Logger struct {
	Level      int    `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"`
	Output     string `json:"output" yaml:"output"`
	OutputFile string `json:"output_file" yaml:"output_file"`
}

// getLoggerConfig reads logger configurations
func getLoggerConfig(v *viper.Viper) *Logger {
	cfg := &Logger{
		Level:      v.GetInt("logger.level"),
		Format:     v.GetString("logger.format"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
	}
	if cfg.Level == 0 {
		cfg.Level = 4 // logrus.InfoLevel
	}
	return cfg
}
