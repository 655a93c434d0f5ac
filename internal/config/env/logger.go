package env

import (
	"os"

	"roulette_sentinel/internal/config"
)

const (
	logLevelEnvName = "LOG_LEVEL"
	logFileEnvName  = "LOG_FILE"
)

type loggerConfig struct {
	level string
	file  string
}

func NewLoggerConfig() (config.LoggerConfig, error) {
	level := os.Getenv(logLevelEnvName)
	if len(level) == 0 {
		level = "info"
	}

	return &loggerConfig{
		level: level,
		file:  os.Getenv(logFileEnvName),
	}, nil
}

func (cfg *loggerConfig) Level() string {
	return cfg.level
}

func (cfg *loggerConfig) File() string {
	return cfg.file
}
