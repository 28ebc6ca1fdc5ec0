package config

import (
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. Production logs are JSON; an
// unknown LOG_LEVEL falls back to info.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if c.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logger.WithField("log_level", c.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
