package db

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

// NewLogger maps the process log level onto gorm's logger, writing through
// logrus so storage logging shares the process format.
func NewLogger(level string) logger.Interface {
	logLevel := logger.Silent
	switch level {
	case "trace", "debug":
		logLevel = logger.Info
	case "info", "warn":
		logLevel = logger.Warn
	case "error":
		logLevel = logger.Error
	}

	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
	})
}
