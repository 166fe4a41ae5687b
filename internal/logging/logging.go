package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

func SetupLogging() *logrus.Logger {
	return SetupLoggingWithLevel(logrus.InfoLevel)
}

// SetupLoggingWithLevel builds the JSON logger used by every binary.
func SetupLoggingWithLevel(level logrus.Level) *logrus.Logger {
	logger := logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   os.Stdout,
		Level: level,
		Hooks: make(logrus.LevelHooks),
	}

	return &logger
}

// ParseLevel falls back to info for unknown level names.
func ParseLevel(name string) logrus.Level {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
