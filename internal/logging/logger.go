package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. Outside development the output is JSON so
// log collectors can parse it; in development a plain text formatter is
// easier on the eyes.
func New(logLevel, environment string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if environment == "development" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}
	return logger
}

// WithComponent tags log lines with the subsystem they come from.
func WithComponent(logger *logrus.Logger, component string) *logrus.Entry {
	return logger.WithField("component", component)
}

// WithPipeline tags log lines with the pipeline being run.
func WithPipeline(logger *logrus.Logger, pipeline string) *logrus.Entry {
	return logger.WithField("pipeline", pipeline)
}
