package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Setup builds the service logger. Unknown levels fall back to info and any
// format other than "text" logs JSON.
func Setup(level, format string) *logrus.Logger {
	return New(os.Stdout, level, format)
}

// New builds a logger writing to out
func New(out io.Writer, level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}
