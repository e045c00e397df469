// Package logging configures the logrus logger used for operational logs.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Defaults used when a setting is left empty.
const (
	DefaultLevel  = "info"
	DefaultFormat = "text"
	DefaultOutput = "stderr"
)

// New builds a logger from level, format and output settings. Bad values
// fall back to the defaults with a warning on the returned logger.
func New(level, format, output string) *logrus.Logger {
	logger := logrus.New()

	var fallbacks []string

	if level == "" {
		level = DefaultLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		fallbacks = append(fallbacks, "invalid log level '"+level+"', using 'info' instead")
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	var out io.Writer
	switch strings.ToLower(output) {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fallbacks = append(fallbacks, "failed to open log file '"+output+"', using 'stderr' instead: "+err.Error())
			out = os.Stderr
		} else {
			out = file
		}
	}
	logger.SetOutput(out)

	for _, msg := range fallbacks {
		logger.Warn(msg)
	}
	return logger
}

// Discard returns a logger that drops everything. Used by tests and by
// surfaces that own stdout, such as the MCP server.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
