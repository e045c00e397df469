package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/huangsam/codearchitect/schema"
)

// Banner messages shown to the user.
const (
	BackendUnavailableMessage = "Backend API is not available. Make sure the server is running."
	StartFailedMessage        = "Failed to start analysis"
)

// Color variables for console output.
var (
	FailedColor    = color.New(color.FgRed, color.Bold) // FailedColor represents standard danger.
	CompletedColor = color.New(color.FgGreen, color.Bold)
	ActiveColor    = color.New(color.FgYellow) // ActiveColor marks work still in progress.
	IdleColor      = color.New(color.FgCyan)
	TitleColor     = color.New(color.FgBlue, color.Bold)
	CheckColor     = color.New(color.FgGreen)
	BannerColor    = color.New(color.FgYellow, color.Bold)
)

// GetColorStatus returns a colored status label for console output.
func GetColorStatus(status schema.Status) string {
	text := schema.StatusLabel(status)

	switch status {
	case schema.FailedStatus:
		return FailedColor.Sprint(text)
	case schema.CompletedStatus:
		return CompletedColor.Sprint(text)
	case schema.AnalyzingStatus, schema.PendingStatus:
		return ActiveColor.Sprint(text)
	default:
		return IdleColor.Sprint(text)
	}
}

// SubmissionErrorMessage returns the text of the inline error banner for a
// failed submission.
func SubmissionErrorMessage(err error) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return StartFailedMessage
	}
	return err.Error()
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".codearchitect_history.db"
	}
	return filepath.Join(homeDir, ".codearchitect_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ErrNotConfigured is returned when an optional feature is used while disabled.
var ErrNotConfigured = errors.New("feature is not configured")
