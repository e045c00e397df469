package outwriter

import (
	"os"

	"github.com/huangsam/codearchitect/internal/contract"
	"golang.org/x/term"
)

// Bounds for the detail column of the findings table.
const (
	minDetailWidth = 20
	maxDetailWidth = 120
)

// GetTerminalWidth returns the width override, the detected terminal width,
// or 80 when neither is available.
func GetTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxDetailWidth calculates how wide a finding body line may be in the
// findings table.
func GetMaxDetailWidth(cfg *contract.Config, labelWidth int) int {
	// Borders, separators and padding of a two-column table.
	available := GetTerminalWidth(cfg) - labelWidth - 7
	if available < minDetailWidth {
		return minDetailWidth
	}
	if available > maxDetailWidth {
		return maxDetailWidth
	}
	return available
}

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
