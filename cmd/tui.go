package cmd

import (
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/huangsam/codearchitect/internal/tui"
	"github.com/spf13/cobra"
)

// tuiCmd opens the interactive analysis page.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive analysis page",
	Long: `Launch a terminal page with the analysis form, a live status line and the results.

Keys:
  tab / shift+tab  move between fields and the results panel
  enter            submit the form, or expand a finding in the results panel
  ctrl+r           start a new analysis
  ctrl+c           quit (q also quits from the results panel)

Logs written to stderr would corrupt the screen, so they are dropped unless
--log-output names a file.

Examples:
  codearchitect tui
  codearchitect tui --api-url http://localhost:9000 --log-output architect.log`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		switch strings.ToLower(cfg.LogOutput) {
		case "", "stderr", "stdout":
			logger.SetOutput(io.Discard)
		}

		ctrl := newController(newAnalysisClient())
		defer ctrl.Close()

		model := tui.NewModel(rootCtx, ctrl)
		defer model.Close()

		_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(rootCtx)).Run()
		return err
	},
}
