package cmd

import (
	"os"

	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/internal/outwriter"
	"github.com/spf13/cobra"
)

// healthCmd checks the backend health endpoint.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the analysis backend is reachable",
	Long: `Call the backend health endpoint once.

Any successful response counts as reachable. On failure the same banner shown
before a submission is printed and the command exits with status 1.

Examples:
  codearchitect health
  codearchitect health --api-url https://architect.example.com --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		resp, err := newAnalysisClient().Health(rootCtx)
		if err != nil {
			logger.WithError(err).Debug("Health check failed")
			printBanner(contract.BackendUnavailableMessage)
			os.Exit(1)
		}
		if err := outwriter.NewOutWriter().WriteHealth(resp, cfg.APIURL, cfg); err != nil {
			contract.LogFatal("Error writing health result", err)
		}
	},
}
