package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/codearchitect/internal/apiclient"
	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/internal/outwriter"
	"github.com/huangsam/codearchitect/schema"
	"github.com/spf13/cobra"
)

// statusCmd fetches the state of an analysis started elsewhere.
var statusCmd = &cobra.Command{
	Use:   "status <analysis-id>",
	Short: "Show the status, findings and recommendations of an analysis",
	Long: `Fetch the current state of an analysis by its identifier.

By default a single status request is made. With --watch the analysis is polled
at the configured interval until it completes or fails.

Examples:
  # One-shot status
  codearchitect status 7f9c2b1e

  # Follow until done and export the findings
  codearchitect status 7f9c2b1e --watch --output csv --output-file findings.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		watch, _ := cmd.Flags().GetBool("watch")
		analysisID := args[0]
		client := newAnalysisClient()

		var final schema.AnalysisSession
		if watch {
			ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			ctrl := newController(client)
			defer ctrl.Close()
			unsubscribe := ctrl.Store().Subscribe(statusPrinter())
			defer unsubscribe()

			var err error
			if final, err = attachAndWait(ctx, ctrl, analysisID); err != nil {
				contract.LogWarn("Status watch interrupted", err)
				return
			}
		} else {
			resp, err := client.GetStatus(rootCtx, analysisID)
			if apiclient.IsNotFound(err) {
				contract.LogFatal("Analysis not found", err)
			}
			if err != nil {
				contract.LogFatal("Failed to fetch analysis status", err)
			}
			final = schema.AnalysisSession{
				AnalysisID:      analysisID,
				Status:          resp.Status,
				Findings:        resp.Findings,
				Recommendations: resp.Recommendations,
			}
			if final.Recommendations == nil {
				final.Recommendations = []string{}
			}
		}

		if err := outwriter.NewOutWriter().WriteSession(final, cfg); err != nil {
			contract.LogFatal("Error writing results", err)
		}
	},
}
