package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/internal/controller"
	"github.com/huangsam/codearchitect/internal/form"
	"github.com/huangsam/codearchitect/internal/gitclient"
	"github.com/huangsam/codearchitect/internal/outwriter"
	"github.com/huangsam/codearchitect/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analyzeCmd submits a repository and follows the analysis to the end.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <repository-url>",
	Short: "Submit a repository for analysis and wait for the results",
	Long: `Send a repository to the analysis backend and poll its status until it completes or fails.

The request carries:
- Repository URL (required)
- Branch (default: main)
- Focus areas (default: architecture, performance, security)
- Depth (default: 3)

The backend is checked first. When it is unreachable a warning banner is printed
and the submission is still attempted.

Press Ctrl-C to abandon the analysis; polling stops and the session is cleared.

Examples:
  # Analyze the default branch with default focus areas
  codearchitect analyze https://github.com/acme/widgets

  # Focus on security at a deeper level
  codearchitect analyze https://github.com/acme/widgets --branch develop --focus security,performance --depth 5

  # Submit and return immediately
  codearchitect analyze https://github.com/acme/widgets --no-wait --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		noWait, _ := cmd.Flags().GetBool("no-wait")
		watch, _ := cmd.Flags().GetBool("watch")

		req, err := form.Normalize(form.Values{
			RepositoryURL: args[0],
			Branch:        viper.GetString("branch"),
			FocusAreas:    viper.GetString("focus"),
			Depth:         viper.GetString("depth"),
		})
		if err != nil {
			contract.LogFatal("Invalid analysis request", err)
		}

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.VerifyBranch {
			verifyBranch(ctx, gitclient.NewClient(), req)
		}

		ctrl := newController(newAnalysisClient())
		defer ctrl.Close()

		if _, err := ctrl.CheckHealth(ctx); err != nil {
			logger.WithError(err).Debug("Health check failed")
			printBanner(ctrl.Banner())
		}

		if watch {
			unsubscribe := ctrl.Store().Subscribe(statusPrinter())
			defer unsubscribe()
		}

		if _, err := ctrl.Submit(ctx, req); err != nil {
			contract.LogFatal("Failed to start analysis", errors.New(ctrl.Banner()))
		}

		final := ctrl.Store().Snapshot()
		if !noWait {
			final, err = ctrl.Wait(ctx)
			if err != nil {
				ctrl.Reset()
				contract.LogWarn("Analysis interrupted", err)
				return
			}
		}

		if err := outwriter.NewOutWriter().WriteSession(final, cfg); err != nil {
			contract.LogFatal("Error writing results", err)
		}
	},
}

// verifyBranch exits when the branch cannot be found on the remote.
func verifyBranch(ctx context.Context, verifier contract.BranchVerifier, req schema.AnalysisRequest) {
	ok, err := verifier.BranchExists(ctx, req.RepositoryURL, req.Branch)
	if err != nil {
		contract.LogFatal("Branch check failed", err)
	}
	if !ok {
		contract.LogFatal("Branch check failed", fmt.Errorf("branch %q not found in %s", req.Branch, req.RepositoryURL))
	}
}

// statusPrinter returns a listener that prints each distinct status once.
func statusPrinter() func(schema.AnalysisSession) {
	var (
		mu   sync.Mutex
		last schema.Status
	)
	return func(s schema.AnalysisSession) {
		mu.Lock()
		defer mu.Unlock()
		if s.Status == last {
			return
		}
		last = s.Status
		if s.HasID() {
			_, _ = fmt.Fprintf(os.Stderr, "⏳ %s %s\n", s.AnalysisID, contract.GetColorStatus(s.Status))
		}
	}
}

// attachAndWait polls an existing analysis until it stops or ctx ends.
func attachAndWait(ctx context.Context, ctrl *controller.Controller, analysisID string) (schema.AnalysisSession, error) {
	if err := ctrl.Attach(analysisID); err != nil {
		return schema.AnalysisSession{}, err
	}
	return ctrl.Wait(ctx)
}
