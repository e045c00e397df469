package cmd

import (
	"os"
	"strings"

	"github.com/huangsam/codearchitect/internal/gitclient"
	"github.com/huangsam/codearchitect/internal/iocache"
	"github.com/huangsam/codearchitect/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Code Architect MCP server",
	Long:  `Launch an MCP server that allows AI agents to start analyses, check their status and check backend health via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		// stdout carries the protocol
		if strings.EqualFold(cfg.LogOutput, "stdout") {
			logger.SetOutput(os.Stderr)
		}
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, mcp.Dependencies{
			Client:   newAnalysisClient(),
			History:  iocache.Manager,
			Verifier: gitclient.NewClient(),
		})
	},
}
