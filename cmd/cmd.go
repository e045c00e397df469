// Package cmd defines the command-line interface for codearchitect.
package cmd

import (
	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/internal/logging"
	"github.com/huangsam/codearchitect/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("api-url", schema.DefaultAPIURL, "Base URL of the analysis backend")
	rootCmd.PersistentFlags().String("poll-interval", schema.DefaultPollInterval.String(), "Delay between status polls (e.g., 3s, 500ms)")
	rootCmd.PersistentFlags().String("request-timeout", "0s", "Per-request timeout (0 = no timeout)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("verify-branch", "no", "Check that the branch exists on the remote before submitting (yes/no)")
	rootCmd.PersistentFlags().String("log-level", logging.DefaultLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", logging.DefaultFormat, "Log format: text or json")
	rootCmd.PersistentFlags().String("log-output", logging.DefaultOutput, "Log destination: stderr or stdout or a file path")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind the request flags of analyzeCmd to Viper
	analyzeCmd.Flags().String("branch", "", "Branch to analyze (blank = main)")
	analyzeCmd.Flags().String("focus", "", "Comma-separated focus areas (blank = defaults)")
	analyzeCmd.Flags().String("depth", "", "Analysis depth, a positive integer (blank = 3)")
	if err := viper.BindPFlags(analyzeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analyze flags", err)
	}

	// Watch flags are read from the command directly since two commands share the name
	analyzeCmd.Flags().Bool("no-wait", false, "Print the submission result without polling")
	analyzeCmd.Flags().Bool("watch", false, "Print every status change while polling")
	statusCmd.Flags().Bool("watch", false, "Keep polling until the analysis completes or fails")

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
