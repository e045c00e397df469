package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/codearchitect/internal/apiclient"
	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/internal/controller"
	"github.com/huangsam/codearchitect/internal/iocache"
	"github.com/huangsam/codearchitect/internal/logging"
	"github.com/huangsam/codearchitect/internal/session"
	"github.com/huangsam/codearchitect/schema"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// logger is the operational logger built from the log-* settings.
var logger = logging.Discard()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "codearchitect",
	Short:              "Submit repositories for autonomous code analysis.",
	Long:               `Code Architect sends a repository to the analysis backend, follows its progress and renders the findings and recommendations.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env is the common case
	_ = godotenv.Load(".env")

	setConfigSearch()

	// Set environment variable prefix
	viper.SetEnvPrefix("CODEARCHITECT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("api-url", schema.DefaultAPIURL)
	viper.SetDefault("poll-interval", schema.DefaultPollInterval.String())
	viper.SetDefault("request-timeout", "0s")
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("verify-branch", "no")
	viper.SetDefault("log-level", logging.DefaultLevel)
	viper.SetDefault("log-format", logging.DefaultFormat)
	viper.SetDefault("log-output", logging.DefaultOutput)
	viper.SetDefault("history-backend", schema.NoneBackend)
	viper.SetDefault("history-db-connect", "")
}

// setConfigSearch points viper at an explicit config file or the default search paths.
func setConfigSearch() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".codearchitect") // Name of config file (without extension)
	viper.SetConfigType("yaml")           // We'll use YAML format
	viper.AddConfigPath(".")              // Look in the current directory
	viper.AddConfigPath("$HOME")          // Look in the home directory
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	color.NoColor = !cfg.UseColors
	logger = logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput)

	// 4. Initialize history with validated config
	if err := iocache.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"api_url":         cfg.APIURL,
		"poll_interval":   cfg.PollInterval,
		"history_backend": cfg.HistoryBackend,
	}).Debug("Configuration loaded")
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigSearch()

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// newAnalysisClient builds the HTTP client for the configured backend.
func newAnalysisClient() *apiclient.Client {
	return apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithLogger(logger),
	)
}

// newController builds a page controller with a fresh session store.
func newController(client contract.AnalysisClient) *controller.Controller {
	opts := []controller.Option{
		controller.WithInterval(cfg.PollInterval),
		controller.WithLogger(logger),
	}
	if store := iocache.Manager.GetHistoryStore(); store != nil {
		opts = append(opts, controller.WithHistory(store))
	}
	return controller.New(client, session.NewStore(), opts...)
}

// printBanner writes the inline error banner to stderr.
func printBanner(msg string) {
	if msg == "" {
		return
	}
	_, _ = fmt.Fprintln(os.Stderr, contract.BannerColor.Sprint("⚠️  "+msg))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
