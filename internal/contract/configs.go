package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/codearchitect/schema"
)

// Config holds the runtime configuration for the client.
// This struct remains the "final, validated" config.
type Config struct {
	APIURL         string
	PollInterval   time.Duration
	RequestTimeout time.Duration // 0 = no override
	Output         schema.OutputMode
	OutputFile     string
	Width          int // Terminal width override (0 = auto-detect)
	UseColors      bool
	VerifyBranch   bool

	LogLevel  string
	LogFormat string
	LogOutput string

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	APIURL         string `mapstructure:"api-url"`
	PollInterval   string `mapstructure:"poll-interval"`
	RequestTimeout string `mapstructure:"request-timeout"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	VerifyBranch   string `mapstructure:"verify-branch"`

	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
	LogOutput string `mapstructure:"log-output"`

	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processAPIURL(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// processAPIURL validates the base URL shared by all requests.
func processAPIURL(cfg *Config, input *ConfigRawInput) error {
	raw := strings.TrimSpace(input.APIURL)
	if raw == "" {
		raw = schema.DefaultAPIURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid api-url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api-url must use http or https (received %q)", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("api-url must include a host (received %q)", raw)
	}
	cfg.APIURL = strings.TrimRight(raw, "/")
	return nil
}

// processDurations parses the poll interval and request timeout.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	cfg.PollInterval = schema.DefaultPollInterval
	if input.PollInterval != "" {
		d, err := time.ParseDuration(input.PollInterval)
		if err != nil {
			return fmt.Errorf("invalid poll-interval %q: %w", input.PollInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("poll-interval must be greater than 0 (received %s)", d)
		}
		cfg.PollInterval = d
	}

	cfg.RequestTimeout = 0
	if input.RequestTimeout != "" {
		d, err := time.ParseDuration(input.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request-timeout %q: %w", input.RequestTimeout, err)
		}
		if d < 0 {
			return fmt.Errorf("request-timeout cannot be negative (received %s)", d)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

// validateSimpleInputs processes output, color and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogLevel = input.LogLevel
	cfg.LogFormat = input.LogFormat
	cfg.LogOutput = input.LogOutput

	colors, err := ParseBoolString(defaultString(input.Color, "yes"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	verify, err := ParseBoolString(defaultString(input.VerifyBranch, "no"))
	if err != nil {
		return fmt.Errorf("invalid --verify-branch value: %w", err)
	}
	cfg.VerifyBranch = verify

	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(defaultString(input.Output, string(schema.TextOut))))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(defaultString(input.HistoryBackend, string(schema.NoneBackend))))
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
