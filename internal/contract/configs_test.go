package contract

import (
	"testing"
	"time"

	"github.com/huangsam/codearchitect/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       *ConfigRawInput
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:  "empty input uses defaults",
			input: &ConfigRawInput{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.DefaultAPIURL, cfg.APIURL)
				assert.Equal(t, 3000*time.Millisecond, cfg.PollInterval)
				assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
				assert.Equal(t, schema.TextOut, cfg.Output)
				assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
				assert.True(t, cfg.UseColors)
				assert.False(t, cfg.VerifyBranch)
			},
		},
		{
			name:  "trailing slash trimmed",
			input: &ConfigRawInput{APIURL: "https://api.example.com/"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://api.example.com", cfg.APIURL)
			},
		},
		{
			name:        "non-http url",
			input:       &ConfigRawInput{APIURL: "ftp://example.com"},
			expectError: true,
		},
		{
			name:        "missing host",
			input:       &ConfigRawInput{APIURL: "http://"},
			expectError: true,
		},
		{
			name:  "custom poll interval",
			input: &ConfigRawInput{PollInterval: "500ms"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
			},
		},
		{
			name:        "zero poll interval",
			input:       &ConfigRawInput{PollInterval: "0s"},
			expectError: true,
		},
		{
			name:        "bad request timeout",
			input:       &ConfigRawInput{RequestTimeout: "soon"},
			expectError: true,
		},
		{
			name:        "invalid output",
			input:       &ConfigRawInput{Output: "xml"},
			expectError: true,
		},
		{
			name:        "parquet needs a file",
			input:       &ConfigRawInput{Output: "parquet"},
			expectError: true,
		},
		{
			name:  "parquet with file",
			input: &ConfigRawInput{Output: "PARQUET", OutputFile: "out"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.ParquetOut, cfg.Output)
			},
		},
		{
			name:        "invalid color",
			input:       &ConfigRawInput{Color: "maybe"},
			expectError: true,
		},
		{
			name:  "verify branch enabled",
			input: &ConfigRawInput{VerifyBranch: "yes", Color: "no"},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.VerifyBranch)
				assert.False(t, cfg.UseColors)
			},
		},
		{
			name:        "invalid history backend",
			input:       &ConfigRawInput{HistoryBackend: "redis"},
			expectError: true,
		},
		{
			name:        "mysql without connection",
			input:       &ConfigRawInput{HistoryBackend: "mysql"},
			expectError: true,
		},
		{
			name: "postgres with connection",
			input: &ConfigRawInput{
				HistoryBackend:   "postgresql",
				HistoryDBConnect: "host=localhost dbname=history user=u password=p",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.PostgreSQLBackend, cfg.HistoryBackend)
			},
		},
		{
			name:        "negative width",
			input:       &ConfigRawInput{Width: -1},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := ProcessAndValidate(cfg, tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/db", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/db", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{APIURL: "http://a", PollInterval: time.Second}
	clone := cfg.Clone()
	clone.APIURL = "http://b"
	assert.Equal(t, "http://a", cfg.APIURL)
	assert.Equal(t, time.Second, clone.PollInterval)
}
