package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-comparison/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults without a file",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "toml file",
			file: "config.toml",
			content: `
[report]
types = ["xlsx", "pdf"]
dir = "out"

[log]
level = "debug"
format = "json"

[columns.aliases]
"Ngày HĐ" = "Billing Date"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"xlsx", "pdf"}, cfg.Report.Types)
				assert.Equal(t, "out", cfg.Report.Dir)
				assert.Equal(t, "sales_comparison", cfg.Report.Name)
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, "Billing Date", cfg.Columns.Aliases["Ngày HĐ"])
			},
		},
		{
			name: "yaml file",
			file: "config.yml",
			content: `
server:
  addr: "127.0.0.1:9000"
  max_upload_mb: 8
cache:
  reports: 0
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
				assert.Equal(t, int64(8<<20), cfg.Server.MaxUploadBytes())
				assert.Equal(t, 0, cfg.Cache.Reports)
				assert.Equal(t, 8, cfg.Cache.Datasets)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout())
			},
		},
		{
			name:    "json file",
			file:    "config.json",
			content: `{"report": {"name": "q1_vs_q2", "types": ["json"]}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "q1_vs_q2", cfg.Report.Name)
				assert.Equal(t, []string{"json"}, cfg.Report.Types)
			},
		},
		{
			name:    "environment wins over file",
			file:    "config.yaml",
			content: "log:\n  level: warn\n",
			env: map[string]string{
				"SALES_LOG_LEVEL":    "error",
				"SALES_REPORT_TYPES": "pdf,json",
				"SALES_SERVER_ADDR":  ":9999",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "error", cfg.Log.Level)
				assert.Equal(t, []string{"pdf", "json"}, cfg.Report.Types)
				assert.Equal(t, ":9999", cfg.Server.Addr)
			},
		},
		{
			name:    "invalid log level",
			file:    "config.yaml",
			content: "log:\n  level: verbose\n",
			wantErr: true,
		},
		{
			name:    "unknown report type",
			file:    "config.json",
			content: `{"report": {"types": ["docx"]}}`,
			wantErr: true,
		},
		{
			name:    "unsupported extension",
			file:    "config.ini",
			content: "level=debug",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "config.yaml",
			content: "log: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file, tt.content)
			}

			cfg, err := Load(path)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_ColumnAliases(t *testing.T) {
	cfg := Default()
	cfg.Columns.Aliases = map[string]string{
		"Ngày HĐ": domain.ColumnBillingDate,
		"Tên TDV": domain.ColumnCustomerName,
		"Mã KH":   domain.ColumnCustomer,
	}

	aliases := cfg.ColumnAliases()

	assert.Equal(t, domain.ColumnCustomerName, aliases["Tên TDV"])
	assert.Equal(t, domain.ColumnUnitPrice, aliases["Đơn Giá"])
	assert.Equal(t, domain.ColumnSalesRep, domain.DefaultColumnAliases["Tên TDV"], "defaults must not be mutated")
	assert.Equal(t, []string{domain.ColumnBillingDate, "Ngày HĐ"}, cfg.DateColumns())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "rows", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"rows":3`)
}
