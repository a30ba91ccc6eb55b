package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Agência", cfg.Columns.Branch)
	assert.Equal(t, "Gerente de Negócios", cfg.Columns.Manager)
	assert.Equal(t, DefaultIndicators, cfg.Indicators)
	assert.Equal(t, DefaultCurrencyIndicators, cfg.CurrencyIndicators)
	assert.Equal(t, 10, cfg.Chart.MaxSeries)
	assert.Equal(t, 15, cfg.Chart.LabelMaxLen)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeConfig(t, `
columns:
  branch: Branch
  manager: Manager
indicators: [CapitalSocial, Members]
currency_indicators: [CapitalSocial]
chart:
  max_series: 3
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Branch", "Manager", "CapitalSocial", "Members"}, cfg.ExpectedColumns())
	assert.True(t, cfg.IsMonetary("CapitalSocial"))
	assert.False(t, cfg.IsMonetary("Members"))
	assert.Equal(t, 3, cfg.Chart.MaxSeries)
	assert.Equal(t, 15, cfg.Chart.LabelMaxLen)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: warn\n")
	t.Setenv("COMPARATIVO_LOGGING_LEVEL", "debug")
	t.Setenv("COMPARATIVO_INDICATORS", "A,B")
	t.Setenv("COMPARATIVO_CURRENCY_INDICATORS", "B")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"A", "B"}, cfg.Indicators)
	assert.True(t, cfg.IsMonetary("B"))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "indicators: [unterminated\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "duplicate indicator",
			mutate:  func(c *Config) { c.Indicators = []string{"A", "A"} },
			wantErr: `duplicate indicator "A"`,
		},
		{
			name: "currency indicator not declared",
			mutate: func(c *Config) {
				c.Indicators = []string{"A"}
				c.CurrencyIndicators = []string{"B"}
			},
			wantErr: `currency indicator "B" is not a declared indicator`,
		},
		{
			name:    "indicator collides with identity column",
			mutate:  func(c *Config) { c.Indicators = []string{c.Columns.Branch} },
			wantErr: "collides with an identity column",
		},
		{
			name:    "no indicators",
			mutate:  func(c *Config) { c.Indicators = nil; c.CurrencyIndicators = nil },
			wantErr: "Indicators",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "Format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
