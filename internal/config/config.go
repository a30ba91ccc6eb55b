// =============================================================================
// Comparativo - Configuration Module
// =============================================================================
//
// This module loads the settings that shape the comparison pipeline:
//   - Which header names identify the branch and the manager
//   - The ordered indicator list (the numeric columns being compared)
//   - Which indicators are monetary (formatted as currency) vs. plain counts
//   - Chart, logging and export settings
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. YAML file (config.yaml, optional)
//   3. Environment variables prefixed with COMPARATIVO_
//
// The indicator lists are fixed once loaded. They are never discovered from
// the uploaded data.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "COMPARATIVO"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// Columns names the identity columns of the input files.
	Columns ColumnsConfig `yaml:"columns" envconfig:"COLUMNS"`

	// Indicators is the ordered list of compared numeric columns.
	// Records and table columns follow this order.
	Indicators []string `yaml:"indicators" envconfig:"INDICATORS" validate:"required,min=1,dive,required"`

	// CurrencyIndicators is the subset of Indicators shown as money.
	CurrencyIndicators []string `yaml:"currency_indicators" envconfig:"CURRENCY_INDICATORS" validate:"dive,required"`

	// Chart controls the aggregate series handed to chart renderers.
	Chart ChartConfig `yaml:"chart" envconfig:"CHART"`

	// Logging controls the slog handler.
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`

	// Output controls XLSX export.
	Output OutputConfig `yaml:"output" envconfig:"OUTPUT"`
}

// ColumnsConfig names the entity identity columns.
type ColumnsConfig struct {
	// Branch is the header of the branch (agency) column.
	// Default: "Agência"
	Branch string `yaml:"branch" envconfig:"BRANCH" validate:"required"`

	// Manager is the header of the manager column.
	// Default: "Gerente de Negócios"
	Manager string `yaml:"manager" envconfig:"MANAGER" validate:"required"`
}

// ChartConfig controls ChartSeries output.
type ChartConfig struct {
	// MaxSeries is the number of managers kept in the series.
	// Default: 10
	MaxSeries int `yaml:"max_series" envconfig:"MAX_SERIES" validate:"min=1"`

	// LabelMaxLen is the rune length above which labels are shortened.
	// Default: 15
	LabelMaxLen int `yaml:"label_max_len" envconfig:"LABEL_MAX_LEN" validate:"min=1"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`

	// Format is text or json.
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// OutputConfig controls where exports are written.
type OutputConfig struct {
	// Dir is the export directory.
	// Default: "./output"
	Dir string `yaml:"dir" envconfig:"DIR"`

	// FileNameFormat is the export file name.
	// Placeholders: {uuid}, {timestamp}, {date}, {time}
	// Default: "comparativo_{timestamp}_{uuid}.xlsx"
	FileNameFormat string `yaml:"file_name_format" envconfig:"FILE_NAME_FORMAT"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultIndicators are the indicators of the branch performance export.
var DefaultIndicators = []string{
	"Capital Social",
	"Carteira Credito",
	"Associados",
	"RDC LCA",
	"Poupança",
}

// DefaultCurrencyIndicators are the monetary default indicators.
var DefaultCurrencyIndicators = []string{
	"Capital Social",
	"Carteira Credito",
	"RDC LCA",
	"Poupança",
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for any unset option.
func applyDefaults(cfg *Config) {
	if cfg.Columns.Branch == "" {
		cfg.Columns.Branch = "Agência"
	}
	if cfg.Columns.Manager == "" {
		cfg.Columns.Manager = "Gerente de Negócios"
	}
	if len(cfg.Indicators) == 0 {
		cfg.Indicators = append([]string(nil), DefaultIndicators...)
		if len(cfg.CurrencyIndicators) == 0 {
			cfg.CurrencyIndicators = append([]string(nil), DefaultCurrencyIndicators...)
		}
	}
	if cfg.Chart.MaxSeries == 0 {
		cfg.Chart.MaxSeries = 10
	}
	if cfg.Chart.LabelMaxLen == 0 {
		cfg.Chart.LabelMaxLen = 15
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "./output"
	}
	if cfg.Output.FileNameFormat == "" {
		cfg.Output.FileNameFormat = "comparativo_{timestamp}_{uuid}.xlsx"
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, applies env overrides and defaults,
// and validates the result.
//
// PARAMETERS:
//   - configPath: path to a YAML file. A missing file is not an error; the
//     defaults are used instead. An empty path skips the file.
//
// RETURNS:
//   - The validated configuration.
//   - An error if the file cannot be parsed or the result is invalid.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// Defaults only.
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Only variables that are set override the file.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks struct rules and the cross-field rules on indicators.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Indicators))
	for _, name := range c.Indicators {
		if seen[name] {
			return fmt.Errorf("duplicate indicator %q", name)
		}
		if name == c.Columns.Branch || name == c.Columns.Manager {
			return fmt.Errorf("indicator %q collides with an identity column", name)
		}
		seen[name] = true
	}

	for _, name := range c.CurrencyIndicators {
		if !seen[name] {
			return fmt.Errorf("currency indicator %q is not a declared indicator", name)
		}
	}

	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ExpectedColumns returns the columns every input file must declare:
// branch, manager, then the indicators in order.
func (c *Config) ExpectedColumns() []string {
	cols := make([]string, 0, len(c.Indicators)+2)
	cols = append(cols, c.Columns.Branch, c.Columns.Manager)
	return append(cols, c.Indicators...)
}

// IsMonetary reports whether an indicator is formatted as currency.
func (c *Config) IsMonetary(indicator string) bool {
	for _, name := range c.CurrencyIndicators {
		if name == indicator {
			return true
		}
	}
	return false
}
