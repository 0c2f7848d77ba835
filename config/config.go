package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration. Every field has a production
// default; a YAML file only needs the values it overrides.
type Config struct {
	// PremiumRate is the default tender premium as a fraction. A premium
	// declared on the Title sheet wins over this value.
	PremiumRate float64        `yaml:"premium_rate"`
	GSTRate     float64        `yaml:"gst_rate"`
	Deductions  DeductionRates `yaml:"deductions"`
	PDF         PDFConfig      `yaml:"pdf"`
	// Workers bounds the per-document export fan-out.
	Workers int       `yaml:"workers"`
	Log     LogConfig `yaml:"log"`
}

// DeductionRates are the statutory recovery rates applied to the
// with-tax payable amount.
type DeductionRates struct {
	SecurityDeposit float64 `yaml:"security_deposit"`
	IncomeTax       float64 `yaml:"income_tax"`
	GSTTDS          float64 `yaml:"gst_tds"`
	LabourCess      float64 `yaml:"labour_cess"`
}

// PDFConfig controls the PDF engine.
type PDFConfig struct {
	MarginMM       float64 `yaml:"margin_mm"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the production defaults.
func Default() *Config {
	return &Config{
		PremiumRate: 0,
		GSTRate:     0.18,
		Deductions: DeductionRates{
			SecurityDeposit: 0.10,
			IncomeTax:       0.02,
			GSTTDS:          0.02,
			LabourCess:      0.01,
		},
		PDF: PDFConfig{
			MarginMM:       10,
			TimeoutSeconds: 20,
		},
		Workers: 4,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults. A missing file is not an
// error; the defaults stand.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.sanitize()
	return cfg, nil
}

// sanitize clamps values a file could set to something unusable.
func (c *Config) sanitize() {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.PDF.TimeoutSeconds < 1 {
		c.PDF.TimeoutSeconds = 20
	}
	if c.PDF.MarginMM <= 0 {
		c.PDF.MarginMM = 10
	}
}

// NewLogger builds a slog logger from the log settings. Unknown levels
// fall back to info, unknown formats to text.
func NewLogger(cfg LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
