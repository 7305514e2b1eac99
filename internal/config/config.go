// =============================================================================
// Donation Stats - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. A single YAML file controls:
//   - Where the HTML snapshot is read from and where reports are written
//   - The structural markers used to find donation cards in the page
//   - The fixed exchange rate table used for currency normalization
//   - Report sizes (top-N donors, newest-N donations) and logging
//
// Every setting has a built-in default, so the tool runs without any
// configuration file at all. The defaults read ./2.html, write to the
// current directory and use the fixed eight-currency rate table.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MODES
// =============================================================================

const (
	// ModeFull parses dates, removes duplicates and sorts newest first.
	ModeFull = "full"

	// ModeBasic keeps records in page order and does not deduplicate.
	ModeBasic = "basic"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// InputFile is the HTML snapshot of the fundraising page.
	// Default: "./2.html"
	InputFile string `yaml:"input_file"`

	// OutputDir is the directory where the CSV and XLSX reports are written.
	// Default: "."
	OutputDir string `yaml:"output_dir"`

	// ArchiveDir, when set, receives the previous run's reports before they
	// are overwritten. Each run gets its own timestamped subdirectory.
	ArchiveDir string `yaml:"archive_dir"`

	// DisableWorkbook turns off the XLSX workbook output.
	DisableWorkbook bool `yaml:"disable_workbook"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile, when set, receives JSON log lines in addition to the console.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// Mode selects the processing variant: "full" or "basic".
	// Default: "full"
	Mode string `yaml:"mode"`

	// DateLayout is the Go time layout of the date text on the page.
	// Default: "1/2/06" (accepts 03/05/24 as well as 3/5/24)
	DateLayout string `yaml:"date_layout"`

	// TopN is the number of donors in the top donors report.
	// Default: 10
	TopN int `yaml:"top_n"`

	// NewestN is the number of most recent donations echoed to the console.
	// Default: 5
	NewestN int `yaml:"newest_n"`

	// ExchangeRates maps a currency code to its rate into USD.
	// Codes that appear on the page but not here are treated as USD.
	ExchangeRates map[string]float64 `yaml:"exchange_rates"`

	// Markers identifies the elements that make up a donation card.
	Markers MarkerConfig `yaml:"markers"`
}

// =============================================================================
// MARKER CONFIGURATION
// =============================================================================

// Marker identifies an element by tag name and a single class token.
type Marker struct {
	Tag   string `yaml:"tag"`
	Class string `yaml:"class"`
}

// MarkerConfig holds the markers for each part of a donation card.
type MarkerConfig struct {
	// Card is the container holding a single donation.
	Card Marker `yaml:"card"`

	// Amount is the pill-shaped badge holding "<CODE> <amount>".
	Amount Marker `yaml:"amount"`

	// Donor holds the donor display name.
	Donor Marker `yaml:"donor"`

	// Battalion holds the recipient group.
	Battalion Marker `yaml:"battalion"`

	// Date holds the donation date.
	Date Marker `yaml:"date"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultExchangeRates is the fixed conversion table into USD.
func DefaultExchangeRates() map[string]float64 {
	return map[string]float64{
		"USD": 1.0,
		"EUR": 1.163,
		"GBP": 1.341,
		"AUD": 0.670,
		"CAD": 0.718,
		"PLN": 0.276,
		"CHF": 1.249,
		"UAH": 0.023,
	}
}

// DefaultMarkers returns the markers of the fundraising page layout.
func DefaultMarkers() MarkerConfig {
	return MarkerConfig{
		Card:      Marker{Tag: "div", Class: "border"},
		Amount:    Marker{Tag: "div", Class: "rounded-full"},
		Donor:     Marker{Tag: "div", Class: "font-semibold"},
		Battalion: Marker{Tag: "div", Class: "bg-gray-800"},
		Date:      Marker{Tag: "div", Class: "text-neutral-400"},
	}
}

// Default returns the built-in configuration.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//   - optional: When true, a missing file yields the built-in defaults.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string, optional bool) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			config := Default()
			if err := validateMainConfig(config); err != nil {
				return nil, fmt.Errorf("invalid configuration: %w", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML configuration document.
func Parse(data []byte) (*MainConfig, error) {
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputFile == "" {
		config.InputFile = "./2.html"
	}
	if config.OutputDir == "" {
		config.OutputDir = "."
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Mode == "" {
		config.Mode = ModeFull
	}
	if config.DateLayout == "" {
		config.DateLayout = "1/2/06"
	}
	if config.TopN == 0 {
		config.TopN = 10
	}
	if config.NewestN == 0 {
		config.NewestN = 5
	}
	if len(config.ExchangeRates) == 0 {
		config.ExchangeRates = DefaultExchangeRates()
	} else {
		// Codes are matched case-sensitively against the page; normalize keys
		// to the upper case form the page uses.
		rates := make(map[string]float64, len(config.ExchangeRates))
		for code, rate := range config.ExchangeRates {
			rates[strings.ToUpper(strings.TrimSpace(code))] = rate
		}
		config.ExchangeRates = rates
	}

	defaults := DefaultMarkers()
	applyMarkerDefault(&config.Markers.Card, defaults.Card)
	applyMarkerDefault(&config.Markers.Amount, defaults.Amount)
	applyMarkerDefault(&config.Markers.Donor, defaults.Donor)
	applyMarkerDefault(&config.Markers.Battalion, defaults.Battalion)
	applyMarkerDefault(&config.Markers.Date, defaults.Date)
}

func applyMarkerDefault(m *Marker, def Marker) {
	if m.Tag == "" {
		m.Tag = def.Tag
	}
	if m.Class == "" {
		m.Class = def.Class
	}
}

// validateMainConfig validates the main configuration and creates the output
// directory if it does not exist yet.
func validateMainConfig(config *MainConfig) error {
	switch config.Mode {
	case ModeFull, ModeBasic:
	default:
		return fmt.Errorf("unknown mode %q (want %q or %q)", config.Mode, ModeFull, ModeBasic)
	}

	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.LogLevel)
	}

	if config.TopN < 0 {
		return fmt.Errorf("top_n must not be negative")
	}
	if config.NewestN < 0 {
		return fmt.Errorf("newest_n must not be negative")
	}

	for code, rate := range config.ExchangeRates {
		if code == "" {
			return fmt.Errorf("exchange rate with empty currency code")
		}
		if rate < 0 {
			return fmt.Errorf("exchange rate for %s must not be negative", code)
		}
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", config.OutputDir, err)
	}

	return nil
}
