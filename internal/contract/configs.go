package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/kpitrend/schema"
	"github.com/rs/zerolog"
)

// Default values for configuration.
const (
	DefaultWorksheet   = "kpis"
	DefaultPace        = 10 * time.Millisecond
	MaxPace            = time.Second
	DefaultMaxAttempts = 0 // unbounded
	DefaultLogLevel    = "warn"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for kpitrend.
// This struct is the "final, validated" config.
type Config struct {
	SheetBackend        schema.DatabaseBackend
	SheetDBConnect      string // Please use env var as this is plaintext
	SheetsCredentials   string // Path to a service account JSON file
	SheetsSpreadsheetID string
	SheetsWorksheet     string

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Pace       time.Duration // Per-character delay for interactive text

	MaxAttempts int // Prompt retry budget, 0 means unbounded
	LogLevel    zerolog.Level

	Date      schema.DateKey // Used by the report command
	SeedStart time.Time      // Used by the seed command
	SeedEnd   time.Time      // Used by the seed command
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	StoreBackend        string `mapstructure:"store-backend"`
	StoreDBConnect      string `mapstructure:"store-db-connect"`
	SheetsCredentials   string `mapstructure:"sheets-credentials"`
	SheetsSpreadsheetID string `mapstructure:"sheets-spreadsheet-id"`
	SheetsWorksheet     string `mapstructure:"sheets-worksheet"`
	RunsBackend         string `mapstructure:"runs-backend"`
	RunsDBConnect       string `mapstructure:"runs-db-connect"`
	Output              string `mapstructure:"output"`
	OutputFile          string `mapstructure:"output-file"`
	Width               int    `mapstructure:"width"`
	Color               string `mapstructure:"color"`
	Pace                string `mapstructure:"pace"`
	MaxAttempts         int    `mapstructure:"max-attempts"`
	LogLevel            string `mapstructure:"log-level"`

	// --- Fields from reportCmd.Flags() ---
	Date string `mapstructure:"date"`

	// --- Fields from sheetSeedCmd.Flags() ---
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processDates(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend, schema.SheetsBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
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

// ParseSheetBackend normalizes and validates a sheet backend name.
func ParseSheetBackend(s string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if backend == "" {
		return schema.SQLiteBackend, nil
	}
	if _, ok := schema.ValidSheetBackends[backend]; !ok {
		return "", fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, sheets", s)
	}
	return backend, nil
}

// ParseRunBackend normalizes and validates a run backend name. Empty means none.
func ParseRunBackend(s string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if backend == "" {
		return schema.NoneBackend, nil
	}
	if _, ok := schema.ValidRunBackends[backend]; !ok {
		return "", fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateSimpleInputs processes and validates all non-storage fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv", input.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	cfg.Pace = 0
	if input.Pace != "" {
		pace, err := time.ParseDuration(input.Pace)
		if err != nil {
			return fmt.Errorf("invalid --pace value '%s': %w", input.Pace, err)
		}
		if pace < 0 || pace > MaxPace {
			return fmt.Errorf("pace must be between 0 and %s (received %s)", MaxPace, pace)
		}
		cfg.Pace = pace
	}

	if input.MaxAttempts < 0 {
		return fmt.Errorf("max-attempts cannot be negative (received %d)", input.MaxAttempts)
	}
	cfg.MaxAttempts = input.MaxAttempts

	levelStr := input.LogLevel
	if levelStr == "" {
		levelStr = DefaultLogLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return fmt.Errorf("invalid --log-level value '%s': %w", input.LogLevel, err)
	}
	cfg.LogLevel = level

	return nil
}

// validateBackendConfigs validates sheet and run backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Sheet Backend Validation ---
	backend, err := ParseSheetBackend(input.StoreBackend)
	if err != nil {
		return err
	}
	cfg.SheetBackend = backend
	cfg.SheetDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SheetBackend, cfg.SheetDBConnect); err != nil {
		return err
	}

	if cfg.SheetBackend == schema.SheetsBackend {
		cfg.SheetsCredentials = strings.TrimSpace(input.SheetsCredentials)
		cfg.SheetsSpreadsheetID = strings.TrimSpace(input.SheetsSpreadsheetID)
		cfg.SheetsWorksheet = strings.TrimSpace(input.SheetsWorksheet)
		if cfg.SheetsWorksheet == "" {
			cfg.SheetsWorksheet = DefaultWorksheet
		}
		if cfg.SheetsSpreadsheetID == "" {
			return fmt.Errorf("sheets-spreadsheet-id is required when using %s backend", schema.SheetsBackend)
		}
		if cfg.SheetsCredentials == "" {
			return fmt.Errorf("sheets-credentials is required when using %s backend", schema.SheetsBackend)
		}
	}

	// --- Run Backend Validation ---
	runBackend, err := ParseRunBackend(input.RunsBackend)
	if err != nil {
		return err
	}
	cfg.RunBackend = runBackend
	cfg.RunDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect); err != nil {
		return err
	}

	// Validate that sheet and run tracking use different SQLite files
	if cfg.SheetBackend == schema.SQLiteBackend && cfg.RunBackend == schema.SQLiteBackend {
		sheetPath := cfg.SheetDBConnect
		if sheetPath == "" {
			sheetPath = GetSheetDBFilePath()
		}
		runPath := cfg.RunDBConnect
		if runPath == "" {
			runPath = GetRunDBFilePath()
		}
		if sheetPath == runPath && sheetPath != ":memory:" {
			return fmt.Errorf("sheet and run storage must use different SQLite database files. Both resolve to %q", sheetPath)
		}
	}

	return nil
}

// processDates parses the optional date inputs used by the report and seed commands.
func processDates(cfg *Config, input *ConfigRawInput) error {
	cfg.Date = schema.DateKey(strings.TrimSpace(input.Date))

	if input.Start != "" {
		t, err := time.Parse(schema.DateLayout, strings.TrimSpace(input.Start))
		if err != nil {
			return fmt.Errorf("invalid start date '%s'. Expected DD/MM/YYYY", input.Start)
		}
		cfg.SeedStart = t
	}
	if input.End != "" {
		t, err := time.Parse(schema.DateLayout, strings.TrimSpace(input.End))
		if err != nil {
			return fmt.Errorf("invalid end date '%s'. Expected DD/MM/YYYY", input.End)
		}
		cfg.SeedEnd = t
	}
	if !cfg.SeedStart.IsZero() && !cfg.SeedEnd.IsZero() && cfg.SeedStart.After(cfg.SeedEnd) {
		return fmt.Errorf("start date (%s) cannot be after end date (%s)",
			cfg.SeedStart.Format(schema.DateLayout), cfg.SeedEnd.Format(schema.DateLayout))
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
