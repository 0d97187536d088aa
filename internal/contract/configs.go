package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/farmstat/schema"
	"github.com/rs/zerolog"
)

// Default values for configuration.
const (
	DefaultPrecision       = 1
	DefaultMonthlyWindow   = 12
	MaxMonthlyWindow       = 120
	DefaultRunLimit        = 10
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
)

// Comparison baselines for the previous period.
const (
	CompareAdjacent = "previous"  // period of equal length ending the day before start
	CompareLastYear = "last-year" // same calendar days one year earlier
)

// Config holds the runtime configuration for reporting.
// This struct remains the "final, validated" config.
type Config struct {
	Range         schema.RangeSpec
	PreviousRange *schema.RangeSpec // nil means the adjacent previous period
	CompareTo     string
	Metrics       []string
	MonthlyWindow int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	LogLevel zerolog.Level

	Addr            string
	ShutdownTimeout time.Duration
	RunLimit        int
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Output     string `mapstructure:"output"`
	Width      int    `mapstructure:"width"`
	Backend    string `mapstructure:"db-backend"`
	DBConnect  string `mapstructure:"db-connect"`
	Color      string `mapstructure:"color"`
	LogLevel   string `mapstructure:"log-level"`

	// --- Fields from reportCmd.Flags() ---
	Preset        string `mapstructure:"preset"`
	Start         string `mapstructure:"start"`
	End           string `mapstructure:"end"`
	PreviousStart string `mapstructure:"previous-start"`
	PreviousEnd   string `mapstructure:"previous-end"`
	CompareTo     string `mapstructure:"compare-to"`
	Metrics       string `mapstructure:"metrics"`
	MonthlyWindow int    `mapstructure:"monthly-window"`

	// --- Fields from serveCmd.Flags() ---
	Addr            string `mapstructure:"addr"`
	ShutdownTimeout string `mapstructure:"shutdown-timeout"`

	// --- Fields from dbStatusCmd.Flags() ---
	RunLimit int `mapstructure:"runs"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Metrics != nil {
		clone.Metrics = slices.Clone(c.Metrics)
	}
	if c.Range.Range != nil {
		r := *c.Range.Range
		clone.Range.Range = &r
	}
	if c.PreviousRange != nil {
		p := *c.PreviousRange
		if p.Range != nil {
			r := *p.Range
			p.Range = &r
		}
		clone.PreviousRange = &p
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processRange(cfg, input, now); err != nil {
		return err
	}
	if err := processPreviousRange(cfg, input, now); err != nil {
		return err
	}
	if err := processMetrics(cfg, input); err != nil {
		return err
	}
	return nil
}

// ReportRequest carries the report parameters a single HTTP or MCP call may override.
type ReportRequest struct {
	Preset        string
	Start         string
	End           string
	PreviousStart string
	PreviousEnd   string
	CompareTo     string
	Metrics       string
}

// RevalidateReport applies a request's range, baseline and metrics on top of cfg.
// The caller passes a clone so the base config stays untouched.
func RevalidateReport(cfg *Config, req ReportRequest, now time.Time) error {
	input := &ConfigRawInput{
		Preset:        req.Preset,
		Start:         req.Start,
		End:           req.End,
		PreviousStart: req.PreviousStart,
		PreviousEnd:   req.PreviousEnd,
		CompareTo:     req.CompareTo,
		Metrics:       req.Metrics,
	}
	cfg.PreviousRange = nil
	if err := processRange(cfg, input, now); err != nil {
		return err
	}
	if err := processPreviousRange(cfg, input, now); err != nil {
		return err
	}
	return processMetrics(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
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

// validateSimpleInputs processes and validates all non-range fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, xlsx", input.Output)
	}
	if cfg.Output == schema.XLSXOut && cfg.OutputFile == "" {
		return fmt.Errorf("xlsx output requires --output-file")
	}

	if input.MonthlyWindow < 1 || input.MonthlyWindow > MaxMonthlyWindow {
		return fmt.Errorf("monthly-window must be between 1 and %d (received %d)", MaxMonthlyWindow, input.MonthlyWindow)
	}
	cfg.MonthlyWindow = input.MonthlyWindow

	cfg.Backend = schema.DatabaseBackend(strings.ToLower(input.Backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql, none", input.Backend)
	}
	cfg.DBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect); err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if input.LogLevel != "" {
		level, err = zerolog.ParseLevel(strings.ToLower(input.LogLevel))
		if err != nil {
			return fmt.Errorf("invalid log level '%s': %w", input.LogLevel, err)
		}
	}
	cfg.LogLevel = level

	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	cfg.ShutdownTimeout = DefaultShutdownTimeout
	if input.ShutdownTimeout != "" {
		d, err := time.ParseDuration(input.ShutdownTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid shutdown-timeout '%s'", input.ShutdownTimeout)
		}
		cfg.ShutdownTimeout = d
	}

	cfg.RunLimit = input.RunLimit
	if cfg.RunLimit <= 0 {
		cfg.RunLimit = DefaultRunLimit
	}
	return nil
}

// processRange resolves the reporting window. Explicit start/end win over the preset.
func processRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if input.Start == "" && input.End == "" {
		preset, err := parsePresetInput(input.Preset)
		if err != nil {
			return err
		}
		cfg.Range = schema.PresetSpec(preset)
		return nil
	}

	start, end, err := parseBounds(input.Start, input.End, now, "start", "end")
	if err != nil {
		return err
	}
	cfg.Range = schema.ExplicitSpec(start, end)
	return nil
}

// processPreviousRange picks the comparison baseline.
func processPreviousRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.CompareTo = strings.ToLower(strings.TrimSpace(input.CompareTo))
	if cfg.CompareTo == "" {
		cfg.CompareTo = CompareAdjacent
	}
	if cfg.CompareTo != CompareAdjacent && cfg.CompareTo != CompareLastYear {
		return fmt.Errorf("invalid compare-to '%s'. must be %s or %s", input.CompareTo, CompareAdjacent, CompareLastYear)
	}

	if input.PreviousStart != "" || input.PreviousEnd != "" {
		start, end, err := parseBounds(input.PreviousStart, input.PreviousEnd, now, "previous-start", "previous-end")
		if err != nil {
			return err
		}
		spec := schema.ExplicitSpec(start, end)
		cfg.PreviousRange = &spec
	}
	return nil
}

// processMetrics splits the comma-separated metrics list, keeping order and dropping duplicates.
func processMetrics(cfg *Config, input *ConfigRawInput) error {
	cfg.Metrics = nil
	if strings.TrimSpace(input.Metrics) == "" {
		cfg.Metrics = slices.Clone(schema.DefaultTrendMetrics)
		return nil
	}

	seen := make(map[string]struct{})
	for part := range strings.SplitSeq(input.Metrics, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		cfg.Metrics = append(cfg.Metrics, name)
	}
	if len(cfg.Metrics) == 0 {
		return fmt.Errorf("metrics must name at least one metric")
	}
	return nil
}

func parsePresetInput(s string) (schema.Preset, error) {
	if s == "" {
		return schema.DefaultPreset, nil
	}
	preset := schema.Preset(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidPresets[preset]; !ok {
		return "", fmt.Errorf("%w: unknown preset '%s'. must be 7d, 30d, 3m, 6m, ytd, ly", schema.ErrInvalidRange, s)
	}
	return preset, nil
}

// parseBounds parses a start/end pair. A missing end means today.
func parseBounds(startStr, endStr string, now time.Time, startName, endName string) (time.Time, time.Time, error) {
	if startStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--%s is required when --%s is set", startName, endName)
	}
	start, err := ParseDay(startStr, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid %s: %w", startName, err)
	}
	end := schema.Day(now)
	if endStr != "" {
		end, err = ParseDay(endStr, now)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid %s: %w", endName, err)
		}
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s (%s) cannot be after %s (%s)", schema.ErrInvalidRange,
			startName, start.Format(schema.DateLayout), endName, end.Format(schema.DateLayout))
	}
	return start, end, nil
}

// GetDBFilePath returns the path to the SQLite DB file used when no connection string is given.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".farmstat.db"
	}
	return filepath.Join(homeDir, ".farmstat.db")
}
