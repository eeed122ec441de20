package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Driver names accepted by the db package.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config captures all runtime options for a simulation run.
type Config struct {
	Driver             string        `yaml:"driver" env:"SQLSIM_DRIVER"`
	DSN                string        `yaml:"dsn" env:"SQLSIM_DSN"`
	Seed               int64         `yaml:"seed" env:"SQLSIM_SEED"`
	Steps              int           `yaml:"steps" env:"SQLSIM_STEPS"`
	MaxTables          int           `yaml:"max_tables"`
	MaxColumns         int           `yaml:"max_columns"`
	MaxRowsPerInsert   int           `yaml:"max_rows_per_insert"`
	MaxTextLength      int           `yaml:"max_text_length"`
	PredicateDepth     int           `yaml:"predicate_depth"`
	StatementTimeoutMs int           `yaml:"statement_timeout_ms"`
	ValidateSQL        bool          `yaml:"validate_sql"`
	StopOnMismatch     bool          `yaml:"stop_on_mismatch"`
	Backtrack          BacktrackConf `yaml:"backtrack"`
	Weights            Weights       `yaml:"weights"`
	Logging            Logging       `yaml:"logging"`
	Report             ReportConfig  `yaml:"report"`
	Storage            StorageConfig `yaml:"storage"`
	Metrics            MetricsConfig `yaml:"metrics"`
}

// BacktrackConf sets retry budgets for constrained generators.
type BacktrackConf struct {
	// Retries is the budget each fallible alternative gets before it is dropped.
	Retries int `yaml:"retries"`
	// NameRetries bounds attempts to draw an unused table or column name.
	NameRetries int `yaml:"name_retries"`
}

// Weights controls weighted selections for actions.
type Weights struct {
	Actions ActionWeights `yaml:"actions"`
}

// ActionWeights sets relative frequencies of generated operations.
type ActionWeights struct {
	CreateTable int `yaml:"create_table"`
	CreateIndex int `yaml:"create_index"`
	Insert      int `yaml:"insert"`
	Update      int `yaml:"update"`
	Delete      int `yaml:"delete"`
	Select      int `yaml:"select"`
	DropTable   int `yaml:"drop_table"`
}

// Total sums every action weight.
func (w ActionWeights) Total() int {
	return w.CreateTable + w.CreateIndex + w.Insert + w.Update + w.Delete + w.Select + w.DropTable
}

// Logging controls stdout logging behavior.
type Logging struct {
	Verbose             bool   `yaml:"verbose" env:"SQLSIM_VERBOSE"`
	ReportIntervalSteps int    `yaml:"report_interval_steps"`
	LogFile             string `yaml:"log_file"`
}

// ReportConfig controls mismatch case output.
type ReportConfig struct {
	OutputDir   string `yaml:"output_dir" env:"SQLSIM_REPORT_DIR"`
	Archive     bool   `yaml:"archive"`
	UseUUIDPath bool   `yaml:"use_uuid_path"`
	MaxDumpRows int    `yaml:"max_dump_rows"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Listen string `yaml:"listen" env:"SQLSIM_METRICS_LISTEN"`
}

// StorageConfig holds external storage settings.
type StorageConfig struct {
	S3  S3Config  `yaml:"s3"`
	GCS GCSConfig `yaml:"gcs"`
}

// CloudEnabled reports whether any cloud storage backend is enabled.
func (s StorageConfig) CloudEnabled() bool {
	return s.GCS.Enabled || s.S3.Enabled
}

// S3Config configures S3 uploads (legacy and S3-compatible endpoints).
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id" env:"SQLSIM_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SQLSIM_S3_SECRET_ACCESS_KEY"`
	SessionToken    string `yaml:"session_token"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// GCSConfig configures GCS uploads.
type GCSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Load reads configuration from a YAML file, then applies SQLSIM_* environment
// overrides. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(err, "parse config")
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	normalizeConfig(&cfg)
	return cfg, nil
}

const (
	maxTablesDefault        = 5
	maxColumnsDefault       = 6
	maxRowsPerInsertDefault = 5
	maxTextLengthDefault    = 4096
	predicateDepthDefault   = 2
	backtrackRetriesDefault = 3
	nameRetriesDefault      = 8
)

func normalizeConfig(cfg *Config) {
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.Driver == DriverSQLite && cfg.DSN == "" {
		cfg.DSN = "file:sqlsim?mode=memory"
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Steps <= 0 {
		cfg.Steps = 1000
	}
	if cfg.MaxTables <= 0 {
		cfg.MaxTables = maxTablesDefault
	}
	if cfg.MaxColumns <= 0 {
		cfg.MaxColumns = maxColumnsDefault
	}
	if cfg.MaxRowsPerInsert <= 0 {
		cfg.MaxRowsPerInsert = maxRowsPerInsertDefault
	}
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = maxTextLengthDefault
	}
	if cfg.PredicateDepth < 0 {
		cfg.PredicateDepth = 0
	}
	if cfg.Backtrack.Retries <= 0 {
		cfg.Backtrack.Retries = backtrackRetriesDefault
	}
	if cfg.Backtrack.NameRetries <= 0 {
		cfg.Backtrack.NameRetries = nameRetriesDefault
	}
	if cfg.Weights.Actions.Total() <= 0 {
		cfg.Weights.Actions = defaultActionWeights()
	}
	if cfg.Logging.ReportIntervalSteps < 0 {
		cfg.Logging.ReportIntervalSteps = 0
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "reports"
	}
}

func defaultActionWeights() ActionWeights {
	return ActionWeights{CreateTable: 2, CreateIndex: 1, Insert: 6, Update: 3, Delete: 2, Select: 8, DropTable: 1}
}

// Default returns the built-in configuration before normalization.
func Default() Config {
	return Config{
		Driver:             DriverSQLite,
		Steps:              1000,
		MaxTables:          maxTablesDefault,
		MaxColumns:         maxColumnsDefault,
		MaxRowsPerInsert:   maxRowsPerInsertDefault,
		MaxTextLength:      maxTextLengthDefault,
		PredicateDepth:     predicateDepthDefault,
		StatementTimeoutMs: 15000,
		ValidateSQL:        false,
		StopOnMismatch:     true,
		Backtrack: BacktrackConf{
			Retries:     backtrackRetriesDefault,
			NameRetries: nameRetriesDefault,
		},
		Weights: Weights{Actions: defaultActionWeights()},
		Logging: Logging{
			ReportIntervalSteps: 200,
			LogFile:             "",
		},
		Report: ReportConfig{
			OutputDir:   "reports",
			Archive:     true,
			MaxDumpRows: 50,
		},
	}
}
