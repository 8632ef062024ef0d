package common

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/docflow-tools/finstat/constants"
)

// Config holds all application configuration
type Config struct {
	// InputDir is the directory scanned (non-recursively) for documents.
	InputDir string `yaml:"input_dir" json:"input_dir"`

	// ProcessingYear is the 4-digit year an eligible filename must contain.
	ProcessingYear string `yaml:"processing_year" json:"processing_year"`

	// Extension is the recognized text extension, normalized with a leading dot.
	Extension string `yaml:"extension" json:"extension"`

	// MaxFileSize is the scan limit in bytes.
	MaxFileSize int64 `yaml:"max_file_size" json:"max_file_size"`

	// StatsPath receives the flat-text statistics export.
	StatsPath string `yaml:"stats_path" json:"stats_path"`

	// ReportPath receives the invalid-file report.
	ReportPath string `yaml:"report_path" json:"report_path"`

	// StatsWorkbookPath, when set, additionally exports the statistics as XLSX.
	StatsWorkbookPath string `yaml:"stats_workbook_path" json:"stats_workbook_path"`

	// LogDir is where the async log sink appends its files.
	LogDir string `yaml:"log_dir" json:"log_dir"`

	Session SessionConfig `yaml:"session" json:"session"`
}

// SessionConfig holds the access-session inputs consumed by the pipeline.
// Issuance and expiry management live outside this binary.
type SessionConfig struct {
	Token      string `yaml:"token" json:"token"`
	TTLMinutes int    `yaml:"ttl_minutes" json:"ttl_minutes"`
}

// configSchema is applied to the decoded YAML tree before it is trusted.
const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "input_dir": {"type": "string"},
    "processing_year": {"type": "string", "pattern": "^[0-9]{4}$"},
    "extension": {"type": "string", "minLength": 1},
    "max_file_size": {"type": "integer", "minimum": 1},
    "stats_path": {"type": "string"},
    "report_path": {"type": "string"},
    "stats_workbook_path": {"type": "string"},
    "log_dir": {"type": "string"},
    "session": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "token": {"type": "string"},
        "ttl_minutes": {"type": "integer", "minimum": 1}
      }
    }
  }
}`

var compiledConfigSchema = jsonschema.MustCompileString("config.schema.json", configSchema)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// DefaultConfig returns the configuration used when no file and no
// environment overrides are present. The processing year defaults to the
// current year.
func DefaultConfig() *Config {
	return &Config{
		ProcessingYear: strconv.Itoa(time.Now().Year()),
		Extension:      constants.DefaultExtension,
		MaxFileSize:    constants.DefaultMaxFileSize,
		StatsPath:      "turnover_statistics.txt",
		ReportPath:     "invalid_files_report.txt",
		LogDir:         "logs",
		Session: SessionConfig{
			TTLMinutes: 30,
		},
	}
}

// LoadConfig reads the optional YAML file at path, validates it against the
// embedded schema, and applies environment overrides (FINSTAT_*) on top.
// An empty path skips the file and uses defaults plus environment only.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("reading config file %s", path), err)
		}
		if err := validateConfigDocument(data); err != nil {
			return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("config file %s failed schema validation", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("decoding config file %s", path), err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.Extension = constants.NormalizeExt(cfg.Extension)
	return cfg, nil
}

// validateConfigDocument decodes the YAML into a generic tree and checks it
// against the schema. The tree is round-tripped through encoding/json because
// the schema validator expects JSON-shaped values.
func validateConfigDocument(data []byte) error {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	if tree == nil {
		return nil
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return compiledConfigSchema.Validate(doc)
}

func applyEnvOverrides(cfg *Config) {
	cfg.InputDir = getEnv("FINSTAT_INPUT_DIR", cfg.InputDir)
	cfg.ProcessingYear = getEnv("FINSTAT_YEAR", cfg.ProcessingYear)
	cfg.Extension = getEnv("FINSTAT_EXTENSION", cfg.Extension)
	cfg.MaxFileSize = getEnvAsInt64("FINSTAT_MAX_FILE_SIZE", cfg.MaxFileSize)
	cfg.StatsPath = getEnv("FINSTAT_STATS_PATH", cfg.StatsPath)
	cfg.ReportPath = getEnv("FINSTAT_REPORT_PATH", cfg.ReportPath)
	cfg.StatsWorkbookPath = getEnv("FINSTAT_STATS_WORKBOOK_PATH", cfg.StatsWorkbookPath)
	cfg.LogDir = getEnv("FINSTAT_LOG_DIR", cfg.LogDir)
	cfg.Session.Token = getEnv("FINSTAT_SESSION_TOKEN", cfg.Session.Token)
	cfg.Session.TTLMinutes = getEnvAsInt("FINSTAT_SESSION_TTL_MINUTES", cfg.Session.TTLMinutes)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return NewAppError("CONFIG_ERROR", "input_dir is required", nil)
	}
	if !yearPattern.MatchString(c.ProcessingYear) {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("processing_year must be a 4-digit year, got %q", c.ProcessingYear), nil)
	}
	if c.Extension == "" {
		return NewAppError("CONFIG_ERROR", "extension is required", nil)
	}
	if c.MaxFileSize <= 0 {
		return NewAppError("CONFIG_ERROR", "max_file_size must be positive", nil)
	}
	if c.StatsPath == "" || c.ReportPath == "" {
		return NewAppError("CONFIG_ERROR", "stats_path and report_path are required", nil)
	}
	return nil
}
