package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"vacancycli/internal/errors"
)

// EnvPrefix namespaces every environment variable, e.g. VACANCY_REPORT_FORMAT.
const EnvPrefix = "VACANCY"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"eq=json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// ReportConfig controls which outputs are produced and how the city series are cut
type ReportConfig struct {
	Format          string             `yaml:"format" envconfig:"FORMAT" validate:"oneof=xlsx png csv all"`
	TopCities       int                `yaml:"top_cities" envconfig:"TOP_CITIES" validate:"min=1,max=100"`
	MinCityShare    float64            `yaml:"min_city_share" envconfig:"MIN_CITY_SHARE" validate:"min=0,max=1"`
	SpreadsheetFile string             `yaml:"spreadsheet_file" envconfig:"SPREADSHEET_FILE" validate:"required"`
	ChartFile       string             `yaml:"chart_file" envconfig:"CHART_FILE" validate:"required"`
	CSVFile         string             `yaml:"csv_file" envconfig:"CSV_FILE" validate:"required"`
	Rates           map[string]float64 `yaml:"rates" envconfig:"RATES" validate:"omitempty,dive,keys,required,endkeys,gt=0"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// Load loads configuration from defaults, the config file if one exists, and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the file.
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, errors.NewConfigError("failed to load config from file", err).
				WithContext("path", configFile)
		}
	}

	// Only variables that are set overwrite the struct, so defaults and file values survive.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, errors.NewConfigError("failed to resolve paths", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolvePaths fills in the executable directory and the logs directory
func (c *Config) resolvePaths() error {
	if c.Paths.ExecutableDir != "" && c.Paths.LogsDir != "" {
		return nil
	}

	paths, err := GetPaths()
	if err != nil {
		return err
	}
	if c.Paths.ExecutableDir == "" {
		c.Paths.ExecutableDir = paths.ExecutableDir
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = paths.LogsDir
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use YAML tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field against its validate tag
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewConfigError("config validation failed", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.NewConfigError("config validation failed: "+strings.Join(problems, "; "), err).
		WithContext("fields", len(fieldErrs))
}

// LogFilePath resolves Logging.FilePath against the logs directory when it is relative
func (c *Config) LogFilePath() string {
	if c.Logging.FilePath == "" || filepath.IsAbs(c.Logging.FilePath) || c.Paths.LogsDir == "" {
		return c.Logging.FilePath
	}
	return filepath.Join(c.Paths.LogsDir, c.Logging.FilePath)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Report: ReportConfig{
			Format:          FormatSpreadsheet,
			TopCities:       DefaultTopCities,
			MinCityShare:    DefaultMinCityShare,
			SpreadsheetFile: DefaultSpreadsheetFile,
			ChartFile:       DefaultChartFile,
			CSVFile:         DefaultCSVFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   DefaultServiceName,
			TraceExporter: "none",
		},
	}
}
