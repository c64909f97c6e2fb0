package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacancycli/internal/errors"
	"vacancycli/pkg/contracts"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "xlsx", cfg.Report.Format)
	assert.Equal(t, 10, cfg.Report.TopCities)
	assert.Equal(t, 0.01, cfg.Report.MinCityShare)
	assert.Equal(t, "report.xlsx", cfg.Report.SpreadsheetFile)
	assert.Equal(t, "graph.png", cfg.Report.ChartFile)
	assert.Equal(t, "report.csv", cfg.Report.CSVFile)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
	assert.NoError(t, cfg.Validate())
}

func TestAppVersion(t *testing.T) {
	assert.Equal(t, contracts.Version, AppVersion)
}

func TestLoadFile_NoFile(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, Default().Report, cfg.Report)
	assert.NotEmpty(t, cfg.Paths.ExecutableDir)
	assert.NotEmpty(t, cfg.Paths.LogsDir)
}

func TestLoadFile_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
report:
  format: all
  top_cities: 5
  rates:
    USD: 90.5
telemetry:
  trace_exporter: stdout
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "all", cfg.Report.Format)
	assert.Equal(t, 5, cfg.Report.TopCities)
	assert.Equal(t, map[string]float64{"USD": 90.5}, cfg.Report.Rates)
	assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
	// untouched fields keep defaults
	assert.Equal(t, 0.01, cfg.Report.MinCityShare)
	assert.Equal(t, "report.xlsx", cfg.Report.SpreadsheetFile)
}

func TestLoadFile_EnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report:\n  format: csv\n  top_cities: 3\n"), 0644))

	t.Setenv("VACANCY_REPORT_FORMAT", "png")
	t.Setenv("VACANCY_REPORT_MIN_CITY_SHARE", "0.05")
	t.Setenv("VACANCY_REPORT_RATES", "KZT:0.2,USD:61")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "png", cfg.Report.Format)
	assert.Equal(t, 3, cfg.Report.TopCities)
	assert.Equal(t, 0.05, cfg.Report.MinCityShare)
	assert.Equal(t, map[string]float64{"KZT": 0.2, "USD": 61}, cfg.Report.Rates)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("report: [unterminated"), 0644))

		_, err := LoadFile(path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
	})

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("VACANCY_REPORT_TOP_CITIES", "ten")

		_, err := LoadFile("")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "format all", mutate: func(c *Config) { c.Report.Format = "all" }},
		{name: "bad format", mutate: func(c *Config) { c.Report.Format = "pdf" }, wantErr: "report.format"},
		{name: "zero top cities", mutate: func(c *Config) { c.Report.TopCities = 0 }, wantErr: "report.top_cities"},
		{name: "share above one", mutate: func(c *Config) { c.Report.MinCityShare = 1.5 }, wantErr: "report.min_city_share"},
		{name: "non positive rate", mutate: func(c *Config) { c.Report.Rates = map[string]float64{"USD": 0} }, wantErr: "rates"},
		{name: "bad trace exporter", mutate: func(c *Config) { c.Telemetry.TraceExporter = "otlp" }, wantErr: "trace_exporter"},
		{name: "bad log output", mutate: func(c *Config) { c.Logging.Output = "syslog" }, wantErr: "logging.output"},
		{name: "file output needs path", mutate: func(c *Config) { c.Logging.Output = "file"; c.Logging.FilePath = "" }, wantErr: "file_path"},
		{name: "console output without path", mutate: func(c *Config) { c.Logging.FilePath = "" }},
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
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLogFilePath(t *testing.T) {
	cfg := Default()
	cfg.Paths.LogsDir = filepath.Join("base", "logs")

	assert.Equal(t, filepath.Join("base", "logs", "vacancy-report.log"), cfg.LogFilePath())

	abs := filepath.Join(t.TempDir(), "app.log")
	cfg.Logging.FilePath = abs
	assert.Equal(t, abs, cfg.LogFilePath())
}

func TestExpandFormat(t *testing.T) {
	assert.Equal(t, []string{"xlsx", "png", "csv"}, ExpandFormat("all"))
	assert.Equal(t, []string{"png"}, ExpandFormat("png"))
}
