package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacancycli/internal/config"
	"vacancycli/internal/errors"
	"vacancycli/internal/infrastructure"
	"vacancycli/internal/shared/testutil"
	"vacancycli/pkg/contracts/domain"
)

type runnerFixture struct {
	runner    *Runner
	providers *infrastructure.OTelProviders
	handler   *testutil.BufferedSlogHandler
	stdout    *bytes.Buffer
	dir       string
	fixtures  *testutil.VacancyFixtures
}

func newRunnerFixture(t *testing.T, mutate func(cfg *config.Config)) *runnerFixture {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Report.SpreadsheetFile = filepath.Join(dir, "report.xlsx")
	cfg.Report.ChartFile = filepath.Join(dir, "graph.png")
	cfg.Report.CSVFile = filepath.Join(dir, "report.csv")
	if mutate != nil {
		mutate(cfg)
	}

	logger, handler := testutil.NewTestLogger(t)
	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { providers.Shutdown(context.Background()) })

	var stdout bytes.Buffer
	runner, err := NewRunner(cfg, providers, logger, &stdout)
	require.NoError(t, err)

	return &runnerFixture{
		runner:    runner,
		providers: providers,
		handler:   handler,
		stdout:    &stdout,
		dir:       dir,
		fixtures:  testutil.NewVacancyFixtures(filepath.Join(dir, "input")),
	}
}

func (f *runnerFixture) metricNames(t *testing.T) []string {
	t.Helper()
	families, err := f.providers.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	return names
}

func containsPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

func TestRunner_RunAllFormats(t *testing.T) {
	f := newRunnerFixture(t, nil)
	input := f.fixtures.WriteCSV(t, "vacancies.csv", f.fixtures.ScenarioRows())

	result, err := f.runner.Run(context.Background(), Options{InputFile: input, Profession: "Go", Format: config.FormatAll})
	require.NoError(t, err)

	assert.Len(t, result.Parse.Vacancies, 3)
	assert.Equal(t, []domain.YearValue{{Year: 2019, Value: 250}, {Year: 2020, Value: 500}}, result.Report.SalaryByYear)
	assert.Equal(t, map[string]string{
		"xlsx": filepath.Join(f.dir, "report.xlsx"),
		"png":  filepath.Join(f.dir, "graph.png"),
		"csv":  filepath.Join(f.dir, "report.csv"),
	}, result.Written)
	for _, path := range result.Written {
		assert.FileExists(t, path)
	}

	assert.Contains(t, f.stdout.String(), "Salary dynamics by year: {2019: 250, 2020: 500}\n")
	assert.Equal(t, 6, strings.Count(f.stdout.String(), "\n"))

	testutil.AssertLogContains(t, f.handler, slog.LevelInfo, "Report run completed")
	testutil.AssertNoErrors(t, f.handler)

	names := f.metricNames(t)
	assert.True(t, containsPrefix(names, "csv_rows"), "metrics: %v", names)
	assert.True(t, containsPrefix(names, "reports_written"), "metrics: %v", names)
	assert.True(t, containsPrefix(names, "pipeline_stage_duration"), "metrics: %v", names)
}

func TestRunner_DefaultFormatFromConfig(t *testing.T) {
	f := newRunnerFixture(t, func(cfg *config.Config) { cfg.Report.Format = config.FormatCSV })
	input := f.fixtures.WriteCSV(t, "vacancies.csv", f.fixtures.ScenarioRows())

	result, err := f.runner.Run(context.Background(), Options{InputFile: input, Profession: "Go"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"csv": filepath.Join(f.dir, "report.csv")}, result.Written)
	assert.NoFileExists(t, filepath.Join(f.dir, "report.xlsx"))
}

func TestRunner_OutputOverride(t *testing.T) {
	f := newRunnerFixture(t, nil)
	input := f.fixtures.WriteCSV(t, "vacancies.csv", f.fixtures.ScenarioRows())
	custom := filepath.Join(f.dir, "out", "custom.jpg")

	result, err := f.runner.Run(context.Background(), Options{
		InputFile:  input,
		Profession: "Go",
		Format:     config.FormatChart,
		Outputs:    map[string]string{config.FormatChart: custom},
	})
	require.NoError(t, err)
	assert.Equal(t, custom, result.Written[config.FormatChart])
	assert.FileExists(t, custom)
}

func TestRunner_PreflightBlocksAllWrites(t *testing.T) {
	f := newRunnerFixture(t, nil)
	input := f.fixtures.WriteCSV(t, "vacancies.csv", f.fixtures.ScenarioRows())
	existing := filepath.Join(f.dir, "graph.png")
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0644))

	_, err := f.runner.Run(context.Background(), Options{InputFile: input, Profession: "Go", Format: config.FormatAll})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeFileExists))

	assert.NoFileExists(t, filepath.Join(f.dir, "report.xlsx"))
	assert.NoFileExists(t, filepath.Join(f.dir, "report.csv"))
	testutil.AssertLogContains(t, f.handler, slog.LevelError, "Report run failed")
}

func TestRunner_AllRowsDropped(t *testing.T) {
	f := newRunnerFixture(t, nil)
	rows := [][]string{{"Go developer", "100", "200", "RUR", "", "2019-01-10T10:00:00+0300"}}
	input := f.fixtures.WriteCSV(t, "vacancies.csv", rows)

	result, err := f.runner.Run(context.Background(), Options{InputFile: input, Profession: "Go", Format: config.FormatAll})
	require.NoError(t, err)

	assert.Empty(t, result.Parse.Vacancies)
	assert.Empty(t, result.Report.SalaryByYear)
	assert.Empty(t, result.Report.ShareByCity)
	require.Len(t, result.Written, 3)
	for _, path := range result.Written {
		assert.FileExists(t, path)
	}
}

func TestRunner_Errors(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		opts     func(input string) Options
		wantType errors.ErrorType
	}{
		{
			name:     "missing input option",
			opts:     func(string) Options { return Options{Profession: "Go"} },
			wantType: errors.ErrTypeValidation,
		},
		{
			name:     "unknown format",
			opts:     func(input string) Options { return Options{InputFile: input, Format: "pdf"} },
			wantType: errors.ErrTypeValidation,
		},
		{
			name:     "input not found",
			opts:     func(input string) Options { return Options{InputFile: input + ".missing"} },
			wantType: errors.ErrTypeNotFound,
		},
		{
			name:     "unknown currency",
			rows:     [][]string{{"Go developer", "100", "200", "XYZ", "Moscow", "2019-01-10T10:00:00+0300"}},
			opts:     func(input string) Options { return Options{InputFile: input, Profession: "Go"} },
			wantType: errors.ErrTypeCurrency,
		},
		{
			name:     "wrong output extension",
			opts:     func(input string) Options { return Options{InputFile: input, Outputs: map[string]string{"xlsx": "report.txt"}} },
			wantType: errors.ErrTypeFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRunnerFixture(t, nil)
			rows := tt.rows
			if rows == nil {
				rows = f.fixtures.ScenarioRows()
			}
			input := f.fixtures.WriteCSV(t, "vacancies.csv", rows)

			_, err := f.runner.Run(context.Background(), tt.opts(input))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.wantType), "got %v", err)
			assert.NoFileExists(t, filepath.Join(f.dir, "report.xlsx"))
		})
	}
}

func TestRunner_ConfiguredRates(t *testing.T) {
	f := newRunnerFixture(t, func(cfg *config.Config) {
		cfg.Report.Rates = map[string]float64{"xyz": 2}
	})
	rows := [][]string{{"Go developer", "100", "200", "XYZ", "Moscow", "2019-01-10T10:00:00+0300"}}
	input := f.fixtures.WriteCSV(t, "vacancies.csv", rows)

	result, err := f.runner.Run(context.Background(), Options{InputFile: input, Profession: "Go", Format: config.FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, []domain.YearValue{{Year: 2019, Value: 300}}, result.Report.SalaryByYear)
}

func TestRunner_FailureLogCarriesError(t *testing.T) {
	f := newRunnerFixture(t, nil)
	input := f.fixtures.WriteCSV(t, "vacancies.csv", f.fixtures.ScenarioRows())

	_, err := f.runner.Run(context.Background(), Options{InputFile: input + ".missing"})
	require.Error(t, err)

	record, ok := f.handler.FindMessage("Report run failed")
	require.True(t, ok)
	assert.Equal(t, err.Error(), record.Attrs["error"])
	assert.Equal(t, string(errors.ErrTypeNotFound), record.Attrs["error_type"])
}

func TestRunner_TraceID(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Report.CSVFile = filepath.Join(dir, "report.csv")
	fixtures := testutil.NewVacancyFixtures(dir)
	input := fixtures.WriteCSV(t, "vacancies.csv", fixtures.ScenarioRows())

	var spans bytes.Buffer
	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.TraceExporter = "stdout"
	otelCfg.TraceWriter = &spans
	providers, err := infrastructure.InitializeOTel(otelCfg, nil)
	require.NoError(t, err)

	logger, handler := testutil.NewTestLogger(t)
	runner, err := NewRunner(cfg, providers, logger, &bytes.Buffer{})
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), Options{InputFile: input, Profession: "Go", Format: config.FormatCSV})
	require.NoError(t, err)
	assert.Len(t, result.TraceID, 32)
	assert.True(t, handler.ContainsAttr("otel_trace_id", result.TraceID))

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, spans.String(), result.TraceID)
}

func TestRunner_Targets(t *testing.T) {
	f := newRunnerFixture(t, nil)

	formats, targets := f.runner.Targets(Options{Format: config.FormatAll, Outputs: map[string]string{"csv": "x.csv"}})
	assert.Equal(t, []string{"xlsx", "png", "csv"}, formats)
	assert.Equal(t, filepath.Join(f.dir, "report.xlsx"), targets["xlsx"])
	assert.Equal(t, filepath.Join(f.dir, "graph.png"), targets["png"])
	assert.Equal(t, "x.csv", targets["csv"])

	formats, _ = f.runner.Targets(Options{})
	assert.Equal(t, []string{"xlsx"}, formats)
}

func TestNewRunner_WithoutProviders(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Report.CSVFile = filepath.Join(dir, "report.csv")
	fixtures := testutil.NewVacancyFixtures(dir)
	input := fixtures.WriteCSV(t, "vacancies.csv", fixtures.ScenarioRows())

	var stdout bytes.Buffer
	runner, err := NewRunner(cfg, nil, nil, &stdout)
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), Options{InputFile: input, Format: config.FormatCSV})
	require.NoError(t, err)
	assert.NotEmpty(t, stdout.String())
}
