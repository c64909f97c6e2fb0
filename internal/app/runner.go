package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vacancycli/internal/config"
	"vacancycli/internal/currency"
	"vacancycli/internal/dataprocessing"
	"vacancycli/internal/errors"
	"vacancycli/internal/exporter"
	"vacancycli/internal/infrastructure"
	"vacancycli/internal/validation"
	"vacancycli/pkg/contracts/domain"
)

// Options are the inputs of one report run
type Options struct {
	InputFile  string `validate:"required"`
	Profession string
	// Format overrides the configured format when set
	Format string `validate:"omitempty,oneof=xlsx png csv all"`
	// Outputs maps a format to a destination overriding the configured file name
	Outputs map[string]string `validate:"omitempty,dive,keys,oneof=xlsx png csv,endkeys,required"`
}

// Result describes what a run produced
type Result struct {
	Parse   *dataprocessing.ParseResult
	Report  *domain.Report
	Written map[string]string
	// TraceID is the OTel trace of the run, empty when tracing is off
	TraceID string
}

// Runner executes the parse, assemble and export pipeline
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *infrastructure.PipelineMetrics
	parser    *dataprocessing.Parser
	assembler *dataprocessing.Assembler
	exporters *exporter.Registry
	files     *validation.FileValidator
	validate  *validator.Validate
	stdout    io.Writer
}

// NewRunner wires the pipeline components. providers may be nil, in which
// case no spans or metrics are recorded.
func NewRunner(cfg *config.Config, providers *infrastructure.OTelProviders, logger *slog.Logger, stdout io.Writer) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if providers == nil {
		var err error
		providers, err = infrastructure.InitializeOTel(&infrastructure.OTelConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			ServiceVersion: config.AppVersion,
			TraceExporter:  "none",
		}, logger)
		if err != nil {
			return nil, err
		}
	}

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	rates := currency.DefaultRates()
	for code, rate := range cfg.Report.Rates {
		rates[strings.ToUpper(code)] = rate
	}

	options := dataprocessing.AssemblerOptions{
		TopCities:    cfg.Report.TopCities,
		MinCityShare: cfg.Report.MinCityShare,
	}

	return &Runner{
		cfg:       cfg,
		logger:    logger,
		tracer:    providers.Tracer,
		metrics:   metrics,
		parser:    dataprocessing.NewParser(infrastructure.WithComponent(logger, "parser")),
		assembler: dataprocessing.NewAssembler(currency.NewConverter(rates), options, infrastructure.WithComponent(logger, "assembler")),
		exporters: exporter.NewRegistry(infrastructure.WithComponent(logger, "exporter")),
		files:     validation.NewFileValidator(logger),
		validate:  validator.New(),
		stdout:    stdout,
	}, nil
}

// Targets resolves the destination of every format the run writes, in write order
func (r *Runner) Targets(opts Options) ([]string, map[string]string) {
	format := opts.Format
	if format == "" {
		format = r.cfg.Report.Format
	}
	formats := config.ExpandFormat(format)

	defaults := map[string]string{
		config.FormatSpreadsheet: r.cfg.Report.SpreadsheetFile,
		config.FormatChart:       r.cfg.Report.ChartFile,
		config.FormatCSV:         r.cfg.Report.CSVFile,
	}

	targets := make(map[string]string, len(formats))
	for _, f := range formats {
		if p, ok := opts.Outputs[f]; ok && p != "" {
			targets[f] = p
		} else {
			targets[f] = defaults[f]
		}
	}
	return formats, targets
}

// Run parses the input, prints the summary and writes every requested output.
// Destinations are all validated before the first file is written.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := r.validate.Struct(opts); err != nil {
		return nil, errors.NewValidationError("invalid run options", err)
	}

	ctx, span := r.tracer.Start(ctx, "report.run", trace.WithAttributes(
		attribute.String("input", opts.InputFile),
		attribute.String("profession", opts.Profession),
	))
	defer span.End()

	start := time.Now()
	r.logger.InfoContext(ctx, "Report run started",
		slog.String("input", opts.InputFile),
		slog.String("profession", opts.Profession))

	result, err := r.run(ctx, opts)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(r.logger, err).ErrorContext(ctx, "Report run failed",
			slog.String("error_type", string(errors.TypeOf(err))))
		return nil, err
	}

	result.TraceID = infrastructure.TraceIDFromContext(ctx)
	stats := r.metrics.CollectRuntimeStats(ctx, start)
	r.logger.InfoContext(ctx, "Report run completed",
		slog.String("otel_trace_id", result.TraceID),
		slog.Int("vacancies", len(result.Parse.Vacancies)),
		slog.Int("outputs", len(result.Written)),
		slog.Duration("duration", stats.ProcessUptime),
		slog.Uint64("heap_alloc", stats.HeapAlloc))
	return result, nil
}

func (r *Runner) run(ctx context.Context, opts Options) (*Result, error) {
	if err := r.files.ValidateCSVFile(opts.InputFile); err != nil {
		return nil, err
	}

	var parsed *dataprocessing.ParseResult
	err := r.stage(ctx, infrastructure.StageParse, func(ctx context.Context) error {
		var err error
		parsed, err = r.parser.ParseFile(ctx, opts.InputFile)
		if err != nil {
			return err
		}
		r.metrics.RecordParse(ctx, parsed.TotalRows, parsed.Dropped, len(parsed.Vacancies))
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
			"csv.rows":      parsed.TotalRows,
			"csv.dropped":   parsed.Dropped,
			"csv.vacancies": len(parsed.Vacancies),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	var report *domain.Report
	err = r.stage(ctx, infrastructure.StageAssemble, func(ctx context.Context) error {
		var err error
		report, err = r.assembler.Assemble(ctx, parsed.Vacancies, opts.Profession)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := exporter.WriteSummary(r.stdout, report); err != nil {
		return nil, errors.NewStorageError("failed to print summary", err)
	}

	formats, targets := r.Targets(opts)
	if err := r.exporters.Preflight(targets); err != nil {
		return nil, err
	}

	written := make(map[string]string, len(formats))
	for _, format := range formats {
		e, err := r.exporters.Get(format)
		if err != nil {
			return nil, err
		}
		path := targets[format]
		err = r.stage(ctx, infrastructure.StageExport, func(ctx context.Context) error {
			infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
				"export.format": format,
				"export.path":   path,
			})
			return e.Export(ctx, report, path)
		})
		if err != nil {
			return nil, err
		}
		r.metrics.RecordReportWritten(ctx, format)
		written[format] = path
	}

	return &Result{Parse: parsed, Report: report, Written: written}, nil
}

// stage runs fn inside a span and records its duration
func (r *Runner) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "report."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	r.metrics.RecordStage(ctx, name, time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
	}
	return err
}
