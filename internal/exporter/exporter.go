package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"vacancycli/internal/errors"
	"vacancycli/internal/validation"
	"vacancycli/pkg/contracts/domain"
)

// Exporter writes a report to a file in one format
type Exporter interface {
	// Format is the name used on the command line, e.g. "xlsx"
	Format() string
	// Extensions lists accepted destination extensions
	Extensions() []string
	// Export validates path and writes the report to it.
	// A path with the wrong extension or one that already exists is rejected before writing.
	Export(ctx context.Context, report *domain.Report, path string) error
}

// Registry maps format names to exporters
type Registry struct {
	exporters map[string]Exporter
	validator *validation.FileValidator
}

// NewRegistry returns a registry holding the spreadsheet, chart and CSV exporters
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		exporters: make(map[string]Exporter),
		validator: validation.NewFileValidator(logger),
	}
	r.Register(NewSpreadsheetExporter(logger))
	r.Register(NewChartExporter(logger))
	r.Register(NewCSVExporter(logger))
	return r
}

// Register adds or replaces the exporter for e.Format()
func (r *Registry) Register(e Exporter) {
	r.exporters[e.Format()] = e
}

// Get returns the exporter for format
func (r *Registry) Get(format string) (Exporter, error) {
	e, ok := r.exporters[format]
	if !ok {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown output format %q", format), nil).
			WithContext("format", format)
	}
	return e, nil
}

// Formats returns the registered format names, sorted
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.exporters))
	for name := range r.exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preflight validates every destination before any of them is written
func (r *Registry) Preflight(targets map[string]string) error {
	formats := make([]string, 0, len(targets))
	for f := range targets {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	for _, format := range formats {
		e, err := r.Get(format)
		if err != nil {
			return err
		}
		if err := r.validator.ValidateOutputPath(targets[format], e.Extensions()); err != nil {
			return err
		}
	}
	return nil
}
