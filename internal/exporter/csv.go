package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"vacancycli/internal/errors"
	"vacancycli/internal/validation"
	"vacancycli/pkg/contracts/domain"
)

// CSV section names, one per report series
const (
	SectionSalaryByYear           = "salary_by_year"
	SectionCountByYear            = "count_by_year"
	SectionProfessionSalaryByYear = "profession_salary_by_year"
	SectionProfessionCountByYear  = "profession_count_by_year"
	SectionSalaryByCity           = "salary_by_city"
	SectionShareByCity            = "share_by_city"
)

// CSVHeader is the header of the long-format report CSV
var CSVHeader = []string{"Section", "Key", "Value"}

// CSVExporter writes all six series as Section,Key,Value rows
type CSVExporter struct {
	logger    *slog.Logger
	validator *validation.FileValidator
}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter(logger *slog.Logger) *CSVExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExporter{logger: logger, validator: validation.NewFileValidator(logger)}
}

// Format implements Exporter
func (e *CSVExporter) Format() string { return "csv" }

// Extensions implements Exporter
func (e *CSVExporter) Extensions() []string { return validation.CSVExtensions }

// Export implements Exporter
func (e *CSVExporter) Export(ctx context.Context, report *domain.Report, path string) error {
	if err := e.validator.ValidateOutputPath(path, e.Extensions()); err != nil {
		return err
	}
	if err := e.validator.ValidateOutputDirectory(path); err != nil {
		return err
	}

	records := ReportRecords(report)

	sw, err := CreateStreamWriter(path, CSVHeader)
	if err != nil {
		return errors.NewStorageError("failed to create CSV report", err).WithContext("path", path)
	}
	for i, record := range records {
		if err := sw.WriteRecord(record); err != nil {
			sw.Close()
			return errors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err).WithContext("path", path)
		}
	}
	if err := sw.Close(); err != nil {
		return errors.NewStorageError("failed to flush CSV report", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "CSV report written",
		slog.String("path", path),
		slog.Int("records", len(records)))
	return nil
}

// ReportRecords flattens the report into Section,Key,Value rows in series order
func ReportRecords(report *domain.Report) [][]string {
	var records [][]string
	years := func(section string, series []domain.YearValue) {
		for _, p := range series {
			records = append(records, []string{section, formatInt(p.Year), formatInt(p.Value)})
		}
	}

	years(SectionSalaryByYear, report.SalaryByYear)
	years(SectionCountByYear, report.CountByYear)
	years(SectionProfessionSalaryByYear, report.ProfessionSalaryByYear)
	years(SectionProfessionCountByYear, report.ProfessionCountByYear)
	for _, c := range report.SalaryByCity {
		records = append(records, []string{SectionSalaryByCity, c.City, formatInt(c.Value)})
	}
	for _, c := range report.ShareByCity {
		records = append(records, []string{SectionShareByCity, c.City, formatShare(c.Share)})
	}
	return records
}

// StreamWriter provides streaming CSV writing
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates filePath, which must not exist, and writes a UTF-8 BOM and the header
func CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	// Write BOM for Excel compatibility
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{
		file:   file,
		writer: writer,
	}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
