package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"vacancycli/internal/errors"
	"vacancycli/pkg/contracts/domain"
)

// Required CSV header columns.
const (
	ColumnName           = "name"
	ColumnSalaryFrom     = "salary_from"
	ColumnSalaryTo       = "salary_to"
	ColumnSalaryCurrency = "salary_currency"
	ColumnAreaName       = "area_name"
	ColumnPublishedAt    = "published_at"
)

var (
	tagRe   = regexp.MustCompile(`<.*?>`)
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// SanitizeCell strips <...> tags, turns line breaks into "; " and collapses whitespace.
func SanitizeCell(value string) string {
	value = tagRe.ReplaceAllString(value, "")
	value = strings.ReplaceAll(value, "\n", "; ")
	return strings.Join(strings.Fields(value), " ")
}

// Parser turns vacancy CSV input into domain.Vacancy records.
// Rows whose column count differs from the header, or that contain a cell
// that is empty after sanitizing, are dropped without an error.
// Currency codes are not checked here; the aggregator rejects unknown ones.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// columnIndices holds the positions of the required columns in the header
type columnIndices struct {
	name           int
	salaryFrom     int
	salaryTo       int
	salaryCurrency int
	areaName       int
	publishedAt    int
}

// ParseFile opens path and parses it. The file is closed on every return path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*ParseResult, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(path).WithContext("path", path)
		}
		return nil, errors.NewStorageError("failed to open input file", err).WithContext("path", path)
	}
	defer file.Close()

	result, err := p.Parse(ctx, file)
	if err != nil {
		return nil, err
	}
	result.Source = path
	return result, nil
}

// Parse reads the whole of r and returns the vacancies that survive row filtering.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*ParseResult, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewStorageError("failed to read input", err)
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParsingError("input has no header row", nil)
	}
	if err != nil {
		return nil, errors.NewParsingError("failed to read header row", err)
	}

	cols, err := findColumnIndices(header)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{Header: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line, _ := reader.FieldPos(0)
		if err != nil {
			return nil, errors.NewParsingError("failed to read CSV row", err).WithContext("line", line)
		}
		result.TotalRows++

		cells, reason := sanitizeRow(row, len(header))
		if reason != "" {
			result.Dropped++
			p.logger.DebugContext(ctx, "dropping malformed row",
				slog.Int("line", line),
				slog.String("reason", reason))
			continue
		}

		vacancy, err := buildVacancy(cells, cols)
		if err != nil {
			return nil, errors.NewParsingError("invalid salary value", err).WithContext("line", line)
		}
		result.Vacancies = append(result.Vacancies, vacancy)
	}

	p.logger.InfoContext(ctx, "parsed vacancy rows",
		slog.Int("rows", result.TotalRows),
		slog.Int("vacancies", len(result.Vacancies)),
		slog.Int("dropped", result.Dropped))

	return result, nil
}

// sanitizeRow cleans every cell and reports why the row must be dropped, if it must.
func sanitizeRow(row []string, width int) ([]string, string) {
	if len(row) != width {
		return nil, fmt.Sprintf("expected %d columns, got %d", width, len(row))
	}
	cells := make([]string, len(row))
	for i, raw := range row {
		cells[i] = SanitizeCell(raw)
		if cells[i] == "" {
			return nil, fmt.Sprintf("empty cell in column %d", i+1)
		}
	}
	return cells, ""
}

// findColumnIndices finds the required columns in the header
func findColumnIndices(header []string) (columnIndices, error) {
	positions := make(map[string]int, len(header))
	for i, col := range header {
		clean := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, seen := positions[clean]; !seen {
			positions[clean] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		idx, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return idx
	}

	cols := columnIndices{
		name:           lookup(ColumnName),
		salaryFrom:     lookup(ColumnSalaryFrom),
		salaryTo:       lookup(ColumnSalaryTo),
		salaryCurrency: lookup(ColumnSalaryCurrency),
		areaName:       lookup(ColumnAreaName),
		publishedAt:    lookup(ColumnPublishedAt),
	}
	if len(missing) > 0 {
		return cols, errors.NewParsingError(
			fmt.Sprintf("header is missing required columns: %s", strings.Join(missing, ", ")), nil).
			WithContext("missing", missing)
	}
	return cols, nil
}

func buildVacancy(cells []string, cols columnIndices) (domain.Vacancy, error) {
	from, err := strconv.ParseFloat(cells[cols.salaryFrom], 64)
	if err != nil {
		return domain.Vacancy{}, fmt.Errorf("%s: %w", ColumnSalaryFrom, err)
	}
	to, err := strconv.ParseFloat(cells[cols.salaryTo], 64)
	if err != nil {
		return domain.Vacancy{}, fmt.Errorf("%s: %w", ColumnSalaryTo, err)
	}

	publishedAt := cells[cols.publishedAt]
	return domain.Vacancy{
		Name:           cells[cols.name],
		SalaryFrom:     from,
		SalaryTo:       to,
		SalaryCurrency: cells[cols.salaryCurrency],
		AreaName:       cells[cols.areaName],
		PublishedAt:    publishedAt,
		Year:           domain.YearFromPublishedAt(publishedAt),
	}, nil
}
