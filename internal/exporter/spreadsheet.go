package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"vacancycli/internal/config"
	"vacancycli/internal/errors"
	"vacancycli/internal/validation"
	"vacancycli/pkg/contracts/domain"
)

// SpreadsheetExporter writes the year and city tables to an .xlsx workbook
type SpreadsheetExporter struct {
	logger    *slog.Logger
	validator *validation.FileValidator
}

// NewSpreadsheetExporter creates a new spreadsheet exporter
func NewSpreadsheetExporter(logger *slog.Logger) *SpreadsheetExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpreadsheetExporter{logger: logger, validator: validation.NewFileValidator(logger)}
}

// Format implements Exporter
func (e *SpreadsheetExporter) Format() string { return "xlsx" }

// Extensions implements Exporter
func (e *SpreadsheetExporter) Extensions() []string { return validation.SpreadsheetExtensions }

// sheetTable is one worksheet's content before styling. Nil cells stay empty.
type sheetTable struct {
	name string
	rows [][]interface{}
}

// YearSheetHeader returns the header of the per-year sheet
func YearSheetHeader(profession string) []string {
	return []string{
		"Year",
		"Average salary",
		"Average salary - " + profession,
		"Vacancies",
		"Vacancies - " + profession,
	}
}

// CitySheetHeader is the header of the per-city sheet
var CitySheetHeader = []string{"City", "Salary level", "", "City", "Vacancy share"}

// Export implements Exporter
func (e *SpreadsheetExporter) Export(ctx context.Context, report *domain.Report, path string) error {
	if err := e.validator.ValidateOutputPath(path, e.Extensions()); err != nil {
		return err
	}
	if err := e.validator.ValidateOutputDirectory(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	tables := []sheetTable{yearTable(report), cityTable(report)}
	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), table.name); err != nil {
				return errors.NewRenderError("failed to name worksheet", err)
			}
		} else if _, err := f.NewSheet(table.name); err != nil {
			return errors.NewRenderError("failed to add worksheet", err)
		}
		if err := writeTable(f, table); err != nil {
			return errors.NewRenderError(fmt.Sprintf("failed to fill worksheet %q", table.name), err)
		}
	}
	f.SetActiveSheet(0)

	if err := saveWorkbook(f, path); err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "Spreadsheet report written",
		slog.String("path", path),
		slog.Int("years", len(report.SalaryByYear)),
		slog.Int("cities", len(report.SalaryByCity)))
	return nil
}

// saveWorkbook creates path exclusively so a file that appeared after validation is never replaced
func saveWorkbook(f *excelize.File, path string) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return errors.NewStorageError("failed to create workbook file", err).WithContext("path", path)
	}
	if _, err := f.WriteTo(out); err != nil {
		out.Close()
		return errors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}
	if err := out.Close(); err != nil {
		return errors.NewStorageError("failed to close workbook file", err).WithContext("path", path)
	}
	return nil
}

func yearTable(report *domain.Report) sheetTable {
	header := YearSheetHeader(report.Profession)
	rows := [][]interface{}{toRow(header)}
	for _, r := range report.YearRows() {
		rows = append(rows, []interface{}{r[0], r[1], r[2], r[3], r[4]})
	}
	return sheetTable{name: config.SheetByYear, rows: rows}
}

func cityTable(report *domain.Report) sheetTable {
	rows := [][]interface{}{toRow(CitySheetHeader)}

	n := len(report.SalaryByCity)
	if len(report.ShareByCity) > n {
		n = len(report.ShareByCity)
	}
	for i := 0; i < n; i++ {
		row := make([]interface{}, len(CitySheetHeader))
		if i < len(report.SalaryByCity) {
			row[0] = report.SalaryByCity[i].City
			row[1] = report.SalaryByCity[i].Value
		}
		if i < len(report.ShareByCity) {
			row[3] = report.ShareByCity[i].City
			row[4] = formatPercent(report.ShareByCity[i].Share)
		}
		rows = append(rows, row)
	}
	return sheetTable{name: config.SheetByCity, rows: rows}
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		if c != "" {
			row[i] = c
		}
	}
	return row
}

// renderCell is the text a cell displays, "" for an empty cell
func renderCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return formatInt(val)
	default:
		return fmt.Sprint(val)
	}
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// writeTable writes rows, borders every non-empty cell, left-aligns the header
// row and sizes each column to its longest value plus two.
func writeTable(f *excelize.File, table sheetTable) error {
	bordered, err := f.NewStyle(&excelize.Style{Border: thinBorder})
	if err != nil {
		return err
	}
	headerBordered, err := f.NewStyle(&excelize.Style{
		Border:    thinBorder,
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return err
	}
	headerPlain, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return err
	}

	widths := make(map[int]int)
	for r, row := range table.rows {
		start, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		copy(values, row)
		if err := f.SetSheetRow(table.name, start, &values); err != nil {
			return err
		}

		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			text := renderCell(v)

			style := 0
			switch {
			case r == 0 && text != "":
				style = headerBordered
			case r == 0:
				style = headerPlain
			case text != "":
				style = bordered
			}
			if style != 0 {
				if err := f.SetCellStyle(table.name, cell, cell, style); err != nil {
					return err
				}
			}

			if n := utf8.RuneCountInString(text); n > widths[c] {
				widths[c] = n
			}
		}
	}

	for c, w := range widths {
		if w == 0 {
			continue
		}
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(table.name, col, col, float64(w+2)); err != nil {
			return err
		}
	}
	return nil
}
