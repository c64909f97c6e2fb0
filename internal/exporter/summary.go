package exporter

import (
	"fmt"
	"io"
	"strings"

	"vacancycli/pkg/contracts/domain"
)

// Summary line labels, printed in this order
const (
	LabelSalaryByYear           = "Salary dynamics by year"
	LabelCountByYear            = "Vacancy count dynamics by year"
	LabelProfessionSalaryByYear = "Salary dynamics by year for the selected profession"
	LabelProfessionCountByYear  = "Vacancy count dynamics by year for the selected profession"
	LabelSalaryByCity           = "Salary level by city (descending)"
	LabelShareByCity            = "Vacancy share by city (descending)"
)

// SummaryLines renders the six report series as "Label: {key: value, ...}" lines
func SummaryLines(report *domain.Report) []string {
	return []string{
		LabelSalaryByYear + ": " + yearDict(report.SalaryByYear),
		LabelCountByYear + ": " + yearDict(report.CountByYear),
		LabelProfessionSalaryByYear + ": " + yearDict(report.ProfessionSalaryByYear),
		LabelProfessionCountByYear + ": " + yearDict(report.ProfessionCountByYear),
		LabelSalaryByCity + ": " + citySalaryDict(report.SalaryByCity),
		LabelShareByCity + ": " + cityShareDict(report.ShareByCity),
	}
}

// WriteSummary prints the console summary to w
func WriteSummary(w io.Writer, report *domain.Report) error {
	for _, line := range SummaryLines(report) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func yearDict(series []domain.YearValue) string {
	items := make([]string, len(series))
	for i, p := range series {
		items[i] = formatInt(p.Year) + ": " + formatInt(p.Value)
	}
	return "{" + strings.Join(items, ", ") + "}"
}

func citySalaryDict(series []domain.CityValue) string {
	items := make([]string, len(series))
	for i, c := range series {
		items[i] = quoteKey(c.City) + ": " + formatInt(c.Value)
	}
	return "{" + strings.Join(items, ", ") + "}"
}

func cityShareDict(series []domain.CityShare) string {
	items := make([]string, len(series))
	for i, c := range series {
		items[i] = quoteKey(c.City) + ": " + formatPyFloat(c.Share)
	}
	return "{" + strings.Join(items, ", ") + "}"
}
