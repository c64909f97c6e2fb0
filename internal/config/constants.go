package config

import "vacancycli/pkg/contracts"

// Application constants
const (
	// Application Info
	AppName    = "Vacancy salary report"
	AppVersion = contracts.Version

	DefaultServiceName = "vacancy-report"

	// Output formats
	FormatSpreadsheet = "xlsx"
	FormatChart       = "png"
	FormatCSV         = "csv"
	FormatAll         = "all"

	// Default output files, relative to the working directory
	DefaultSpreadsheetFile = "report.xlsx"
	DefaultChartFile       = "graph.png"
	DefaultCSVFile         = "report.csv"

	// City series
	DefaultTopCities    = 10
	DefaultMinCityShare = 0.01

	// Sheet titles
	SheetByYear = "Statistics by year"
	SheetByCity = "Statistics by city"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "vacancy-report.log"
	DefaultLogsDir   = "logs"
)

// Formats lists the formats a single run can produce, in write order
var Formats = []string{FormatSpreadsheet, FormatChart, FormatCSV}

// ExpandFormat turns a configured format into the list of formats to write
func ExpandFormat(format string) []string {
	if format == FormatAll {
		out := make([]string, len(Formats))
		copy(out, Formats)
		return out
	}
	return []string{format}
}
