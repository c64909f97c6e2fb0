// Package exporter turns an assembled vacancy report into output files and
// the console summary.
//
// Three exporters are registered by NewRegistry:
//
// SpreadsheetExporter: an .xlsx workbook with a per-year sheet and a per-city
// sheet, bordered cells and auto-sized columns.
//
// ChartExporter: a 2x2 grid of bar and pie charts encoded as PNG or JPEG.
//
// CSVExporter: every series as Section,Key,Value rows with a UTF-8 BOM.
//
// Every exporter refuses to overwrite an existing file and checks the
// destination extension before doing any work.
//
// Example usage:
//
//	registry := exporter.NewRegistry(logger)
//	if err := registry.Preflight(map[string]string{"xlsx": "report.xlsx"}); err != nil {
//		return err
//	}
//	xlsx, _ := registry.Get("xlsx")
//	err := xlsx.Export(ctx, report, "report.xlsx")
package exporter
