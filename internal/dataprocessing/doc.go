// Package dataprocessing turns a vacancy CSV export into report series.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Parser: reads the CSV, sanitizes cells and drops malformed rows
// 2. Aggregator: folds vacancies into salary buckets by year or city
// 3. GapFiller: aligns a profession's year buckets with the dataset years
// 4. Assembler: produces the six ordered series of a domain.Report
//
// # Usage
//
//	parser := dataprocessing.NewParser(logger)
//	result, err := parser.ParseFile(ctx, "vacancies.csv")
//	if err != nil {
//	    return err
//	}
//
//	assembler := dataprocessing.NewAssembler(currency.NewConverter(nil),
//	    dataprocessing.DefaultAssemblerOptions(), logger)
//	report, err := assembler.Assemble(ctx, result.Vacancies, "Go developer")
//
// # Data Flow
//
//	CSV → Parser → []domain.Vacancy → Aggregator → []*domain.Bucket → GapFiller → Assembler → domain.Report
//
// # Error Handling
//
// Malformed rows are dropped and counted in ParseResult.Dropped. A missing
// header, a missing required column or a non-numeric salary is a PARSING
// error. An unknown currency code surfaces from aggregation as a CURRENCY error.
package dataprocessing
